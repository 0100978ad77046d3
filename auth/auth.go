package auth

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"quill/common"
	"quill/models"
)

type AuthModule struct {
	db *gorm.DB
}

func NewAuthModule(db *gorm.DB) *AuthModule {
	return &AuthModule{db: db}
}

func (a *AuthModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/register", a.registerPage)
	router.POST("/register", a.registerPost)
	router.GET("/login", a.loginPage)
	router.POST("/login", a.loginPost)
	router.GET("/logout", a.logout)
}

func (a *AuthModule) registerPage(c *gin.Context) {
	if _, ok := common.CurrentUserID(c); ok {
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.HTML(http.StatusOK, "auth_register.html", gin.H{
		"flashes": common.TakeFlashes(c),
	})
}

func (a *AuthModule) registerPost(c *gin.Context) {
	name := c.PostForm("name")
	email := c.PostForm("email")
	password := c.PostForm("password")

	var existingUser models.User
	if err := a.db.Where("email = ?", email).First(&existingUser).Error; err == nil {
		common.Flash(c, "You've already signed up with that email, log in instead!")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "auth_register.html", gin.H{
			"error": "Could not create your account",
			"name":  name,
			"email": email,
		})
		return
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}

	if err := a.db.Create(&user).Error; err != nil {
		c.HTML(http.StatusInternalServerError, "auth_register.html", gin.H{
			"error": "Could not create your account",
			"name":  name,
			"email": email,
		})
		return
	}

	session := sessions.Default(c)
	session.Set(common.SessionUserKey, user.ID)
	session.Save()

	c.Redirect(http.StatusFound, "/")
}

func (a *AuthModule) loginPage(c *gin.Context) {
	if _, ok := common.CurrentUserID(c); ok {
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.HTML(http.StatusOK, "auth_login.html", gin.H{
		"flashes": common.TakeFlashes(c),
	})
}

func (a *AuthModule) loginPost(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	var user models.User
	if err := a.db.Where("email = ?", email).First(&user).Error; err != nil {
		common.Flash(c, "That email does not exist, please try again.")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	if !checkPasswordHash(password, user.PasswordHash) {
		common.Flash(c, "Password incorrect, please try again.")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	session := sessions.Default(c)
	session.Set(common.SessionUserKey, user.ID)
	session.Save()

	c.Redirect(http.StatusFound, "/")
}

// logout clears the session unconditionally; logging out while not
// logged in is not an error.
func (a *AuthModule) logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()

	c.Redirect(http.StatusFound, "/")
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func checkPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
