package admin

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"quill/common"
	"quill/models"
)

type AdminModule struct {
	db      *gorm.DB
	adminID int
}

func NewAdminModule(db *gorm.DB) *AdminModule {
	return &AdminModule{
		db:      db,
		adminID: common.AdminUserID(),
	}
}

func (a *AdminModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/new-post", a.requireAuth, a.requireAdmin, a.newPost)
	router.POST("/new-post", a.requireAuth, a.requireAdmin, a.savePost)
	router.GET("/edit-post/:id", a.requireAuth, a.requireAdmin, a.editPost)
	router.POST("/edit-post/:id", a.requireAuth, a.requireAdmin, a.updatePost)
	router.GET("/delete/:id", a.requireAuth, a.requireAdmin, a.deletePost)
}

func (a *AdminModule) requireAuth(c *gin.Context) {
	userID, ok := common.CurrentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}

	c.Set("user_id", userID)
	c.Next()
}

// requireAdmin fails closed: a missing principal compares unequal to
// the privileged identifier just like any other account.
func (a *AdminModule) requireAdmin(c *gin.Context) {
	if c.GetInt("user_id") != a.adminID {
		c.HTML(http.StatusForbidden, "admin_error.html", gin.H{
			"error": "You are not allowed to do that",
		})
		c.Abort()
		return
	}

	c.Next()
}

func (a *AdminModule) newPost(c *gin.Context) {
	c.HTML(http.StatusOK, "admin_make_post.html", gin.H{
		"isEdit":   false,
		"loggedIn": true,
	})
}

func (a *AdminModule) savePost(c *gin.Context) {
	title := c.PostForm("title")
	subtitle := c.PostForm("subtitle")
	body := c.PostForm("body")
	imgURL := c.PostForm("img_url")

	formData := gin.H{
		"isEdit":   false,
		"loggedIn": true,
		"title":    title,
		"subtitle": subtitle,
		"body":     body,
		"imgURL":   imgURL,
	}

	var existingPost models.Post
	if err := a.db.Where("title = ?", title).First(&existingPost).Error; err == nil {
		formData["error"] = "A post with that title already exists"
		c.HTML(http.StatusBadRequest, "admin_make_post.html", formData)
		return
	}

	post := models.Post{
		AuthorID: c.GetInt("user_id"),
		Title:    title,
		Subtitle: subtitle,
		Date:     time.Now().Format("January 2, 2006"),
		Body:     body,
		ImgURL:   imgURL,
	}

	if err := a.db.Create(&post).Error; err != nil {
		formData["error"] = "Could not create post"
		c.HTML(http.StatusInternalServerError, "admin_make_post.html", formData)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

func (a *AdminModule) editPost(c *gin.Context) {
	postID := c.Param("id")

	var post models.Post
	if err := a.db.First(&post, "id = ?", postID).Error; err != nil {
		c.HTML(http.StatusNotFound, "admin_error.html", gin.H{
			"error": "Post not found",
		})
		return
	}

	c.HTML(http.StatusOK, "admin_make_post.html", gin.H{
		"isEdit":   true,
		"loggedIn": true,
		"postID":   post.ID,
		"title":    post.Title,
		"subtitle": post.Subtitle,
		"body":     post.Body,
		"imgURL":   post.ImgURL,
	})
}

func (a *AdminModule) updatePost(c *gin.Context) {
	postID := c.Param("id")

	var post models.Post
	if err := a.db.First(&post, "id = ?", postID).Error; err != nil {
		c.HTML(http.StatusNotFound, "admin_error.html", gin.H{
			"error": "Post not found",
		})
		return
	}

	post.Title = c.PostForm("title")
	post.Subtitle = c.PostForm("subtitle")
	post.Body = c.PostForm("body")
	post.ImgURL = c.PostForm("img_url")
	post.AuthorID = c.GetInt("user_id")

	if err := a.db.Save(&post).Error; err != nil {
		c.HTML(http.StatusInternalServerError, "admin_error.html", gin.H{
			"error": "Could not update post",
		})
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/post/%d", post.ID))
}

// deletePost removes a post and its comments. Comments never outlive
// their parent post.
func (a *AdminModule) deletePost(c *gin.Context) {
	postID := c.Param("id")

	var post models.Post
	if err := a.db.First(&post, "id = ?", postID).Error; err != nil {
		c.HTML(http.StatusNotFound, "admin_error.html", gin.H{
			"error": "Post not found",
		})
		return
	}

	if err := a.db.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
		c.HTML(http.StatusInternalServerError, "admin_error.html", gin.H{
			"error": "Could not delete post",
		})
		return
	}

	if err := a.db.Delete(&post).Error; err != nil {
		c.HTML(http.StatusInternalServerError, "admin_error.html", gin.H{
			"error": "Could not delete post",
		})
		return
	}

	c.Redirect(http.StatusFound, "/")
}
