package blog

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"quill/auth"
	"quill/models"
)

func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	db.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{})
	return db
}

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	store := cookie.NewStore([]byte("secret"))
	router.Use(sessions.Sessions("test-session", store))
	router.SetFuncMap(map[string]interface{}{
		"year": func() int { return time.Now().Year() },
	})
	router.LoadHTMLGlob("../*/views/*.html")
	auth.NewAuthModule(db).RegisterRoutes(router)
	NewBlogModule(db).RegisterRoutes(router)
	return router
}

func createTestUser(db *gorm.DB, email, password string) *models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: string(hash),
	}
	db.Create(user)
	return user
}

func createTestPost(db *gorm.DB, authorID int, title string) *models.Post {
	post := &models.Post{
		AuthorID: authorID,
		Title:    title,
		Subtitle: "A subtitle",
		Date:     "January 2, 2006",
		Body:     "This is a **test** post.",
		ImgURL:   "https://example.com/cover.jpg",
	}
	db.Create(post)
	return post
}

func login(router *gin.Engine, email, password string) []*http.Cookie {
	form := url.Values{"email": {email}, "password": {password}}
	req, _ := http.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Result().Cookies()
}

func TestIndex_ListsPosts(t *testing.T) {
	db := setupTestDB()
	router := setupTestRouter(db)

	user := createTestUser(db, "author@example.com", "password123")
	createTestPost(db, user.ID, "First Post")
	createTestPost(db, user.ID, "Second Post")

	req, _ := http.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "First Post")
	assert.Contains(t, body, "Second Post")
	// insertion order
	assert.Less(t, strings.Index(body, "First Post"), strings.Index(body, "Second Post"))
}

func TestPost_RendersMarkdownBody(t *testing.T) {
	db := setupTestDB()
	router := setupTestRouter(db)

	user := createTestUser(db, "author@example.com", "password123")
	post := createTestPost(db, user.ID, "Hello")

	req, _ := http.NewRequest("GET", "/post/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), post.Title)
	assert.Contains(t, w.Body.String(), "<strong>test</strong>")
}

func TestPost_NotFound(t *testing.T) {
	db := setupTestDB()
	router := setupTestRouter(db)

	req, _ := http.NewRequest("GET", "/post/99", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestComment_Unauthenticated(t *testing.T) {
	db := setupTestDB()
	router := setupTestRouter(db)

	user := createTestUser(db, "author@example.com", "password123")
	createTestPost(db, user.ID, "Hello")

	form := url.Values{"comment": {"nice post"}}
	req, _ := http.NewRequest("POST", "/post/1", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	var count int64
	db.Model(&models.Comment{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestComment_Authenticated(t *testing.T) {
	db := setupTestDB()
	router := setupTestRouter(db)

	author := createTestUser(db, "author@example.com", "password123")
	post := createTestPost(db, author.ID, "Hello")
	commenter := createTestUser(db, "reader@example.com", "password123")

	cookies := login(router, "reader@example.com", "password123")
	assert.NotEmpty(t, cookies)

	form := url.Values{"comment": {"nice post"}}
	req, _ := http.NewRequest("POST", "/post/1", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/post/1", w.Header().Get("Location"))

	var comments []models.Comment
	db.Find(&comments)
	assert.Equal(t, 1, len(comments))
	assert.Equal(t, commenter.ID, comments[0].AuthorID)
	assert.Equal(t, post.ID, comments[0].PostID)
	assert.Equal(t, "nice post", comments[0].Text)
}

func TestComment_UnknownPost(t *testing.T) {
	db := setupTestDB()
	router := setupTestRouter(db)

	form := url.Values{"comment": {"hello?"}}
	req, _ := http.NewRequest("POST", "/post/99", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGravatarURL(t *testing.T) {
	url1 := gravatarURL("Reader@Example.com ")
	url2 := gravatarURL("reader@example.com")

	assert.Equal(t, url1, url2)
	assert.Contains(t, url1, "https://www.gravatar.com/avatar/")
	assert.Contains(t, url1, "d=retro")
}

func TestRenderMarkdown(t *testing.T) {
	html := renderMarkdown("# Title\n\nSome *emphasis*.")

	assert.Contains(t, html, "<h1>")
	assert.Contains(t, html, "<em>emphasis</em>")
}
