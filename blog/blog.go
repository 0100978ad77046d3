package blog

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
	"gorm.io/gorm"

	"quill/common"
	emailpkg "quill/email"
	"quill/models"
)

type BlogModule struct {
	db *gorm.DB
}

// markdown renderer configured with Goldmark and useful extensions
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,     // tables, strikethrough, task lists, autolinks (GFM set)
		extension.Linkify, // linkify raw URLs
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithUnsafe(), // allow raw HTML passthrough in Markdown
	),
)

func NewBlogModule(db *gorm.DB) *BlogModule {
	return &BlogModule{db: db}
}

func (b *BlogModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/", b.index)
	router.GET("/post/:id", b.post)
	router.POST("/post/:id", b.commentPost)
	router.GET("/about", b.about)
	router.GET("/contact", b.contact)
	router.POST("/contact", b.contactPost)
}

func (b *BlogModule) index(c *gin.Context) {
	var posts []models.Post
	if err := b.db.Find(&posts).Error; err != nil {
		c.HTML(http.StatusInternalServerError, "blog_error.html", gin.H{
			"error": "Could not load posts",
		})
		return
	}

	userID, loggedIn := common.CurrentUserID(c)

	c.HTML(http.StatusOK, "blog_index.html", gin.H{
		"posts":    posts,
		"loggedIn": loggedIn,
		"isAdmin":  loggedIn && userID == common.AdminUserID(),
		"flashes":  common.TakeFlashes(c),
	})
}

// commentView pairs a comment with its author's display data.
type commentView struct {
	Text        template.HTML
	AuthorName  string
	GravatarURL string
}

func (b *BlogModule) post(c *gin.Context) {
	postID := c.Param("id")

	var post models.Post
	if err := b.db.First(&post, "id = ?", postID).Error; err != nil {
		c.HTML(http.StatusNotFound, "blog_error.html", gin.H{
			"error": "Post not found",
		})
		return
	}

	var comments []models.Comment
	if err := b.db.Preload("Author").Where("post_id = ?", post.ID).Find(&comments).Error; err != nil {
		c.HTML(http.StatusInternalServerError, "blog_error.html", gin.H{
			"error": "Could not load comments",
		})
		return
	}

	commentViews := make([]commentView, 0, len(comments))
	for _, comment := range comments {
		commentViews = append(commentViews, commentView{
			Text:        template.HTML(renderMarkdown(comment.Text)),
			AuthorName:  comment.Author.Name,
			GravatarURL: gravatarURL(comment.Author.Email),
		})
	}

	userID, loggedIn := common.CurrentUserID(c)

	c.HTML(http.StatusOK, "blog_post.html", gin.H{
		"post":     post,
		"bodyHTML": template.HTML(renderMarkdown(post.Body)),
		"comments": commentViews,
		"loggedIn": loggedIn,
		"isAdmin":  loggedIn && userID == common.AdminUserID(),
		"flashes":  common.TakeFlashes(c),
	})
}

func (b *BlogModule) commentPost(c *gin.Context) {
	postID := c.Param("id")

	var post models.Post
	if err := b.db.First(&post, "id = ?", postID).Error; err != nil {
		c.HTML(http.StatusNotFound, "blog_error.html", gin.H{
			"error": "Post not found",
		})
		return
	}

	userID, loggedIn := common.CurrentUserID(c)
	if !loggedIn {
		common.Flash(c, "You need to login or register to comment")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	comment := models.Comment{
		AuthorID: userID,
		PostID:   post.ID,
		Text:     c.PostForm("comment"),
	}

	if err := b.db.Create(&comment).Error; err != nil {
		c.HTML(http.StatusInternalServerError, "blog_error.html", gin.H{
			"error": "Could not save your comment",
		})
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/post/%d", post.ID))
}

func (b *BlogModule) about(c *gin.Context) {
	_, loggedIn := common.CurrentUserID(c)
	c.HTML(http.StatusOK, "blog_about.html", gin.H{
		"loggedIn": loggedIn,
	})
}

func (b *BlogModule) contact(c *gin.Context) {
	_, loggedIn := common.CurrentUserID(c)
	c.HTML(http.StatusOK, "blog_contact.html", gin.H{
		"loggedIn": loggedIn,
		"flashes":  common.TakeFlashes(c),
	})
}

func (b *BlogModule) contactPost(c *gin.Context) {
	name := c.PostForm("name")
	email := c.PostForm("email")
	phone := c.PostForm("phone")
	message := c.PostForm("message")

	contactService := emailpkg.NewContactService()
	if err := contactService.SendContactMessage(name, email, phone, message); err != nil {
		common.Flash(c, "Could not send your message, please try again later.")
		c.Redirect(http.StatusFound, "/contact")
		return
	}

	common.Flash(c, "Your message has been sent.")
	c.Redirect(http.StatusFound, "/contact")
}

func renderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		// on error, return the original content so the page still renders
		return content
	}
	return buf.String()
}

// gravatarURL builds an avatar URL for a comment author. Size, rating
// and default image match the retro look the site always had.
func gravatarURL(email string) string {
	hash := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=100&d=retro&r=g", hash)
}
