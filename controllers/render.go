package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yatube-go/yatube/middleware"
	"github.com/yatube-go/yatube/models"
	"github.com/yatube-go/yatube/utils"
)

// render fills the values every page layout needs and writes the named template.
func render(ctx *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	username, _ := middleware.CurrentUsername(ctx)
	data["Username"] = username
	data["Year"] = time.Now().Year()
	if _, ok := data["Title"]; !ok {
		data["Title"] = "Yatube"
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = map[string]string{}
	}
	ctx.HTML(status, name, data)
}

// NotFound renders the generic 404 page.
func NotFound(ctx *gin.Context) {
	render(ctx, http.StatusNotFound, "404.html", gin.H{
		"Title": "Page not found",
		"Path":  ctx.Request.URL.Path,
	})
}

// ServerError renders the generic 500 page without leaking details.
func ServerError(ctx *gin.Context) {
	render(ctx, http.StatusInternalServerError, "500.html", gin.H{"Title": "Server error"})
}

// abortWithDBError maps record-not-found to 404 and everything else to a logged 500.
func abortWithDBError(ctx *gin.Context, err error, msg string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(ctx)
		ctx.Abort()
		return
	}
	utils.Logger.Error(msg,
		zap.Error(err),
		zap.String("method", ctx.Request.Method),
		zap.String("path", ctx.Request.URL.Path),
	)
	ServerError(ctx)
	ctx.Abort()
}

// currentUser loads the session user. A token whose user no longer exists
// counts as anonymous.
func currentUser(ctx *gin.Context, db *gorm.DB) (*models.User, error) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		return nil, nil
	}
	var user models.User
	if err := db.WithContext(ctx.Request.Context()).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// requireUser resolves the session user or redirects to login. It reports
// whether the handler may continue.
func requireUser(ctx *gin.Context, db *gorm.DB) (*models.User, bool) {
	user, err := currentUser(ctx, db)
	if err != nil {
		abortWithDBError(ctx, err, "failed to load session user")
		return nil, false
	}
	if user == nil {
		ctx.Redirect(http.StatusFound, middleware.LoginRedirectURL(ctx.Request.URL.RequestURI()))
		ctx.Abort()
		return nil, false
	}
	return user, true
}

// findAuthor resolves the :username path parameter.
func findAuthor(ctx *gin.Context, db *gorm.DB) (*models.User, error) {
	var author models.User
	err := db.WithContext(ctx.Request.Context()).
		Where("username = ?", ctx.Param("username")).
		First(&author).Error
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// findAuthorPost resolves :post_id scoped to :username.
func findAuthorPost(ctx *gin.Context, db *gorm.DB) (*models.Post, error) {
	postID, err := strconv.ParseUint(ctx.Param("post_id"), 10, 64)
	if err != nil || postID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	tx := db.WithContext(ctx.Request.Context())
	authors := tx.Model(&models.User{}).Select("id").Where("username = ?", ctx.Param("username"))
	var post models.Post
	err = models.WithAuthorAndGroup(tx).
		Where("id = ? AND author_id IN (?)", postID, authors).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// authorStats are the counters shown on profile and post pages.
type authorStats struct {
	PostsCount int64
	Followers  int64
	Following  int64
}

func loadAuthorStats(ctx *gin.Context, db *gorm.DB, authorID uint) (authorStats, error) {
	var s authorStats
	tx := db.WithContext(ctx.Request.Context())
	if err := tx.Model(&models.Post{}).Where("author_id = ?", authorID).Count(&s.PostsCount).Error; err != nil {
		return s, err
	}
	if err := tx.Model(&models.Follow{}).Where("following_id = ?", authorID).Count(&s.Followers).Error; err != nil {
		return s, err
	}
	if err := tx.Model(&models.Follow{}).Where("follower_id = ?", authorID).Count(&s.Following).Error; err != nil {
		return s, err
	}
	return s, nil
}
