package controllers

import (
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yatube-go/yatube/config"
	"github.com/yatube-go/yatube/models"
	"github.com/yatube-go/yatube/utils"
	"github.com/yatube-go/yatube/views"
)

const (
	// IndexCacheKey is the single shared cache entry of the front page feed.
	IndexCacheKey = "index_page"

	IndexPageSize   = 10
	GroupPageSize   = 10
	FollowPageSize  = 10
	ProfilePageSize = 5
)

// PostController serves feeds, post authoring and editing, post detail and comments.
type PostController struct {
	db        *gorm.DB
	pageCache utils.Cache
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB, pageCache utils.Cache) *PostController {
	return &PostController{db: db, pageCache: pageCache}
}

// postURL is the detail page of a post.
func postURL(username string, postID uint) string {
	return "/" + url.PathEscape(username) + "/" + strconv.FormatUint(uint64(postID), 10) + "/"
}

// profileURL is the profile page of a user.
func profileURL(username string) string {
	return "/" + url.PathEscape(username) + "/"
}

func (p *PostController) posts(ctx *gin.Context) *gorm.DB {
	return p.db.WithContext(ctx.Request.Context()).Model(&models.Post{}).Order(models.PostOrder)
}

// Index renders the global feed. The feed fragment is served from the page
// cache while its entry lives, regardless of page or viewer.
func (p *PostController) Index(ctx *gin.Context) {
	reqCtx := ctx.Request.Context()
	feed, ok := p.pageCache.GetBytes(reqCtx, IndexCacheKey)
	if !ok {
		page, err := utils.Paginate[models.Post](p.posts(ctx), ctx.Query("page"), IndexPageSize, models.WithAuthorAndGroup)
		if err != nil {
			abortWithDBError(ctx, err, "failed to list posts")
			return
		}
		feed, err = views.RenderFragment("index_feed", gin.H{"Page": page})
		if err != nil {
			utils.Logger.Error("failed to render index feed", zap.Error(err))
			ServerError(ctx)
			return
		}
		ttl := time.Duration(config.Get().IndexCacheSeconds) * time.Second
		p.pageCache.SetBytes(reqCtx, IndexCacheKey, feed, ttl)
	}
	render(ctx, http.StatusOK, "index.html", gin.H{
		"Title": "Latest updates",
		"Feed":  template.HTML(feed),
	})
}

// GroupPosts renders the feed of one group.
func (p *PostController) GroupPosts(ctx *gin.Context) {
	var group models.Group
	if err := p.db.WithContext(ctx.Request.Context()).Where("slug = ?", ctx.Param("slug")).First(&group).Error; err != nil {
		abortWithDBError(ctx, err, "failed to load group")
		return
	}
	page, err := utils.Paginate[models.Post](p.posts(ctx).Where("group_id = ?", group.ID), ctx.Query("page"), GroupPageSize, models.WithAuthorAndGroup)
	if err != nil {
		abortWithDBError(ctx, err, "failed to list group posts")
		return
	}
	render(ctx, http.StatusOK, "group.html", gin.H{
		"Title": group.Title,
		"Group": group,
		"Page":  page,
	})
}

func (p *PostController) groups(ctx *gin.Context) ([]models.Group, error) {
	var groups []models.Group
	err := p.db.WithContext(ctx.Request.Context()).Order("title ASC").Find(&groups).Error
	return groups, err
}

func (p *PostController) renderPostForm(ctx *gin.Context, post *models.Post, form postFormView, errs map[string]string) {
	groups, err := p.groups(ctx)
	if err != nil {
		abortWithDBError(ctx, err, "failed to list groups")
		return
	}
	title := "New post"
	if post != nil {
		title = "Edit post"
	}
	render(ctx, http.StatusOK, "new.html", gin.H{
		"Title":  title,
		"Post":   post,
		"Form":   form,
		"Groups": groups,
		"Errors": errs,
	})
}

// NewPost shows and handles the post authoring form.
func (p *PostController) NewPost(ctx *gin.Context) {
	user, ok := requireUser(ctx, p.db)
	if !ok {
		return
	}
	if ctx.Request.Method != http.MethodPost {
		p.renderPostForm(ctx, nil, postFormView{}, nil)
		return
	}

	b := bindPostForm(ctx, p.db)
	if !b.Valid() {
		p.renderPostForm(ctx, nil, b.View(""), b.Errors)
		return
	}

	post := models.Post{
		Text:     utils.CleanText(b.Form.Text),
		AuthorID: &user.ID,
		Image:    b.Image,
	}
	if b.Group != nil {
		post.GroupID = &b.Group.ID
	}
	if err := p.db.WithContext(ctx.Request.Context()).Create(&post).Error; err != nil {
		utils.RemoveMedia(config.Get().MediaRoot, b.Image)
		abortWithDBError(ctx, err, "failed to create post")
		return
	}
	utils.Logger.Info("post created", zap.Uint("post_id", post.ID), zap.Uint("author_id", user.ID))
	ctx.Redirect(http.StatusFound, "/")
}

// PostEdit lets the author change text, group and image of a post. Anyone
// else is sent back to the post before the request method is considered.
func (p *PostController) PostEdit(ctx *gin.Context) {
	user, ok := requireUser(ctx, p.db)
	if !ok {
		return
	}
	post, err := findAuthorPost(ctx, p.db)
	if err != nil {
		abortWithDBError(ctx, err, "failed to load post")
		return
	}
	username := ctx.Param("username")
	if !post.IsAuthoredBy(user.ID) {
		ctx.Redirect(http.StatusFound, postURL(username, post.ID))
		return
	}

	if ctx.Request.Method != http.MethodPost {
		view := postFormView{Text: post.Text, Image: post.Image}
		if post.GroupID != nil {
			view.GroupID = *post.GroupID
		}
		p.renderPostForm(ctx, post, view, nil)
		return
	}

	b := bindPostForm(ctx, p.db)
	if !b.Valid() {
		p.renderPostForm(ctx, post, b.View(post.Image), b.Errors)
		return
	}

	mediaRoot := config.Get().MediaRoot
	oldImage := post.Image
	image := oldImage
	switch {
	case b.Image != "":
		image = b.Image
	case b.Form.ImageClear != "":
		image = ""
	}
	var groupID *uint
	if b.Group != nil {
		groupID = &b.Group.ID
	}
	// a bare model keeps the preloaded Group from being written back over group_id
	err = p.db.WithContext(ctx.Request.Context()).Model(&models.Post{ID: post.ID}).Updates(map[string]interface{}{
		"text":     utils.CleanText(b.Form.Text),
		"group_id": groupID,
		"image":    image,
	}).Error
	if err != nil {
		utils.RemoveMedia(mediaRoot, b.Image)
		abortWithDBError(ctx, err, "failed to update post")
		return
	}
	if oldImage != "" && oldImage != image {
		utils.RemoveMedia(mediaRoot, oldImage)
	}
	ctx.Redirect(http.StatusFound, postURL(username, post.ID))
}

func (p *PostController) renderPostPage(ctx *gin.Context, post *models.Post, commentText string, errs map[string]string) {
	tx := p.db.WithContext(ctx.Request.Context())
	var comments []models.Comment
	if err := tx.Preload("Author").Where("post_id = ?", post.ID).Order(models.CommentOrder).Find(&comments).Error; err != nil {
		abortWithDBError(ctx, err, "failed to list comments")
		return
	}
	stats, err := loadAuthorStats(ctx, p.db, post.Author.ID)
	if err != nil {
		abortWithDBError(ctx, err, "failed to count author stats")
		return
	}
	isFollowing, err := viewerFollows(ctx, p.db, post.Author.ID)
	if err != nil {
		abortWithDBError(ctx, err, "failed to check follow state")
		return
	}
	render(ctx, http.StatusOK, "post.html", gin.H{
		"Title":       post.String(),
		"Post":        post,
		"Author":      post.Author,
		"Comments":    comments,
		"CommentText": commentText,
		"Errors":      errs,
		"PostsCount":  stats.PostsCount,
		"Followers":   stats.Followers,
		"Following":   stats.Following,
		"IsFollowing": isFollowing,
	})
}

// PostView renders a post with its comments and the comment form.
func (p *PostController) PostView(ctx *gin.Context) {
	post, err := findAuthorPost(ctx, p.db)
	if err != nil {
		abortWithDBError(ctx, err, "failed to load post")
		return
	}
	p.renderPostPage(ctx, post, "", nil)
}

// AddComment stores a comment by the session user on the addressed post.
func (p *PostController) AddComment(ctx *gin.Context) {
	user, ok := requireUser(ctx, p.db)
	if !ok {
		return
	}
	post, err := findAuthorPost(ctx, p.db)
	if err != nil {
		abortWithDBError(ctx, err, "failed to load post")
		return
	}

	var form CommentForm
	if err := ctx.ShouldBind(&form); err != nil {
		p.renderPostPage(ctx, post, form.Text, utils.FieldErrors(err))
		return
	}
	if utils.CleanText(form.Text) == "" {
		p.renderPostPage(ctx, post, form.Text, map[string]string{"text": requiredField})
		return
	}
	comment := models.Comment{
		PostID:   post.ID,
		AuthorID: user.ID,
		Text:     utils.CleanText(form.Text),
	}
	if err := p.db.WithContext(ctx.Request.Context()).Create(&comment).Error; err != nil {
		abortWithDBError(ctx, err, "failed to create comment")
		return
	}
	ctx.Redirect(http.StatusFound, postURL(ctx.Param("username"), post.ID))
}
