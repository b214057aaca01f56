package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yatube-go/yatube/middleware"
	"github.com/yatube-go/yatube/models"
	"github.com/yatube-go/yatube/utils"
)

// ProfileController serves author profiles and the follow graph.
type ProfileController struct {
	db *gorm.DB
}

// NewProfileController creates a ProfileController.
func NewProfileController(db *gorm.DB) *ProfileController {
	return &ProfileController{db: db}
}

// viewerFollows reports whether the session user follows authorID.
func viewerFollows(ctx *gin.Context, db *gorm.DB, authorID uint) (bool, error) {
	viewerID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		return false, nil
	}
	var n int64
	err := db.WithContext(ctx.Request.Context()).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", viewerID, authorID).
		Count(&n).Error
	return n > 0, err
}

// Profile renders an author's posts with follower counters.
func (pc *ProfileController) Profile(ctx *gin.Context) {
	author, err := findAuthor(ctx, pc.db)
	if err != nil {
		abortWithDBError(ctx, err, "failed to load profile")
		return
	}
	posts := pc.db.WithContext(ctx.Request.Context()).Model(&models.Post{}).
		Where("author_id = ?", author.ID).
		Order(models.PostOrder)
	page, err := utils.Paginate[models.Post](posts, ctx.Query("page"), ProfilePageSize, models.WithAuthorAndGroup)
	if err != nil {
		abortWithDBError(ctx, err, "failed to list profile posts")
		return
	}
	stats, err := loadAuthorStats(ctx, pc.db, author.ID)
	if err != nil {
		abortWithDBError(ctx, err, "failed to count author stats")
		return
	}
	isFollowing, err := viewerFollows(ctx, pc.db, author.ID)
	if err != nil {
		abortWithDBError(ctx, err, "failed to check follow state")
		return
	}
	render(ctx, http.StatusOK, "profile.html", gin.H{
		"Title":       author.FullName(),
		"Author":      author,
		"Page":        page,
		"PostsCount":  stats.PostsCount,
		"Followers":   stats.Followers,
		"Following":   stats.Following,
		"IsFollowing": isFollowing,
	})
}

// ProfileFollow subscribes the session user to the profile's author. Repeating
// it is harmless and following yourself does nothing.
func (pc *ProfileController) ProfileFollow(ctx *gin.Context) {
	user, ok := requireUser(ctx, pc.db)
	if !ok {
		return
	}
	author, err := findAuthor(ctx, pc.db)
	if err != nil {
		abortWithDBError(ctx, err, "failed to load profile")
		return
	}
	if author.ID != user.ID {
		edge := models.Follow{FollowerID: user.ID, FollowingID: author.ID}
		if err := pc.db.WithContext(ctx.Request.Context()).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&edge).Error; err != nil {
			abortWithDBError(ctx, err, "failed to follow author")
			return
		}
		utils.Logger.Debug("follow", zap.Uint("follower_id", user.ID), zap.Uint("following_id", author.ID))
	}
	ctx.Redirect(http.StatusFound, profileURL(author.Username))
}

// ProfileUnfollow removes the follow edge, or renders 404 when there is none.
func (pc *ProfileController) ProfileUnfollow(ctx *gin.Context) {
	user, ok := requireUser(ctx, pc.db)
	if !ok {
		return
	}
	author, err := findAuthor(ctx, pc.db)
	if err != nil {
		abortWithDBError(ctx, err, "failed to load profile")
		return
	}
	res := pc.db.WithContext(ctx.Request.Context()).
		Where("follower_id = ? AND following_id = ?", user.ID, author.ID).
		Delete(&models.Follow{})
	if res.Error != nil {
		abortWithDBError(ctx, res.Error, "failed to unfollow author")
		return
	}
	if res.RowsAffected == 0 {
		NotFound(ctx)
		return
	}
	ctx.Redirect(http.StatusFound, profileURL(author.Username))
}

// FollowIndex lists posts by the authors the session user follows.
func (pc *ProfileController) FollowIndex(ctx *gin.Context) {
	user, ok := requireUser(ctx, pc.db)
	if !ok {
		return
	}
	tx := pc.db.WithContext(ctx.Request.Context())
	following := tx.Model(&models.Follow{}).Select("following_id").Where("follower_id = ?", user.ID)
	posts := tx.Model(&models.Post{}).Where("author_id IN (?)", following).Order(models.PostOrder)
	page, err := utils.Paginate[models.Post](posts, ctx.Query("page"), FollowPageSize, models.WithAuthorAndGroup)
	if err != nil {
		abortWithDBError(ctx, err, "failed to list followed posts")
		return
	}
	render(ctx, http.StatusOK, "follow.html", gin.H{
		"Title": "Subscriptions",
		"Page":  page,
	})
}
