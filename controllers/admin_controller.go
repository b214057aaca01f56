package controllers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube-go/yatube/middleware"
	"github.com/yatube-go/yatube/utils"
)

// AdminController exposes maintenance endpoints restricted to admin usernames.
type AdminController struct {
	pageCache utils.Cache
}

// NewAdminController creates an AdminController.
func NewAdminController(pageCache utils.Cache) *AdminController {
	return &AdminController{pageCache: pageCache}
}

// ClearCache drops the cached front page feed.
func (a *AdminController) ClearCache(ctx *gin.Context) {
	a.pageCache.Clear(ctx.Request.Context())
	username, _ := middleware.CurrentUsername(ctx)
	utils.Logger.Info("page cache cleared", zap.String("by", username))
	utils.Success(ctx, gin.H{"cleared": true})
}
