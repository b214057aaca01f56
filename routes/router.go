package routes

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yatube-go/yatube/config"
	"github.com/yatube-go/yatube/controllers"
	"github.com/yatube-go/yatube/middleware"
	"github.com/yatube-go/yatube/utils"
	"github.com/yatube-go/yatube/views"
)

// Options carries the shared stores the handlers depend on.
type Options struct {
	// PageCache holds the front page feed fragment.
	PageCache utils.Cache
	// Blacklist records revoked session tokens.
	Blacklist *utils.TokenBlacklist
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, opts Options) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
	if opts.PageCache == nil {
		opts.PageCache = utils.NewMemoryCache()
	}
	if opts.Blacklist == nil {
		opts.Blacklist = utils.NewTokenBlacklist(utils.NewMemoryCache())
	}
	controllers.RegisterValidators()

	r := gin.New()
	r.SetHTMLTemplate(views.Templates())
	r.MaxMultipartMemory = int64(cfg.MaxUploadMB) << 20

	// Access log goes to its own rolling file when GinPath is set
	accessLog := utils.Logger
	if cfg.GinPath != "" {
		if gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg); err == nil {
			accessLog = gl
		} else {
			utils.Sugar.Warnf("gin access log disabled: %v", err)
		}
	}
	r.Use(ginzap.Ginzap(accessLog, time.RFC3339, true))
	r.Use(ginzap.CustomRecoveryWithZap(accessLog, true, func(ctx *gin.Context, recovered any) {
		utils.Logger.Error("panic recovered",
			zap.Any("error", recovered),
			zap.String("path", ctx.Request.URL.Path),
		)
		controllers.ServerError(ctx)
		ctx.Abort()
	}))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))
	r.Use(middleware.Identify(opts.Blacklist))

	r.Static("/media", cfg.MediaRoot)
	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	postController := controllers.NewPostController(db, opts.PageCache)
	profileController := controllers.NewProfileController(db)
	authController := controllers.NewAuthController(db, opts.Blacklist)
	adminController := controllers.NewAdminController(opts.PageCache)

	limited := middleware.RateLimitMiddleware(cfg.RateLimitPerMinute)
	login := middleware.LoginRequired()

	authGroup := r.Group("/auth")
	authGroup.GET("/login/", authController.LoginPage)
	authGroup.POST("/login/", limited, authController.Login)
	authGroup.GET("/signup/", authController.SignupPage)
	authGroup.POST("/signup/", limited, authController.Signup)
	authGroup.POST("/logout/", authController.Logout)

	about := r.Group("/about")
	about.GET("/author/", controllers.AboutAuthor)
	about.GET("/tech/", controllers.AboutTech)

	admin := r.Group("/admin", middleware.AdminRequired())
	admin.POST("/cache/clear/", adminController.ClearCache)

	r.GET("/", postController.Index)
	r.GET("/group/:slug/", postController.GroupPosts)
	r.GET("/new/", login, postController.NewPost)
	r.POST("/new/", login, limited, postController.NewPost)
	r.GET("/follow/", login, profileController.FollowIndex)

	r.GET("/:username/", profileController.Profile)
	r.POST("/:username/follow/", login, limited, profileController.ProfileFollow)
	r.POST("/:username/unfollow/", login, limited, profileController.ProfileUnfollow)

	r.GET("/:username/:post_id/", postController.PostView)
	r.POST("/:username/:post_id/", login, limited, postController.AddComment)
	r.GET("/:username/:post_id/edit/", login, postController.PostEdit)
	r.POST("/:username/:post_id/edit/", login, limited, postController.PostEdit)
	r.POST("/:username/:post_id/comment/", login, limited, postController.AddComment)

	r.NoRoute(controllers.NotFound)

	return r
}
