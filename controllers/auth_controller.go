package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yatube-go/yatube/config"
	"github.com/yatube-go/yatube/middleware"
	"github.com/yatube-go/yatube/models"
	"github.com/yatube-go/yatube/utils"
)

const badCredentials = "Please enter a correct username and password. Note that both fields may be case-sensitive."

// AuthController handles local sign up, login and logout.
type AuthController struct {
	db        *gorm.DB
	blacklist *utils.TokenBlacklist
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB, blacklist *utils.TokenBlacklist) *AuthController {
	return &AuthController{db: db, blacklist: blacklist}
}

// safeNext only allows same-site relative redirect targets.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.HasPrefix(next, "/\\") {
		return next
	}
	return "/"
}

func (a *AuthController) startSession(ctx *gin.Context, user *models.User) error {
	ttl := utils.SessionTTL()
	token, err := utils.GenerateToken(user.ID, user.Username, ttl)
	if err != nil {
		return err
	}
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(config.Get().SessionCookie, token, int(ttl/time.Second), "/", "", ctx.Request.TLS != nil, true)
	return nil
}

// LoginPage shows the login form.
func (a *AuthController) LoginPage(ctx *gin.Context) {
	render(ctx, http.StatusOK, "login.html", gin.H{
		"Title": "Log in",
		"Form":  LoginForm{},
		"Next":  ctx.Query("next"),
	})
}

// Login verifies credentials and issues the session cookie.
func (a *AuthController) Login(ctx *gin.Context) {
	var form LoginForm
	fail := func(errs map[string]string) {
		form.Password = ""
		render(ctx, http.StatusOK, "login.html", gin.H{
			"Title":  "Log in",
			"Form":   form,
			"Next":   form.Next,
			"Errors": errs,
		})
	}
	if err := ctx.ShouldBind(&form); err != nil {
		fail(utils.FieldErrors(err))
		return
	}

	var user models.User
	err := a.db.WithContext(ctx.Request.Context()).Where("username = ?", strings.TrimSpace(form.Username)).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		abortWithDBError(ctx, err, "failed to load user")
		return
	}
	if err != nil || !utils.CheckPassword(user.PasswordHash, form.Password) {
		fail(map[string]string{"__all__": badCredentials})
		return
	}
	if err := a.startSession(ctx, &user); err != nil {
		utils.Logger.Error("failed to issue session", zap.Error(err))
		ServerError(ctx)
		return
	}
	ctx.Redirect(http.StatusFound, safeNext(form.Next))
}

// SignupPage shows the registration form.
func (a *AuthController) SignupPage(ctx *gin.Context) {
	render(ctx, http.StatusOK, "signup.html", gin.H{
		"Title": "Sign up",
		"Form":  SignupForm{},
	})
}

// Signup creates an account and logs it in.
func (a *AuthController) Signup(ctx *gin.Context) {
	var form SignupForm
	fail := func(errs map[string]string) {
		form.Password1, form.Password2 = "", ""
		render(ctx, http.StatusOK, "signup.html", gin.H{
			"Title":  "Sign up",
			"Form":   form,
			"Errors": errs,
		})
	}
	if err := ctx.ShouldBind(&form); err != nil {
		fail(utils.FieldErrors(err))
		return
	}
	form.Username = strings.TrimSpace(form.Username)
	if reservedUsernames[strings.ToLower(form.Username)] {
		fail(map[string]string{"username": "This username is reserved."})
		return
	}

	tx := a.db.WithContext(ctx.Request.Context())
	var taken int64
	if err := tx.Model(&models.User{}).Where("username = ?", form.Username).Count(&taken).Error; err != nil {
		abortWithDBError(ctx, err, "failed to check username")
		return
	}
	if taken > 0 {
		fail(map[string]string{"username": "A user with that username already exists."})
		return
	}

	hash, err := utils.HashPassword(form.Password1)
	if err != nil {
		utils.Logger.Error("failed to hash password", zap.Error(err))
		ServerError(ctx)
		return
	}
	user := models.User{
		Username:     form.Username,
		FirstName:    strings.TrimSpace(form.FirstName),
		LastName:     strings.TrimSpace(form.LastName),
		Email:        strings.TrimSpace(form.Email),
		PasswordHash: hash,
	}
	if err := tx.Create(&user).Error; err != nil {
		abortWithDBError(ctx, err, "failed to create user")
		return
	}
	utils.Logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	if err := a.startSession(ctx, &user); err != nil {
		utils.Logger.Error("failed to issue session", zap.Error(err))
		ServerError(ctx)
		return
	}
	ctx.Redirect(http.StatusFound, "/")
}

// Logout revokes the current session token and clears the cookie.
func (a *AuthController) Logout(ctx *gin.Context) {
	if token := ctx.GetString(middleware.ContextTokenKey); token != "" && a.blacklist != nil {
		if claims, ok := ctx.Get(middleware.ContextClaimsKey); ok {
			if c, ok := claims.(*utils.Claims); ok && c.ExpiresAt != nil {
				a.blacklist.Revoke(ctx.Request.Context(), token, c.ExpiresAt.Time)
			}
		}
	}
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(config.Get().SessionCookie, "", -1, "/", "", ctx.Request.TLS != nil, true)
	ctx.Redirect(http.StatusFound, "/")
}
