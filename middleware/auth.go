package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/yatube-go/yatube/config"
	"github.com/yatube-go/yatube/utils"
)

const (
	// ContextUserIDKey is the key used to store authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside Gin context.
	ContextUsernameKey = "username"
	// ContextTokenKey stores the raw session token for logout.
	ContextTokenKey = "session_token"
	// ContextClaimsKey stores the parsed session claims.
	ContextClaimsKey = "session_claims"
)

// Identify resolves the session cookie into a user identity. Anonymous
// requests pass through untouched.
func Identify(blacklist *utils.TokenBlacklist) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		cfg := config.Get()
		token, err := ctx.Cookie(cfg.SessionCookie)
		if err != nil || token == "" {
			ctx.Next()
			return
		}
		if blacklist != nil && blacklist.IsRevoked(ctx.Request.Context(), token) {
			ctx.Next()
			return
		}
		claims, err := utils.ParseToken(token)
		if err != nil {
			utils.Logger.Debug("ignoring invalid session cookie")
			ctx.Next()
			return
		}
		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Set(ContextTokenKey, token)
		ctx.Set(ContextClaimsKey, claims)
		ctx.Next()
	}
}

// LoginRequired redirects anonymous users to the login page, carrying the
// requested path in the next query parameter.
func LoginRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if _, ok := CurrentUserID(ctx); ok {
			ctx.Next()
			return
		}
		ctx.Redirect(http.StatusFound, LoginRedirectURL(ctx.Request.URL.RequestURI()))
		ctx.Abort()
	}
}

// AdminRequired allows only users listed in AdminUsernames.
func AdminRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		username, _ := CurrentUsername(ctx)
		if _, ok := CurrentUserID(ctx); !ok || !config.Get().IsAdmin(username) {
			utils.Error(ctx, http.StatusForbidden, 40301, "admin only")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// LoginRedirectURL builds the login URL that returns to next after sign in.
func LoginRedirectURL(next string) string {
	return config.Get().LoginURL + "?" + url.Values{"next": {next}}.Encode()
}

// CurrentUserID returns the authenticated user's ID, if any.
func CurrentUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok && id != 0
}

// CurrentUsername returns the authenticated user's username, if any.
func CurrentUsername(ctx *gin.Context) (string, bool) {
	return ctx.GetString(ContextUsernameKey), ctx.GetString(ContextUsernameKey) != ""
}
