package routes

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yatube-go/yatube/models"
	"github.com/yatube-go/yatube/utils"
)

func TestAboutPages(t *testing.T) {
	app := newTestApp(t)
	for _, path := range []string{"/about/author/", "/about/tech/"} {
		w := app.get(path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/a/b/c/d/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Error 404")
}

func TestPanicRendersServerErrorPage(t *testing.T) {
	app := newTestApp(t)
	app.router.GET("/boom/panic", func(*gin.Context) { panic("kaboom") })

	w := app.get("/boom/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Error 500")
	assert.NotContains(t, w.Body.String(), "kaboom")
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":0,"message":"success","data":{"status":"ok"}}`, w.Body.String())
}

func TestAdminCacheClear(t *testing.T) {
	app := newTestApp(t)
	admin := app.createUser("admin")
	leo := app.createUser("leo")
	app.pageCache.SetBytes(context.Background(), "index_page", []byte("stale"), 0)

	w := app.postForm("/admin/cache/clear/", nil, app.sessionFor(leo))
	assert.Equal(t, http.StatusForbidden, w.Code)
	_, ok := app.pageCache.GetBytes(context.Background(), "index_page")
	assert.True(t, ok)

	w = app.postForm("/admin/cache/clear/", nil, app.sessionFor(admin))
	require.Equal(t, http.StatusOK, w.Code)
	_, ok = app.pageCache.GetBytes(context.Background(), "index_page")
	assert.False(t, ok)
}

func TestSignupLoginLogout(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm("/auth/signup/", url.Values{
		"username":  {"newbie"},
		"email":     {"newbie@example.com"},
		"password1": {"correct-horse"},
		"password2": {"correct-horse"},
	}, nil)
	require.Equal(t, http.StatusFound, w.Code)
	var user models.User
	require.NoError(t, app.db.Where("username = ?", "newbie").First(&user).Error)
	assert.True(t, utils.CheckPassword(user.PasswordHash, "correct-horse"))

	w = app.postForm("/auth/login/", url.Values{
		"username": {"newbie"},
		"password": {"correct-horse"},
		"next":     {"/new/"},
	}, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/new/", w.Header().Get("Location"))
	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == app.cfg.SessionCookie {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	w = app.get("/new/", session)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.postForm("/auth/logout/", nil, session)
	require.Equal(t, http.StatusFound, w.Code)

	w = app.get("/new/", session)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, loginLocation("/new/"), w.Header().Get("Location"))
}

func TestSignupValidation(t *testing.T) {
	app := newTestApp(t)
	app.createUser("taken")

	cases := map[string]struct {
		form url.Values
		want string
	}{
		"password mismatch": {
			form: url.Values{"username": {"x1"}, "password1": {"12345678"}, "password2": {"87654321"}},
			want: "didn&#39;t match",
		},
		"duplicate username": {
			form: url.Values{"username": {"taken"}, "password1": {"12345678"}, "password2": {"12345678"}},
			want: "already exists",
		},
		"reserved username": {
			form: url.Values{"username": {"follow"}, "password1": {"12345678"}, "password2": {"12345678"}},
			want: "reserved",
		},
		"bad characters": {
			form: url.Values{"username": {"a b"}, "password1": {"12345678"}, "password2": {"12345678"}},
			want: "Enter a valid username.",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := app.postForm("/auth/signup/", tc.form, nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tc.want)
		})
	}
}

func TestLoginRejectsBadCredentialsAndForeignNext(t *testing.T) {
	app := newTestApp(t)
	hash, err := utils.HashPassword("s3cret-pass")
	require.NoError(t, err)
	require.NoError(t, app.db.Create(&models.User{Username: "leo", PasswordHash: hash}).Error)

	w := app.postForm("/auth/login/", url.Values{"username": {"leo"}, "password": {"wrong"}}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Please enter a correct username and password.")

	w = app.postForm("/auth/login/", url.Values{
		"username": {"leo"},
		"password": {"s3cret-pass"},
		"next":     {"//evil.example.com/"},
	}, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestLoginPageKeepsNext(t *testing.T) {
	app := newTestApp(t)

	w := app.get(loginLocation("/follow/"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="next" value="/follow/"`)
}
