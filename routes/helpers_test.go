package routes

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yatube-go/yatube/config"
	"github.com/yatube-go/yatube/models"
	"github.com/yatube-go/yatube/utils"
)

// tinyGIF is a valid 1x1 transparent GIF.
var tinyGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xff, 0xff, 0xff, 0x21, 0xf9, 0x04, 0x01, 0x00, 0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00,
	0x01, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
}

type testApp struct {
	t         *testing.T
	db        *gorm.DB
	router    *gin.Engine
	pageCache *utils.MemoryCache
	cfg       config.AppConfig
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	cfg := config.Defaults()
	cfg.JWTSecret = "test-secret"
	cfg.GinMode = "test"
	cfg.RateLimitPerMinute = 0
	cfg.MediaRoot = t.TempDir()
	cfg.AdminUsernames = []string{"admin"}
	config.Set(cfg)

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	pageCache := utils.NewMemoryCache()
	r := SetupRouter(db, Options{
		PageCache: pageCache,
		Blacklist: utils.NewTokenBlacklist(utils.NewMemoryCache()),
	})
	return &testApp{t: t, db: db, router: r, pageCache: pageCache, cfg: cfg}
}

func (a *testApp) createUser(username string) *models.User {
	a.t.Helper()
	u := &models.User{Username: username, FirstName: strings.ToUpper(username[:1]) + username[1:]}
	require.NoError(a.t, a.db.Create(u).Error)
	return u
}

func (a *testApp) createGroup(slug string) *models.Group {
	a.t.Helper()
	g := &models.Group{Title: "Group " + slug, Slug: slug, Description: "About " + slug}
	require.NoError(a.t, a.db.Create(g).Error)
	return g
}

// createPost stores a post; later calls get later publication times.
func (a *testApp) createPost(author *models.User, group *models.Group, text string) *models.Post {
	a.t.Helper()
	var n int64
	a.db.Model(&models.Post{}).Count(&n)
	p := &models.Post{
		Text:    text,
		PubDate: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Minute),
	}
	if author != nil {
		p.AuthorID = &author.ID
	}
	if group != nil {
		p.GroupID = &group.ID
	}
	require.NoError(a.t, a.db.Create(p).Error)
	return p
}

func (a *testApp) sessionFor(u *models.User) *http.Cookie {
	a.t.Helper()
	token, err := utils.GenerateToken(u.ID, u.Username, time.Hour)
	require.NoError(a.t, err)
	return &http.Cookie{Name: a.cfg.SessionCookie, Value: token}
}

func (a *testApp) serve(req *http.Request, session *http.Cookie) *httptest.ResponseRecorder {
	if session != nil {
		req.AddCookie(session)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) get(path string, session *http.Cookie) *httptest.ResponseRecorder {
	return a.serve(httptest.NewRequest(http.MethodGet, path, nil), session)
}

func (a *testApp) postForm(path string, form url.Values, session *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.serve(req, session)
}

func (a *testApp) postMultipart(path string, fields map[string]string, fileField, fileName string, content []byte, session *http.Cookie) *httptest.ResponseRecorder {
	a.t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(a.t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, fileName)
		require.NoError(a.t, err)
		_, err = fw.Write(content)
		require.NoError(a.t, err)
	}
	require.NoError(a.t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return a.serve(req, session)
}

func (a *testApp) countPosts() int64 {
	var n int64
	require.NoError(a.t, a.db.Model(&models.Post{}).Count(&n).Error)
	return n
}

// postsOnPage counts rendered post cards.
func postsOnPage(body string) int {
	return strings.Count(body, `<article class="post">`)
}

func loginLocation(next string) string {
	return "/auth/login/?" + url.Values{"next": {next}}.Encode()
}
