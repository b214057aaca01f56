package routes

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yatube-go/yatube/models"
)

func (a *testApp) followEdges(follower, following *models.User) int64 {
	var n int64
	require.NoError(a.t, a.db.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", follower.ID, following.ID).
		Count(&n).Error)
	return n
}

func TestProfile(t *testing.T) {
	app := newTestApp(t)
	leo := app.createUser("leo")
	anna := app.createUser("anna")
	for i := 0; i < 7; i++ {
		app.createPost(leo, nil, fmt.Sprintf("leo post %d", i))
	}
	require.NoError(t, app.db.Create(&models.Follow{FollowerID: anna.ID, FollowingID: leo.ID}).Error)

	w := app.get("/leo/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Equal(t, 5, postsOnPage(body))
	assert.Contains(t, body, "Posts: 7")
	assert.Contains(t, body, "Followers: 1")
	assert.Contains(t, body, "Following: 0")
	assert.NotContains(t, body, "/leo/follow/")

	w = app.get("/leo/?page=2", nil)
	assert.Equal(t, 2, postsOnPage(w.Body.String()))

	w = app.get("/leo/", app.sessionFor(anna))
	assert.Contains(t, w.Body.String(), `action="/leo/unfollow/"`)

	w = app.get("/anna/", app.sessionFor(leo))
	assert.Contains(t, w.Body.String(), `action="/anna/follow/"`)
	assert.Contains(t, w.Body.String(), "Following: 1")
}

func TestUnknownProfileIs404(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/pppp/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "/pppp/")
	assert.Contains(t, w.Body.String(), "Error 404")
}

func TestFollowUnfollowRoundTrip(t *testing.T) {
	app := newTestApp(t)
	leo := app.createUser("leo")
	anna := app.createUser("anna")
	session := app.sessionFor(anna)

	for i := 0; i < 2; i++ {
		w := app.postForm("/leo/follow/", nil, session)
		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/leo/", w.Header().Get("Location"))
	}
	assert.Equal(t, int64(1), app.followEdges(anna, leo))

	w := app.postForm("/leo/unfollow/", nil, session)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/leo/", w.Header().Get("Location"))
	assert.Equal(t, int64(0), app.followEdges(anna, leo))

	w = app.postForm("/leo/unfollow/", nil, session)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSelfFollowCreatesNoEdge(t *testing.T) {
	app := newTestApp(t)
	leo := app.createUser("leo")

	w := app.postForm("/leo/follow/", nil, app.sessionFor(leo))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/leo/", w.Header().Get("Location"))
	assert.Equal(t, int64(0), app.followEdges(leo, leo))
}

func TestFollowRequiresLogin(t *testing.T) {
	app := newTestApp(t)
	app.createUser("leo")

	w := app.postForm("/leo/follow/", nil, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, loginLocation("/leo/follow/"), w.Header().Get("Location"))

	w = app.get("/follow/", nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, loginLocation("/follow/"), w.Header().Get("Location"))
}

func TestFollowUnknownAuthor(t *testing.T) {
	app := newTestApp(t)
	anna := app.createUser("anna")

	w := app.postForm("/ghost/follow/", nil, app.sessionFor(anna))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFollowIndexShowsOnlyFollowedAuthors(t *testing.T) {
	app := newTestApp(t)
	leo := app.createUser("leo")
	anna := app.createUser("anna")
	bob := app.createUser("bob")
	app.createPost(leo, nil, "from leo")
	app.createPost(bob, nil, "from bob")

	w := app.postForm("/leo/follow/", nil, app.sessionFor(anna))
	require.Equal(t, http.StatusFound, w.Code)

	w = app.get("/follow/", app.sessionFor(anna))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "from leo")
	assert.NotContains(t, w.Body.String(), "from bob")

	w = app.get("/follow/", app.sessionFor(bob))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, postsOnPage(w.Body.String()))
}
