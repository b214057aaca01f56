package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm/logger"
)

func TestDefaults(t *testing.T) {
	c := Defaults()
	assert.Equal(t, "8000", c.AppPort)
	assert.Equal(t, "/auth/login/", c.LoginURL)
	assert.Equal(t, "mysql", c.DBDriver)
	assert.Equal(t, "memory", c.CacheBackend)
	assert.Equal(t, 20, c.IndexCacheSeconds)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.Empty(t, c.JWTSecret)
}

func TestValidate(t *testing.T) {
	c := Defaults()
	assert.ErrorIs(t, c.Validate(), ErrMissingSecret)

	c.JWTSecret = "s"
	assert.NoError(t, c.Validate())

	c.DBDriver = "oracle"
	assert.Error(t, c.Validate())

	c.DBDriver = "sqlite"
	c.CacheBackend = "memcached"
	assert.Error(t, c.Validate())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("INDEX_CACHE_SECONDS", "5")
	t.Setenv("ADMIN_USERNAMES", " root, Editor ,")
	t.Setenv("LOG_COMPRESS", "true")
	t.Setenv("CACHE_BACKEND", "redis")

	c := Defaults()
	applyEnvOverrides(&c)
	assert.Equal(t, "postgres", c.DBDriver)
	assert.Equal(t, 5, c.IndexCacheSeconds)
	assert.Equal(t, []string{"root", "Editor"}, c.AdminUsernames)
	assert.True(t, c.LogCompress)
	assert.Equal(t, "redis", c.CacheBackend)
}

func TestLoadJSONConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"app": {"AppPort": "9000", "AdminUsernames": ["boss"]},
		"database": {"Driver": "sqlite", "DBName": "blog"},
		"cache": {"Backend": "redis", "IndexSeconds": 30},
		"media": {"Root": "/srv/media"},
		"log": {"Level": "debug", "Compress": true}
	}`), 0o644))

	var c AppConfig
	require.NoError(t, loadJSONConfig(path, &c))
	applyDefaults(&c)
	assert.Equal(t, "9000", c.AppPort)
	assert.Equal(t, []string{"boss"}, c.AdminUsernames)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, "blog", c.DBName)
	assert.Equal(t, 30, c.IndexCacheSeconds)
	assert.Equal(t, "/srv/media", c.MediaRoot)
	assert.True(t, c.LogCompress)
	assert.Equal(t, "yatube_session", c.SessionCookie)

	assert.NoError(t, loadJSONConfig(filepath.Join(t.TempDir(), "missing.json"), &c))

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	assert.Error(t, loadJSONConfig(bad, &c))
}

func TestIsAdmin(t *testing.T) {
	c := Defaults()
	c.AdminUsernames = []string{"Root"}
	assert.True(t, c.IsAdmin("root"))
	assert.False(t, c.IsAdmin("leo"))
	assert.False(t, c.IsAdmin(" "))
}

func TestDialectorFor(t *testing.T) {
	c := Defaults()
	c.DBUser, c.DBPassword = "u", "p"

	d, err := dialectorFor(c)
	require.NoError(t, err)
	my, ok := d.(*mysql.Dialector)
	require.True(t, ok)
	assert.Equal(t, "u:p@tcp(127.0.0.1:3306)/yatube?charset=utf8mb4&parseTime=True&loc=Local", my.Config.DSN)

	c.DBDriver = "postgres"
	d, err = dialectorFor(c)
	require.NoError(t, err)
	pg, ok := d.(*postgres.Dialector)
	require.True(t, ok)
	assert.Contains(t, pg.Config.DSN, "port=5432")

	c.DBDriver = "sqlite"
	d, err = dialectorFor(c)
	require.NoError(t, err)
	lite, ok := d.(*sqlite.Dialector)
	require.True(t, ok)
	assert.Equal(t, "yatube.sqlite3", lite.DSN)

	c.DBDriver = "mssql"
	_, err = dialectorFor(c)
	assert.Error(t, err)
}

func TestToGormLogLevel(t *testing.T) {
	assert.Equal(t, logger.Info, toGormLogLevel("debug"))
	assert.Equal(t, logger.Warn, toGormLogLevel("info"))
	assert.Equal(t, logger.Error, toGormLogLevel("error"))
	assert.Equal(t, logger.Silent, toGormLogLevel("silent"))
}

func TestOpenDatabaseSQLite(t *testing.T) {
	c := Defaults()
	c.DBDriver = "sqlite"
	c.DatabaseURI = filepath.Join(t.TempDir(), "test.sqlite3")
	c.LogLevel = "silent"

	db, err := OpenDatabase(c)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	require.NoError(t, sqlDB.Close())
}
