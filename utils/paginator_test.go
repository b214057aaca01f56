package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type pagedItem struct {
	ID  uint `gorm:"primaryKey"`
	Seq int
}

func seedItems(t *testing.T, n int) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&pagedItem{}))
	for i := 1; i <= n; i++ {
		require.NoError(t, db.Create(&pagedItem{Seq: i}).Error)
	}
	return db
}

func TestPageNumber(t *testing.T) {
	cases := []struct {
		raw      string
		numPages int
		want     int
	}{
		{"", 3, 1},
		{"abc", 3, 1},
		{"0", 3, 1},
		{"-2", 3, 1},
		{"2", 3, 2},
		{"3", 3, 3},
		{"4", 3, 3},
		{"99", 1, 1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, PageNumber(tc.raw, tc.numPages), "raw=%q pages=%d", tc.raw, tc.numPages)
	}
}

func TestPaginateThirteenItems(t *testing.T) {
	db := seedItems(t, 13)
	q := db.Model(&pagedItem{}).Order("seq DESC")

	first, err := Paginate[pagedItem](q, "1", 10)
	require.NoError(t, err)
	assert.Len(t, first.Items, 10)
	assert.Equal(t, 2, first.NumPages)
	assert.Equal(t, int64(13), first.Total)
	assert.Equal(t, 13, first.Items[0].Seq)
	assert.True(t, first.HasNext())
	assert.False(t, first.HasPrevious())
	assert.Equal(t, []int{1, 2}, first.Pages())

	second, err := Paginate[pagedItem](q, "2", 10)
	require.NoError(t, err)
	assert.Len(t, second.Items, 3)
	assert.Equal(t, 3, second.Items[0].Seq)
	assert.False(t, second.HasNext())
	assert.True(t, second.HasPrevious())
	assert.Equal(t, 1, second.PreviousPageNumber())

	clamped, err := Paginate[pagedItem](q, "50", 10)
	require.NoError(t, err)
	assert.Equal(t, 2, clamped.Number)
	assert.Len(t, clamped.Items, 3)
}

func TestPaginateEmpty(t *testing.T) {
	db := seedItems(t, 0)

	page, err := Paginate[pagedItem](db.Model(&pagedItem{}).Order("id"), "7", 5)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 1, page.NumPages)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasOtherPages())
}

func TestPaginateAuthorSize(t *testing.T) {
	db := seedItems(t, 7)

	page, err := Paginate[pagedItem](db.Model(&pagedItem{}).Order("id"), "", 5)
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)
	assert.Equal(t, 2, page.NumPages)
	assert.Equal(t, 2, page.NextPageNumber())
}
