package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is a publication. Author and group are both optional references.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	PubDate   time.Time `gorm:"autoCreateTime;index" json:"pub_date"`
	AuthorID  *uint     `gorm:"index" json:"author_id"`
	Author    *User     `gorm:"constraint:OnDelete:CASCADE;" json:"author,omitempty"`
	GroupID   *uint     `gorm:"index" json:"group_id"`
	Group     *Group    `gorm:"constraint:OnDelete:SET NULL;" json:"group,omitempty"`
	Image     string    `gorm:"size:255" json:"image"`
	UpdatedAt time.Time `json:"updated_at"`
	Comments  []Comment `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}

// PostOrder is the default ordering of every feed: newest publication first.
const PostOrder = "pub_date DESC, id DESC"

// String returns the first 15 characters of the text.
func (p Post) String() string {
	r := []rune(p.Text)
	if len(r) > 15 {
		return string(r[:15])
	}
	return p.Text
}

// IsAuthoredBy reports whether userID wrote the post.
func (p Post) IsAuthoredBy(userID uint) bool {
	return userID != 0 && p.AuthorID != nil && *p.AuthorID == userID
}

// BeforeDelete removes the post's comments.
func (p *Post) BeforeDelete(tx *gorm.DB) error {
	if p.ID == 0 {
		return nil
	}
	return tx.Where("post_id = ?", p.ID).Delete(&Comment{}).Error
}

// WithAuthorAndGroup preloads the relations every post template needs.
func WithAuthorAndGroup(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").Preload("Group")
}
