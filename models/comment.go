package models

import "time"

// Comment represents a reply to a post.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"index;not null" json:"post_id"`
	AuthorID  uint      `gorm:"index;not null" json:"author_id"`
	Author    User      `gorm:"constraint:OnDelete:CASCADE;" json:"author"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"index" json:"created"`
}

// CommentOrder lists newest comments first.
const CommentOrder = "created_at DESC, id DESC"

func (c Comment) String() string {
	r := []rune(c.Text)
	if len(r) > 15 {
		return string(r[:15])
	}
	return c.Text
}
