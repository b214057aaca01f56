package models

import (
	"time"

	"gorm.io/gorm"
)

// User is an author or reader. Passwords are stored as bcrypt hashes only.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:150;not null;uniqueIndex" json:"username"`
	FirstName    string    `gorm:"size:150" json:"first_name"`
	LastName     string    `gorm:"size:150" json:"last_name"`
	Email        string    `gorm:"size:255" json:"email"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FullName returns "First Last", falling back to the username.
func (u User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	return u.Username
}

// BeforeDelete removes everything that references the user: follow edges in both
// directions, their comments, comments on their posts and the posts themselves.
func (u *User) BeforeDelete(tx *gorm.DB) error {
	if u.ID == 0 {
		return nil
	}
	authored := tx.Model(&Post{}).Select("id").Where("author_id = ?", u.ID)
	if err := tx.Where("author_id = ? OR post_id IN (?)", u.ID, authored).Delete(&Comment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("follower_id = ? OR following_id = ?", u.ID, u.ID).Delete(&Follow{}).Error; err != nil {
		return err
	}
	return tx.Where("author_id = ?", u.ID).Delete(&Post{}).Error
}
