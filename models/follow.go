package models

import "time"

// Follow is a directed edge: FollowerID subscribes to FollowingID's posts.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uint      `gorm:"not null;uniqueIndex:idx_follow_pair" json:"follower_id"`
	Follower    User      `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	FollowingID uint      `gorm:"not null;index;uniqueIndex:idx_follow_pair" json:"following_id"`
	Following   User      `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
