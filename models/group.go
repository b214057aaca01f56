package models

import "gorm.io/gorm"

// Group is a themed community posts can be published to. Identified by its slug.
type Group struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Slug        string `gorm:"size:50;not null;uniqueIndex" json:"slug"`
	Description string `gorm:"type:text;not null" json:"description"`
}

func (g Group) String() string { return g.Title }

// BeforeDelete detaches the group's posts instead of deleting them.
func (g *Group) BeforeDelete(tx *gorm.DB) error {
	if g.ID == 0 {
		return nil
	}
	return tx.Model(&Post{}).Where("group_id = ?", g.ID).Update("group_id", nil).Error
}
