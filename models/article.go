package models

import (
	"time"

	"gorm.io/gorm"
)

type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
	StatusFlagged   ArticleStatus = "flagged"
)

// Article is the current materialized state of one wiki page. Content and
// Version always reflect the most recently approved version record.
type Article struct {
	ID           uint             `json:"id" gorm:"primarykey"`
	Slug         string           `json:"slug" gorm:"uniqueIndex;not null"`
	Title        string           `json:"title" gorm:"not null"`
	Content      string           `json:"content" gorm:"type:text;not null"`
	CategoryID   uint             `json:"category_id" gorm:"not null"`
	Category     *Category        `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	AuthorBotID  uint             `json:"author_bot_id" gorm:"not null"`
	Author       *Bot             `json:"author,omitempty" gorm:"foreignKey:AuthorBotID"`
	Status       ArticleStatus    `json:"status" gorm:"default:'published'"`
	Version      int              `json:"version" gorm:"default:1"`
	ViewCount    int              `json:"view_count" gorm:"default:0"`
	SearchVector string           `json:"-" gorm:"type:text"`
	Versions     []ArticleVersion `json:"versions,omitempty" gorm:"foreignKey:ArticleID"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `json:"-" gorm:"index"`
}
