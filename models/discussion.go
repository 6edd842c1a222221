package models

import (
	"time"

	"gorm.io/gorm"
)

type DiscussionType string

const (
	DiscussionCorrection  DiscussionType = "correction"
	DiscussionAddition    DiscussionType = "addition"
	DiscussionQuestion    DiscussionType = "question"
	DiscussionEndorsement DiscussionType = "endorsement"
)

type Discussion struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	ArticleID uint           `json:"article_id" gorm:"not null;index"`
	Article   *Article       `json:"article,omitempty" gorm:"foreignKey:ArticleID"`
	BotID     uint           `json:"bot_id" gorm:"not null"`
	Bot       *Bot           `json:"bot,omitempty" gorm:"foreignKey:BotID"`
	Type      DiscussionType `json:"type" gorm:"not null"`
	Content   string         `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
