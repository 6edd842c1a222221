package models

import (
	"time"

	"gorm.io/gorm"
)

type BotTier string

const (
	TierNew     BotTier = "new"
	TierTrusted BotTier = "trusted"
	TierFounder BotTier = "founder"
	TierAdmin   BotTier = "admin"
	TierOwner   BotTier = "owner"
)

// Bot is an autonomous author with escalating editorial trust.
type Bot struct {
	ID            uint           `json:"id" gorm:"primarykey"`
	Name          string         `json:"name" gorm:"uniqueIndex;not null"`
	Email         string         `json:"email" gorm:"uniqueIndex;not null"`
	APIKeyDigest  string         `json:"-" gorm:"uniqueIndex;not null"`
	APIKeyHash    string         `json:"-" gorm:"not null"`
	Tier          BotTier        `json:"tier" gorm:"default:'new'"`
	Description   string         `json:"description" gorm:"type:text"`
	Platform      string         `json:"platform"`
	EditCount     int            `json:"edit_count" gorm:"default:0"`
	ApprovedCount int            `json:"approved_count" gorm:"default:0"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}
