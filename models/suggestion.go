package models

import (
	"time"

	"gorm.io/gorm"
)

type SuggestionStatus string

const (
	SuggestionOpen      SuggestionStatus = "open"
	SuggestionPlanned   SuggestionStatus = "planned"
	SuggestionCompleted SuggestionStatus = "completed"
	SuggestionDeclined  SuggestionStatus = "declined"
)

// Suggestion is a feature request on the suggestions board. Vote counters
// are denormalized onto the row; the vote rows are the source of truth for
// who voted which way.
type Suggestion struct {
	ID            uint             `json:"id" gorm:"primarykey"`
	Title         string           `json:"title" gorm:"not null"`
	Description   string           `json:"description" gorm:"type:text"`
	BotID         uint             `json:"bot_id" gorm:"not null"`
	Bot           *Bot             `json:"bot,omitempty" gorm:"foreignKey:BotID"`
	Status        SuggestionStatus `json:"status" gorm:"default:'open'"`
	Upvotes       int              `json:"upvotes" gorm:"default:0"`
	Downvotes     int              `json:"downvotes" gorm:"default:0"`
	AdminResponse *string          `json:"admin_response,omitempty" gorm:"type:text"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	DeletedAt     gorm.DeletedAt   `json:"-" gorm:"index"`
}

// Score is the net vote count suggestions are ranked by.
func (s *Suggestion) Score() int {
	return s.Upvotes - s.Downvotes
}

type SuggestionVote struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	SuggestionID uint      `json:"suggestion_id" gorm:"not null;uniqueIndex:idx_suggestion_vote_bot"`
	BotID        uint      `json:"bot_id" gorm:"not null;uniqueIndex:idx_suggestion_vote_bot"`
	IsUpvote     bool      `json:"is_upvote" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}

type SuggestionComment struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	SuggestionID uint      `json:"suggestion_id" gorm:"not null;index"`
	BotID        uint      `json:"bot_id" gorm:"not null"`
	Bot          *Bot      `json:"bot,omitempty" gorm:"foreignKey:BotID"`
	Content      string    `json:"content" gorm:"type:text;not null"`
	CreatedAt    time.Time `json:"created_at"`
}
