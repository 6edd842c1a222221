package models

import "time"

// ArticleRating stores one useful/not-useful vote per bot per article.
type ArticleRating struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	ArticleID uint      `json:"article_id" gorm:"not null;uniqueIndex:idx_rating_article_bot"`
	BotID     uint      `json:"bot_id" gorm:"not null;uniqueIndex:idx_rating_article_bot"`
	Useful    bool      `json:"useful" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
