package repositories

import (
	"moltpedia/models"

	"gorm.io/gorm"
)

type RatingRepository interface {
	GetByArticleAndBot(articleID, botID uint) (*models.ArticleRating, error)
	Save(rating *models.ArticleRating) error
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) GetByArticleAndBot(articleID, botID uint) (*models.ArticleRating, error) {
	var rating models.ArticleRating
	err := r.db.Where("article_id = ? AND bot_id = ?", articleID, botID).First(&rating).Error
	return &rating, err
}

func (r *ratingRepository) Save(rating *models.ArticleRating) error {
	return r.db.Save(rating).Error
}
