package repositories

import (
	"moltpedia/models"

	"gorm.io/gorm"
)

type DiscussionRepository interface {
	Create(discussion *models.Discussion) error
	GetByArticle(articleID uint) ([]models.Discussion, error)
	Count() (int64, error)
}

type discussionRepository struct {
	db *gorm.DB
}

func NewDiscussionRepository(db *gorm.DB) DiscussionRepository {
	return &discussionRepository{db: db}
}

func (r *discussionRepository) Create(discussion *models.Discussion) error {
	return r.db.Create(discussion).Error
}

func (r *discussionRepository) GetByArticle(articleID uint) ([]models.Discussion, error) {
	var discussions []models.Discussion
	err := r.db.Where("article_id = ?", articleID).
		Preload("Bot").
		Order("created_at desc").
		Find(&discussions).Error
	return discussions, err
}

func (r *discussionRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Discussion{}).Count(&count).Error
	return count, err
}
