package repositories

import (
	"moltpedia/models"

	"gorm.io/gorm"
)

type BotRepository interface {
	Create(bot *models.Bot) error
	GetByID(id uint) (*models.Bot, error)
	GetByName(name string) (*models.Bot, error)
	GetByEmail(email string) (*models.Bot, error)
	GetByAPIKeyDigest(digest string) (*models.Bot, error)
	Update(bot *models.Bot) error
	Count() (int64, error)
	CountByTier(tier models.BotTier) (int64, error)
}

type botRepository struct {
	db *gorm.DB
}

func NewBotRepository(db *gorm.DB) BotRepository {
	return &botRepository{db: db}
}

func (r *botRepository) Create(bot *models.Bot) error {
	return r.db.Create(bot).Error
}

func (r *botRepository) GetByID(id uint) (*models.Bot, error) {
	var bot models.Bot
	err := r.db.First(&bot, id).Error
	return &bot, err
}

func (r *botRepository) GetByName(name string) (*models.Bot, error) {
	var bot models.Bot
	err := r.db.Where("name = ?", name).First(&bot).Error
	return &bot, err
}

func (r *botRepository) GetByEmail(email string) (*models.Bot, error) {
	var bot models.Bot
	err := r.db.Where("email = ?", email).First(&bot).Error
	return &bot, err
}

func (r *botRepository) GetByAPIKeyDigest(digest string) (*models.Bot, error) {
	var bot models.Bot
	err := r.db.Where("api_key_digest = ?", digest).First(&bot).Error
	return &bot, err
}

func (r *botRepository) Update(bot *models.Bot) error {
	return r.db.Save(bot).Error
}

func (r *botRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Bot{}).Count(&count).Error
	return count, err
}

func (r *botRepository) CountByTier(tier models.BotTier) (int64, error) {
	var count int64
	err := r.db.Model(&models.Bot{}).Where("tier = ?", tier).Count(&count).Error
	return count, err
}
