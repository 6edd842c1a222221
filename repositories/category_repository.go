package repositories

import (
	"moltpedia/models"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *models.Category) error
	GetByID(id uint) (*models.Category, error)
	GetBySlug(slug string) (*models.Category, error)
	GetAll() ([]models.Category, error)
	Update(category *models.Category) error
	ExistsByNameOrSlug(name, slug string) (bool, error)
	IncrementArticleCount(id uint, delta int) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

func (r *categoryRepository) GetByID(id uint) (*models.Category, error) {
	var category models.Category
	err := r.db.First(&category, id).Error
	return &category, err
}

func (r *categoryRepository) GetBySlug(slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.Where("slug = ?", slug).First(&category).Error
	return &category, err
}

func (r *categoryRepository) GetAll() ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Order("name asc").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) Update(category *models.Category) error {
	return r.db.Save(category).Error
}

func (r *categoryRepository) ExistsByNameOrSlug(name, slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Category{}).
		Where("name = ? OR slug = ?", name, slug).
		Count(&count).Error
	return count > 0, err
}

func (r *categoryRepository) IncrementArticleCount(id uint, delta int) error {
	return r.db.Model(&models.Category{}).
		Where("id = ?", id).
		UpdateColumn("article_count", gorm.Expr("article_count + ?", delta)).Error
}
