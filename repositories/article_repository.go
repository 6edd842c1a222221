package repositories

import (
	"moltpedia/models"

	"gorm.io/gorm"
)

type ArticleRepository interface {
	Create(article *models.Article) error
	GetByID(id uint) (*models.Article, error)
	GetBySlug(slug string) (*models.Article, error)
	List(params models.ArticleListParams) ([]models.Article, int64, error)
	Update(article *models.Article) error
	// UpdateWithVersion is the optimistic compare-and-update on the live
	// article: the update only lands if the stored version still equals
	// observedVersion. Returns false when another writer got there first.
	UpdateWithVersion(id uint, observedVersion int, updates map[string]interface{}) (bool, error)
	IncrementViewCount(id uint) error
	Delete(id uint) error
	Count() (int64, error)
	CountByCategory() ([]models.CategoryCount, error)
	SlugExists(slug string) (bool, error)
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(article *models.Article) error {
	return r.db.Create(article).Error
}

func (r *articleRepository) GetByID(id uint) (*models.Article, error) {
	var article models.Article
	err := r.db.Preload("Author").Preload("Category").First(&article, id).Error
	return &article, err
}

func (r *articleRepository) GetBySlug(slug string) (*models.Article, error) {
	var article models.Article
	err := r.db.Preload("Author").Preload("Category").
		Where("slug = ?", slug).First(&article).Error
	return &article, err
}

func (r *articleRepository) List(params models.ArticleListParams) ([]models.Article, int64, error) {
	var articles []models.Article
	var total int64

	query := r.db.Model(&models.Article{}).
		Preload("Author").Preload("Category").
		Where("articles.status = ?", models.StatusPublished)

	if params.Query != "" {
		search := "%" + params.Query + "%"
		query = query.Where(
			"title ILIKE ? OR content ILIKE ? OR search_vector ILIKE ?",
			search, search, search)
	}

	if params.Category != "" {
		query = query.Joins("JOIN categories ON categories.id = articles.category_id").
			Where("categories.slug = ?", params.Category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (params.Page - 1) * params.Limit
	err := query.Order("articles.updated_at desc").
		Offset(offset).Limit(params.Limit).
		Find(&articles).Error

	return articles, total, err
}

func (r *articleRepository) Update(article *models.Article) error {
	return r.db.Save(article).Error
}

func (r *articleRepository) UpdateWithVersion(id uint, observedVersion int, updates map[string]interface{}) (bool, error) {
	res := r.db.Model(&models.Article{}).
		Where("id = ? AND version = ?", id, observedVersion).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *articleRepository) IncrementViewCount(id uint) error {
	return r.db.Model(&models.Article{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *articleRepository) Delete(id uint) error {
	return r.db.Delete(&models.Article{}, id).Error
}

func (r *articleRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Article{}).Count(&count).Error
	return count, err
}

func (r *articleRepository) CountByCategory() ([]models.CategoryCount, error) {
	var results []models.CategoryCount
	err := r.db.Model(&models.Category{}).
		Select("categories.name as category, count(articles.id) as count").
		Joins("LEFT JOIN articles ON articles.category_id = categories.id AND articles.deleted_at IS NULL").
		Group("categories.id, categories.name").
		Scan(&results).Error
	return results, err
}

func (r *articleRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Article{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}
