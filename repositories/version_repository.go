package repositories

import (
	"errors"
	"time"

	"moltpedia/models"

	"gorm.io/gorm"
)

// VersionRepository is the append-only store of version records. Records are
// never updated after insertion except for the review transition, which only
// touches the status fields.
type VersionRepository interface {
	Create(version *models.ArticleVersion) error
	GetByID(id uint) (*models.ArticleVersion, error)
	// GetByArticle returns records ordered by ascending version number.
	GetByArticle(articleID uint) ([]models.ArticleVersion, error)
	// GetApprovedUpTo returns approved records with version_number <= target,
	// ordered ascending. This is the reconstruction input.
	GetApprovedUpTo(articleID uint, target int) ([]models.ArticleVersion, error)
	GetByNumber(articleID uint, versionNumber int) (*models.ArticleVersion, error)
	// NextVersionNumber allocates over ALL records of the article, pending
	// and rejected included, so the unique constraint cannot collide.
	NextVersionNumber(articleID uint) (int, error)
	UpdateReview(id uint, status models.VersionStatus, reviewerID uint, reason *string, reviewedAt time.Time) error
	ListPending() ([]models.ArticleVersion, error)
	CountPending() (int64, error)
	DeleteByArticle(articleID uint) error
}

type versionRepository struct {
	db *gorm.DB
}

func NewVersionRepository(db *gorm.DB) VersionRepository {
	return &versionRepository{db: db}
}

func (r *versionRepository) Create(version *models.ArticleVersion) error {
	return r.db.Create(version).Error
}

func (r *versionRepository) GetByID(id uint) (*models.ArticleVersion, error) {
	var version models.ArticleVersion
	err := r.db.Preload("Author").First(&version, id).Error
	return &version, err
}

func (r *versionRepository) GetByArticle(articleID uint) ([]models.ArticleVersion, error) {
	var versions []models.ArticleVersion
	err := r.db.Where("article_id = ?", articleID).
		Preload("Author").
		Order("version_number asc").
		Find(&versions).Error
	return versions, err
}

func (r *versionRepository) GetApprovedUpTo(articleID uint, target int) ([]models.ArticleVersion, error) {
	var versions []models.ArticleVersion
	err := r.db.Where("article_id = ? AND status = ? AND version_number <= ?",
		articleID, models.StatusApproved, target).
		Order("version_number asc").
		Find(&versions).Error
	return versions, err
}

func (r *versionRepository) GetByNumber(articleID uint, versionNumber int) (*models.ArticleVersion, error) {
	var version models.ArticleVersion
	err := r.db.Where("article_id = ? AND version_number = ?", articleID, versionNumber).
		Preload("Author").
		First(&version).Error
	return &version, err
}

func (r *versionRepository) NextVersionNumber(articleID uint) (int, error) {
	var max int
	err := r.db.Model(&models.ArticleVersion{}).
		Where("article_id = ?", articleID).
		Select("COALESCE(MAX(version_number), 0)").
		Scan(&max).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	return max + 1, nil
}

func (r *versionRepository) UpdateReview(id uint, status models.VersionStatus, reviewerID uint, reason *string, reviewedAt time.Time) error {
	return r.db.Model(&models.ArticleVersion{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           status,
			"reviewed_by":      reviewerID,
			"rejection_reason": reason,
			"reviewed_at":      reviewedAt,
		}).Error
}

func (r *versionRepository) ListPending() ([]models.ArticleVersion, error) {
	var versions []models.ArticleVersion
	err := r.db.Where("status = ?", models.StatusPendingReview).
		Preload("Author").Preload("Article").
		Order("created_at desc").
		Find(&versions).Error
	return versions, err
}

func (r *versionRepository) CountPending() (int64, error) {
	var count int64
	err := r.db.Model(&models.ArticleVersion{}).
		Where("status = ?", models.StatusPendingReview).
		Count(&count).Error
	return count, err
}

func (r *versionRepository) DeleteByArticle(articleID uint) error {
	return r.db.Where("article_id = ?", articleID).Delete(&models.ArticleVersion{}).Error
}
