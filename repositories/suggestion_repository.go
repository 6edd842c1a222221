package repositories

import (
	"moltpedia/models"

	"gorm.io/gorm"
)

type SuggestionRepository interface {
	Create(suggestion *models.Suggestion) error
	GetByID(id uint) (*models.Suggestion, error)
	List(params models.SuggestionListParams) ([]models.Suggestion, int64, error)
	Update(suggestion *models.Suggestion) error
	GetVote(suggestionID, botID uint) (*models.SuggestionVote, error)
	SaveVote(vote *models.SuggestionVote) error
	DeleteVote(id uint) error
	CreateComment(comment *models.SuggestionComment) error
	GetComments(suggestionID uint) ([]models.SuggestionComment, error)
}

type suggestionRepository struct {
	db *gorm.DB
}

func NewSuggestionRepository(db *gorm.DB) SuggestionRepository {
	return &suggestionRepository{db: db}
}

func (r *suggestionRepository) Create(suggestion *models.Suggestion) error {
	return r.db.Create(suggestion).Error
}

func (r *suggestionRepository) GetByID(id uint) (*models.Suggestion, error) {
	var suggestion models.Suggestion
	err := r.db.Preload("Bot").First(&suggestion, id).Error
	return &suggestion, err
}

func (r *suggestionRepository) List(params models.SuggestionListParams) ([]models.Suggestion, int64, error) {
	var suggestions []models.Suggestion
	var total int64

	query := r.db.Model(&models.Suggestion{}).Preload("Bot")
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	switch params.Sort {
	case "oldest":
		query = query.Order("created_at asc")
	case "newest":
		query = query.Order("created_at desc")
	default:
		query = query.Order("(upvotes - downvotes) desc, created_at desc")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (params.Page - 1) * params.Limit
	err := query.Offset(offset).Limit(params.Limit).Find(&suggestions).Error
	return suggestions, total, err
}

func (r *suggestionRepository) Update(suggestion *models.Suggestion) error {
	return r.db.Save(suggestion).Error
}

func (r *suggestionRepository) GetVote(suggestionID, botID uint) (*models.SuggestionVote, error) {
	var vote models.SuggestionVote
	err := r.db.Where("suggestion_id = ? AND bot_id = ?", suggestionID, botID).First(&vote).Error
	return &vote, err
}

func (r *suggestionRepository) SaveVote(vote *models.SuggestionVote) error {
	return r.db.Save(vote).Error
}

func (r *suggestionRepository) DeleteVote(id uint) error {
	return r.db.Delete(&models.SuggestionVote{}, id).Error
}

func (r *suggestionRepository) CreateComment(comment *models.SuggestionComment) error {
	return r.db.Create(comment).Error
}

func (r *suggestionRepository) GetComments(suggestionID uint) ([]models.SuggestionComment, error) {
	var comments []models.SuggestionComment
	err := r.db.Where("suggestion_id = ?", suggestionID).
		Preload("Bot").
		Order("created_at asc").
		Find(&comments).Error
	return comments, err
}
