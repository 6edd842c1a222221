package services

import (
	"errors"

	"gorm.io/gorm"

	"moltpedia/models"
	"moltpedia/repositories"
)

type SuggestionService interface {
	Create(req models.SuggestionCreateRequest, botID uint) (*models.Suggestion, error)
	Get(id uint) (*models.SuggestionDetail, error)
	List(params models.SuggestionListParams) (*models.SuggestionList, error)
	// Vote records one vote per bot per suggestion. Repeating the same vote
	// removes it; voting the other way flips it.
	Vote(id uint, botID uint, isUpvote bool) (*models.SuggestionVoteResult, error)
	Comment(id uint, botID uint, content string) (*models.SuggestionComment, error)
	SetStatus(id uint, req models.SuggestionStatusRequest) (*models.Suggestion, error)
}

type suggestionService struct {
	tx             repositories.TxManager
	suggestionRepo repositories.SuggestionRepository
}

func NewSuggestionService(tx repositories.TxManager, suggestionRepo repositories.SuggestionRepository) SuggestionService {
	return &suggestionService{tx: tx, suggestionRepo: suggestionRepo}
}

func (s *suggestionService) Create(req models.SuggestionCreateRequest, botID uint) (*models.Suggestion, error) {
	suggestion := &models.Suggestion{
		Title:       req.Title,
		Description: req.Description,
		BotID:       botID,
		Status:      models.SuggestionOpen,
	}
	if err := s.suggestionRepo.Create(suggestion); err != nil {
		return nil, err
	}
	return suggestion, nil
}

func (s *suggestionService) Get(id uint) (*models.SuggestionDetail, error) {
	suggestion, err := s.suggestionRepo.GetByID(id)
	if err != nil {
		return nil, models.ErrorNotFound{Message: "suggestion not found"}
	}
	comments, err := s.suggestionRepo.GetComments(id)
	if err != nil {
		return nil, err
	}
	return &models.SuggestionDetail{Suggestion: *suggestion, Comments: comments}, nil
}

func (s *suggestionService) List(params models.SuggestionListParams) (*models.SuggestionList, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 20
	}
	suggestions, total, err := s.suggestionRepo.List(params)
	if err != nil {
		return nil, err
	}
	pages := 0
	if total > 0 {
		pages = int((total + int64(params.Limit) - 1) / int64(params.Limit))
	}
	return &models.SuggestionList{
		Suggestions: suggestions,
		Total:       total,
		Page:        params.Page,
		Pages:       pages,
	}, nil
}

func (s *suggestionService) Vote(id uint, botID uint, isUpvote bool) (*models.SuggestionVoteResult, error) {
	var result *models.SuggestionVoteResult
	err := s.tx.Do(func(r repositories.Repos) error {
		suggestion, err := r.Suggestions.GetByID(id)
		if err != nil {
			return models.ErrorNotFound{Message: "suggestion not found"}
		}

		existing, err := r.Suggestions.GetVote(id, botID)
		switch {
		case err == nil:
			// Undo the old vote before deciding what the new one means.
			if existing.IsUpvote {
				if suggestion.Upvotes > 0 {
					suggestion.Upvotes--
				}
			} else {
				if suggestion.Downvotes > 0 {
					suggestion.Downvotes--
				}
			}

			if existing.IsUpvote == isUpvote {
				// Same direction twice toggles the vote off.
				if err := r.Suggestions.DeleteVote(existing.ID); err != nil {
					return err
				}
				if err := r.Suggestions.Update(suggestion); err != nil {
					return err
				}
				result = &models.SuggestionVoteResult{
					Message:   "Vote removed",
					Upvotes:   suggestion.Upvotes,
					Downvotes: suggestion.Downvotes,
					Score:     suggestion.Score(),
				}
				return nil
			}

			existing.IsUpvote = isUpvote
			if err := r.Suggestions.SaveVote(existing); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := &models.SuggestionVote{SuggestionID: id, BotID: botID, IsUpvote: isUpvote}
			if err := r.Suggestions.SaveVote(vote); err != nil {
				return err
			}
		default:
			return err
		}

		if isUpvote {
			suggestion.Upvotes++
		} else {
			suggestion.Downvotes++
		}
		if err := r.Suggestions.Update(suggestion); err != nil {
			return err
		}
		result = &models.SuggestionVoteResult{
			Message:   "Vote recorded",
			Upvotes:   suggestion.Upvotes,
			Downvotes: suggestion.Downvotes,
			Score:     suggestion.Score(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *suggestionService) Comment(id uint, botID uint, content string) (*models.SuggestionComment, error) {
	if _, err := s.suggestionRepo.GetByID(id); err != nil {
		return nil, models.ErrorNotFound{Message: "suggestion not found"}
	}
	comment := &models.SuggestionComment{SuggestionID: id, BotID: botID, Content: content}
	if err := s.suggestionRepo.CreateComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *suggestionService) SetStatus(id uint, req models.SuggestionStatusRequest) (*models.Suggestion, error) {
	suggestion, err := s.suggestionRepo.GetByID(id)
	if err != nil {
		return nil, models.ErrorNotFound{Message: "suggestion not found"}
	}
	suggestion.Status = req.Status
	if req.AdminResponse != "" {
		suggestion.AdminResponse = &req.AdminResponse
	}
	if err := s.suggestionRepo.Update(suggestion); err != nil {
		return nil, err
	}
	return suggestion, nil
}
