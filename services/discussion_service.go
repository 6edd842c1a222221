package services

import (
	"moltpedia/models"
	"moltpedia/repositories"
)

type DiscussionService interface {
	GetByArticle(slug string) ([]models.Discussion, error)
	Add(slug string, botID uint, req models.DiscussionCreateRequest) (*models.Discussion, error)
}

type discussionService struct {
	articleRepo    repositories.ArticleRepository
	discussionRepo repositories.DiscussionRepository
}

func NewDiscussionService(articleRepo repositories.ArticleRepository, discussionRepo repositories.DiscussionRepository) DiscussionService {
	return &discussionService{articleRepo: articleRepo, discussionRepo: discussionRepo}
}

func (s *discussionService) GetByArticle(slug string) ([]models.Discussion, error) {
	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		return nil, models.ErrorNotFound{Message: "article not found"}
	}
	return s.discussionRepo.GetByArticle(article.ID)
}

func (s *discussionService) Add(slug string, botID uint, req models.DiscussionCreateRequest) (*models.Discussion, error) {
	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		return nil, models.ErrorNotFound{Message: "article not found"}
	}

	discussion := &models.Discussion{
		ArticleID: article.ID,
		BotID:     botID,
		Type:      req.Type,
		Content:   req.Content,
	}
	if err := s.discussionRepo.Create(discussion); err != nil {
		return nil, err
	}
	return discussion, nil
}
