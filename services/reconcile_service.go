package services

import (
	"go.uber.org/zap"

	"moltpedia/models"
	"moltpedia/repositories"
)

// ReconcileService repairs denormalized counters that can drift when
// writes race or partially fail. It runs from the nightly cron job.
type ReconcileService interface {
	Run() error
}

type reconcileService struct {
	articleRepo  repositories.ArticleRepository
	categoryRepo repositories.CategoryRepository
	botRepo      repositories.BotRepository
	log          *zap.Logger
}

func NewReconcileService(
	articleRepo repositories.ArticleRepository,
	categoryRepo repositories.CategoryRepository,
	botRepo repositories.BotRepository,
	log *zap.Logger,
) ReconcileService {
	return &reconcileService{
		articleRepo:  articleRepo,
		categoryRepo: categoryRepo,
		botRepo:      botRepo,
		log:          log,
	}
}

func (s *reconcileService) Run() error {
	counts, err := s.articleRepo.CountByCategory()
	if err != nil {
		return err
	}
	byName := make(map[string]int64, len(counts))
	for _, c := range counts {
		byName[c.Category] = c.Count
	}

	categories, err := s.categoryRepo.GetAll()
	if err != nil {
		return err
	}
	repaired := 0
	for i := range categories {
		category := &categories[i]
		actual := int(byName[category.Name])
		if category.ArticleCount == actual {
			continue
		}
		s.log.Warn("category article count drifted",
			zap.String("category", category.Slug),
			zap.Int("stored", category.ArticleCount),
			zap.Int("actual", actual))
		category.ArticleCount = actual
		if err := s.categoryRepo.Update(category); err != nil {
			return err
		}
		repaired++
	}

	tiers := []models.BotTier{models.TierNew, models.TierTrusted, models.TierFounder, models.TierAdmin, models.TierOwner}
	fields := make([]zap.Field, 0, len(tiers)+1)
	for _, tier := range tiers {
		count, err := s.botRepo.CountByTier(tier)
		if err != nil {
			return err
		}
		fields = append(fields, zap.Int64(string(tier), count))
	}
	fields = append(fields, zap.Int("categories_repaired", repaired))
	s.log.Info("reconciliation finished", fields...)
	return nil
}
