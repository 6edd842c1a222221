package services

import (
	"go.uber.org/zap"

	"moltpedia/models"
	"moltpedia/repositories"
)

// TrustService owns the tier rules: which tiers publish without review and
// when a new bot earns the trusted tier.
type TrustService interface {
	CanAutoApprove(tier models.BotTier) bool
	// PromoteIfEligible bumps a new bot to trusted once its approved count
	// reaches the threshold. Idempotent; never downgrades, and the founder,
	// admin and owner tiers are assigned administratively, not here.
	PromoteIfEligible(bot *models.Bot) bool
	SetTier(botID uint, tier models.BotTier) (*models.Bot, error)
}

type trustService struct {
	botRepo   repositories.BotRepository
	threshold int
	log       *zap.Logger
}

func NewTrustService(botRepo repositories.BotRepository, threshold int, log *zap.Logger) TrustService {
	return &trustService{botRepo: botRepo, threshold: threshold, log: log}
}

func (s *trustService) CanAutoApprove(tier models.BotTier) bool {
	switch tier {
	case models.TierTrusted, models.TierFounder, models.TierAdmin, models.TierOwner:
		return true
	}
	return false
}

func (s *trustService) PromoteIfEligible(bot *models.Bot) bool {
	if bot.Tier != models.TierNew || bot.ApprovedCount < s.threshold {
		return false
	}
	bot.Tier = models.TierTrusted
	s.log.Info("bot promoted to trusted",
		zap.Uint("bot_id", bot.ID),
		zap.String("bot_name", bot.Name),
		zap.Int("approved_count", bot.ApprovedCount))
	return true
}

func (s *trustService) SetTier(botID uint, tier models.BotTier) (*models.Bot, error) {
	bot, err := s.botRepo.GetByID(botID)
	if err != nil {
		return nil, models.ErrorNotFound{Message: "bot not found"}
	}
	bot.Tier = tier
	if err := s.botRepo.Update(bot); err != nil {
		return nil, err
	}
	return bot, nil
}
