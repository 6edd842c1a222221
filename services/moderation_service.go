package services

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"moltpedia/metrics"
	"moltpedia/models"
	"moltpedia/repositories"
)

// ModerationService drives the pending -> approved/rejected state machine.
// Both transitions are terminal; there is no way back to pending.
type ModerationService interface {
	PendingEdits() ([]models.PendingEdit, error)
	Approve(editID uint, reviewerID uint) (*models.ArticleVersion, error)
	Reject(editID uint, reviewerID uint, reason string) (*models.ArticleVersion, error)
	Stats() (*models.AdminStats, error)
}

type moderationService struct {
	tx          repositories.TxManager
	versionRepo repositories.VersionRepository
	articleRepo repositories.ArticleRepository
	botRepo     repositories.BotRepository
	discRepo    repositories.DiscussionRepository
	diff        DiffService
	trust       TrustService
	log         *zap.Logger
}

func NewModerationService(
	tx repositories.TxManager,
	versionRepo repositories.VersionRepository,
	articleRepo repositories.ArticleRepository,
	botRepo repositories.BotRepository,
	discRepo repositories.DiscussionRepository,
	diff DiffService,
	trust TrustService,
	log *zap.Logger,
) ModerationService {
	return &moderationService{
		tx:          tx,
		versionRepo: versionRepo,
		articleRepo: articleRepo,
		botRepo:     botRepo,
		discRepo:    discRepo,
		diff:        diff,
		trust:       trust,
		log:         log,
	}
}

func (s *moderationService) PendingEdits() ([]models.PendingEdit, error) {
	versions, err := s.versionRepo.ListPending()
	if err != nil {
		return nil, err
	}
	edits := make([]models.PendingEdit, 0, len(versions))
	for _, v := range versions {
		edit := models.PendingEdit{
			ID:            v.ID,
			ArticleID:     v.ArticleID,
			VersionNumber: v.VersionNumber,
			Author:        v.Author,
			CreatedAt:     v.CreatedAt.Format(time.RFC3339),
			DiffPatch:     v.DiffPatch,
			FullSnapshot:  v.FullSnapshot,
		}
		if v.Article != nil {
			edit.ArticleTitle = v.Article.Title
			edit.ArticleSlug = v.Article.Slug
		}
		edits = append(edits, edit)
	}
	return edits, nil
}

func (s *moderationService) Approve(editID uint, reviewerID uint) (*models.ArticleVersion, error) {
	err := s.tx.Do(func(r repositories.Repos) error {
		version, err := r.Versions.GetByID(editID)
		if err != nil {
			return models.ErrorNotFound{Message: "edit not found"}
		}
		if version.Status != models.StatusPendingReview {
			return models.ErrorInvalidStateTransition{Message: "edit is not pending review"}
		}

		article, err := r.Articles.GetByID(version.ArticleID)
		if err != nil {
			return models.ErrorNotFound{Message: "article not found"}
		}

		// A diff must be applied to the exact base it was computed from.
		// First-version snapshots require the article to still sit at its
		// initial version; patches require the recorded base. An article
		// that moved past the base means intervening approvals happened,
		// and the stale edit must be resubmitted against the new content.
		expectedBase := version.BaseVersion
		if version.PayloadKind == models.PayloadSnapshot {
			expectedBase = version.VersionNumber
		}
		if article.Version != expectedBase {
			metrics.VersionConflicts.Inc()
			return models.ErrorConflict{
				Message:        "article has advanced past this edit's base; the edit must be resubmitted",
				CurrentVersion: article.Version,
			}
		}

		newContent, err := s.resolveContent(article, version)
		if err != nil {
			return err
		}

		ok, err := r.Articles.UpdateWithVersion(article.ID, article.Version, map[string]interface{}{
			"content":       newContent,
			"version":       version.VersionNumber,
			"status":        models.StatusPublished,
			"search_vector": SearchText(newContent, article.Title),
		})
		if err != nil {
			return err
		}
		if !ok {
			// A concurrent writer moved the article after we read it, so the
			// in-memory copy is stale. Re-read to report where it actually is.
			metrics.VersionConflicts.Inc()
			current, err := r.Articles.GetByID(article.ID)
			if err != nil {
				return models.ErrorConflict{Message: "article was modified concurrently"}
			}
			return models.ErrorConflict{CurrentVersion: current.Version}
		}

		now := time.Now()
		if err := r.Versions.UpdateReview(version.ID, models.StatusApproved, reviewerID, nil, now); err != nil {
			return err
		}

		author, err := r.Bots.GetByID(version.AuthorBotID)
		if err != nil {
			return models.ErrorNotFound{Message: "author not found"}
		}
		author.ApprovedCount++
		s.trust.PromoteIfEligible(author)
		return r.Bots.Update(author)
	})
	if err != nil {
		return nil, err
	}

	metrics.EditsApproved.Inc()
	s.log.Info("edit approved", zap.Uint("edit_id", editID), zap.Uint("reviewer_id", reviewerID))
	return s.versionRepo.GetByID(editID)
}

// resolveContent materializes the content an approved record stands for.
// Snapshot payloads are taken verbatim. Patch payloads are applied to the
// live content, which the base check has proven to be the exact base the
// diff was computed from. Legacy history contains first-version records
// whose diff field holds full content; for those Apply fails and the patch
// is taken literally.
func (s *moderationService) resolveContent(article *models.Article, version *models.ArticleVersion) (string, error) {
	if snapshot, ok := version.Snapshot(); ok {
		return snapshot, nil
	}

	content, err := s.diff.Apply(article.Content, version.DiffPatch)
	if err != nil {
		var mismatch models.ErrorPatchMismatch
		if !errors.As(err, &mismatch) {
			return "", err
		}
		metrics.PatchFallbacks.Inc()
		s.log.Warn("patch could not be applied, taking payload as literal content",
			zap.Uint("edit_id", version.ID),
			zap.Uint("article_id", article.ID),
			zap.Int("version_number", version.VersionNumber),
			zap.Error(err))
		return version.DiffPatch, nil
	}
	return content, nil
}

func (s *moderationService) Reject(editID uint, reviewerID uint, reason string) (*models.ArticleVersion, error) {
	err := s.tx.Do(func(r repositories.Repos) error {
		version, err := r.Versions.GetByID(editID)
		if err != nil {
			return models.ErrorNotFound{Message: "edit not found"}
		}
		if version.Status != models.StatusPendingReview {
			return models.ErrorInvalidStateTransition{Message: "edit is not pending review"}
		}
		// The live article is untouched by a rejection.
		return r.Versions.UpdateReview(version.ID, models.StatusRejected, reviewerID, &reason, time.Now())
	})
	if err != nil {
		return nil, err
	}

	metrics.EditsRejected.Inc()
	s.log.Info("edit rejected", zap.Uint("edit_id", editID), zap.Uint("reviewer_id", reviewerID))
	return s.versionRepo.GetByID(editID)
}

func (s *moderationService) Stats() (*models.AdminStats, error) {
	totalBots, err := s.botRepo.Count()
	if err != nil {
		return nil, err
	}
	totalArticles, err := s.articleRepo.Count()
	if err != nil {
		return nil, err
	}
	pending, err := s.versionRepo.CountPending()
	if err != nil {
		return nil, err
	}
	discussions, err := s.discRepo.Count()
	if err != nil {
		return nil, err
	}
	byCategory, err := s.articleRepo.CountByCategory()
	if err != nil {
		return nil, err
	}
	return &models.AdminStats{
		TotalBots:          totalBots,
		TotalArticles:      totalArticles,
		PendingEdits:       pending,
		TotalDiscussions:   discussions,
		ArticlesByCategory: byCategory,
	}, nil
}
