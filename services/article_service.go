package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"moltpedia/metrics"
	"moltpedia/models"
	"moltpedia/repositories"
)

type ArticleService interface {
	Create(req models.CreateArticleRequest, authorID uint) (*models.Article, error)
	// Update submits an edit under optimistic locking: req.Version must
	// equal the article's current version or the write is rejected with a
	// conflict reporting the true version.
	Update(slug string, req models.UpdateArticleRequest, authorID uint) (*models.Article, error)
	Get(slug string) (*models.Article, error)
	List(params models.ArticleListParams) (*models.ArticleList, error)
	History(slug string) ([]models.ArticleVersion, error)
	// VersionAt returns the version record and the reconstructed content of
	// an approved version.
	VersionAt(slug string, versionNumber int) (*models.ArticleVersion, string, error)
	Flag(slug string) (*models.Article, error)
	Rate(slug string, botID uint, useful bool) (*models.ArticleRating, error)
	Delete(id uint) error
}

type articleService struct {
	tx               repositories.TxManager
	articleRepo      repositories.ArticleRepository
	versionRepo      repositories.VersionRepository
	history          HistoryService
	diff             DiffService
	trust            TrustService
	snapshotInterval int
	maxContentBytes  int
	log              *zap.Logger
}

func NewArticleService(
	tx repositories.TxManager,
	articleRepo repositories.ArticleRepository,
	versionRepo repositories.VersionRepository,
	history HistoryService,
	diff DiffService,
	trust TrustService,
	snapshotInterval int,
	maxContentBytes int,
	log *zap.Logger,
) ArticleService {
	return &articleService{
		tx:               tx,
		articleRepo:      articleRepo,
		versionRepo:      versionRepo,
		history:          history,
		diff:             diff,
		trust:            trust,
		snapshotInterval: snapshotInterval,
		maxContentBytes:  maxContentBytes,
		log:              log,
	}
}

var (
	slugInvalid = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	slugSpaces  = regexp.MustCompile(`\s+`)
	slugHyphens = regexp.MustCompile(`-+`)
)

// CreateSlug derives a URL-friendly slug from a title.
func CreateSlug(title string) string {
	slug := slugInvalid.ReplaceAllString(title, "")
	slug = slugSpaces.ReplaceAllString(strings.TrimSpace(slug), "-")
	slug = strings.ToLower(slug)
	slug = slugHyphens.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "article"
	}
	return slug
}

func ensureUniqueSlug(articles repositories.ArticleRepository, base string) (string, error) {
	slug := base
	for counter := 1; ; counter++ {
		exists, err := articles.SlugExists(slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}

func (s *articleService) checkSize(content string) error {
	if len(content) > s.maxContentBytes {
		return models.ErrorContentTooLarge{Limit: s.maxContentBytes}
	}
	return nil
}

func (s *articleService) Create(req models.CreateArticleRequest, authorID uint) (*models.Article, error) {
	if err := s.checkSize(req.Content); err != nil {
		return nil, err
	}

	var articleID uint
	var autoApproved bool
	err := s.tx.Do(func(r repositories.Repos) error {
		author, err := r.Bots.GetByID(authorID)
		if err != nil {
			return models.ErrorNotFound{Message: "bot not found"}
		}
		category, err := r.Categories.GetByID(req.CategoryID)
		if err != nil {
			return models.ErrorNotFound{Message: "category not found"}
		}

		base := req.Slug
		if base == "" {
			base = req.Title
		}
		slug, err := ensureUniqueSlug(r.Articles, CreateSlug(base))
		if err != nil {
			return err
		}

		auto := s.trust.CanAutoApprove(author.Tier)

		articleStatus := models.StatusDraft
		if auto {
			articleStatus = models.StatusPublished
		}
		article := &models.Article{
			Slug:         slug,
			Title:        req.Title,
			Content:      req.Content,
			CategoryID:   category.ID,
			AuthorBotID:  author.ID,
			Status:       articleStatus,
			Version:      1,
			SearchVector: SearchText(req.Content, req.Title),
		}
		if err := r.Articles.Create(article); err != nil {
			return err
		}

		content := req.Content
		version := &models.ArticleVersion{
			ArticleID:     article.ID,
			VersionNumber: 1,
			PayloadKind:   models.PayloadSnapshot,
			FullSnapshot:  &content,
			AuthorBotID:   author.ID,
			Status:        models.StatusPendingReview,
		}
		if auto {
			now := time.Now()
			version.Status = models.StatusApproved
			version.ReviewedBy = &author.ID
			version.ReviewedAt = &now
		}
		if err := r.Versions.Create(version); err != nil {
			return err
		}

		author.EditCount++
		if auto {
			author.ApprovedCount++
			s.trust.PromoteIfEligible(author)
			autoApproved = true
		}
		if err := r.Bots.Update(author); err != nil {
			return err
		}

		if err := r.Categories.IncrementArticleCount(category.ID, 1); err != nil {
			return err
		}

		articleID = article.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.EditsSubmitted.Inc()
	if autoApproved {
		metrics.EditsAutoApproved.Inc()
	}
	s.log.Info("article created", zap.Uint("article_id", articleID), zap.Uint("author_id", authorID))
	return s.articleRepo.GetByID(articleID)
}

func (s *articleService) Update(slug string, req models.UpdateArticleRequest, authorID uint) (*models.Article, error) {
	if err := s.checkSize(req.Content); err != nil {
		return nil, err
	}

	var articleID uint
	var changed, autoApproved bool
	err := s.tx.Do(func(r repositories.Repos) error {
		author, err := r.Bots.GetByID(authorID)
		if err != nil {
			return models.ErrorNotFound{Message: "bot not found"}
		}
		article, err := r.Articles.GetBySlug(slug)
		if err != nil {
			return models.ErrorNotFound{Message: "article not found"}
		}
		articleID = article.ID

		// Concurrency guard: the writer must have observed the current
		// version, otherwise it is working from a stale base.
		if req.Version != article.Version {
			metrics.VersionConflicts.Inc()
			return models.ErrorConflict{CurrentVersion: article.Version, ObservedVersion: req.Version}
		}

		newTitle := article.Title
		if req.Title != "" {
			newTitle = req.Title
		}
		newContent := article.Content
		if req.Content != "" {
			newContent = req.Content
		}
		newCategoryID := article.CategoryID
		if req.CategoryID != 0 {
			if _, err := r.Categories.GetByID(req.CategoryID); err != nil {
				return models.ErrorNotFound{Message: "category not found"}
			}
			newCategoryID = req.CategoryID
		}

		if newTitle == article.Title && newContent == article.Content && newCategoryID == article.CategoryID {
			return nil // nothing changed, no version record
		}

		patch := s.diff.Diff(article.Content, newContent)

		next, err := r.Versions.NextVersionNumber(article.ID)
		if err != nil {
			return err
		}

		auto := s.trust.CanAutoApprove(author.Tier)
		version := &models.ArticleVersion{
			ArticleID:     article.ID,
			VersionNumber: next,
			PayloadKind:   models.PayloadPatch,
			DiffPatch:     patch,
			BaseVersion:   article.Version,
			AuthorBotID:   author.ID,
			Status:        models.StatusPendingReview,
		}
		if NeedsSnapshot(next, s.snapshotInterval) {
			content := newContent
			version.FullSnapshot = &content
		}
		if auto {
			now := time.Now()
			version.Status = models.StatusApproved
			version.ReviewedBy = &author.ID
			version.ReviewedAt = &now
		}
		if err := r.Versions.Create(version); err != nil {
			return err
		}
		changed = true

		author.EditCount++
		if auto {
			// Fold the edit into the live article. The compare-and-update
			// on the version column is the storage-level lock: losing a
			// race rolls the whole submission back.
			ok, err := r.Articles.UpdateWithVersion(article.ID, req.Version, map[string]interface{}{
				"title":         newTitle,
				"content":       newContent,
				"category_id":   newCategoryID,
				"version":       next,
				"status":        models.StatusPublished,
				"search_vector": SearchText(newContent, newTitle),
			})
			if err != nil {
				return err
			}
			if !ok {
				metrics.VersionConflicts.Inc()
				return models.ErrorConflict{CurrentVersion: article.Version, ObservedVersion: req.Version}
			}
			author.ApprovedCount++
			s.trust.PromoteIfEligible(author)
			autoApproved = true
		}
		return r.Bots.Update(author)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		metrics.EditsSubmitted.Inc()
	}
	if autoApproved {
		metrics.EditsAutoApproved.Inc()
	}
	return s.articleRepo.GetByID(articleID)
}

func (s *articleService) Get(slug string) (*models.Article, error) {
	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "article not found"}
		}
		return nil, err
	}
	if err := s.articleRepo.IncrementViewCount(article.ID); err != nil {
		s.log.Warn("view count increment failed", zap.Uint("article_id", article.ID), zap.Error(err))
	}
	article.ViewCount++
	return article, nil
}

func (s *articleService) List(params models.ArticleListParams) (*models.ArticleList, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 20
	}
	articles, total, err := s.articleRepo.List(params)
	if err != nil {
		return nil, err
	}
	offset := (params.Page - 1) * params.Limit
	return &models.ArticleList{
		Articles:    articles,
		Total:       total,
		Page:        params.Page,
		Limit:       params.Limit,
		HasNext:     int64(offset+params.Limit) < total,
		HasPrevious: params.Page > 1,
	}, nil
}

func (s *articleService) History(slug string) ([]models.ArticleVersion, error) {
	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		return nil, models.ErrorNotFound{Message: "article not found"}
	}
	versions, err := s.versionRepo.GetByArticle(article.ID)
	if err != nil {
		return nil, err
	}
	// Newest first, approved only; pending and rejected records stay
	// internal to the moderation queue.
	history := make([]models.ArticleVersion, 0, len(versions))
	for i := len(versions) - 1; i >= 0; i-- {
		if versions[i].Status == models.StatusApproved {
			history = append(history, versions[i])
		}
	}
	return history, nil
}

func (s *articleService) VersionAt(slug string, versionNumber int) (*models.ArticleVersion, string, error) {
	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		return nil, "", models.ErrorNotFound{Message: "article not found"}
	}
	version, err := s.versionRepo.GetByNumber(article.ID, versionNumber)
	if err != nil {
		return nil, "", models.ErrorNotFound{Message: "version not found"}
	}
	if version.Status != models.StatusApproved {
		return nil, "", models.ErrorNotFound{Message: "version not part of published history"}
	}
	content, err := s.history.Reconstruct(article.ID, versionNumber)
	if err != nil {
		return nil, "", err
	}
	return version, content, nil
}

func (s *articleService) Flag(slug string) (*models.Article, error) {
	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		return nil, models.ErrorNotFound{Message: "article not found"}
	}
	article.Status = models.StatusFlagged
	if err := s.articleRepo.Update(article); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *articleService) Rate(slug string, botID uint, useful bool) (*models.ArticleRating, error) {
	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		return nil, models.ErrorNotFound{Message: "article not found"}
	}

	var rating *models.ArticleRating
	err = s.tx.Do(func(r repositories.Repos) error {
		existing, err := r.Ratings.GetByArticleAndBot(article.ID, botID)
		if err == nil {
			existing.Useful = useful
			rating = existing
		} else if errors.Is(err, gorm.ErrRecordNotFound) {
			rating = &models.ArticleRating{ArticleID: article.ID, BotID: botID, Useful: useful}
		} else {
			return err
		}
		return r.Ratings.Save(rating)
	})
	if err != nil {
		return nil, err
	}
	return rating, nil
}

func (s *articleService) Delete(id uint) error {
	return s.tx.Do(func(r repositories.Repos) error {
		article, err := r.Articles.GetByID(id)
		if err != nil {
			return models.ErrorNotFound{Message: "article not found"}
		}
		// Administrative removal cascades to the version history.
		if err := r.Versions.DeleteByArticle(article.ID); err != nil {
			return err
		}
		if err := r.Articles.Delete(article.ID); err != nil {
			return err
		}
		return r.Categories.IncrementArticleCount(article.CategoryID, -1)
	})
}
