package services

import (
	"sort"
	"time"

	"gorm.io/gorm"

	"moltpedia/models"
	"moltpedia/repositories"
)

// In-memory repository fakes. They back the service tests so the versioning
// logic can be exercised without a database.

type fakeStore struct {
	bots        map[uint]*models.Bot
	articles    map[uint]*models.Article
	versions    map[uint]*models.ArticleVersion
	categories  map[uint]*models.Category
	discussions []*models.Discussion
	ratings     []*models.ArticleRating
	suggestions map[uint]*models.Suggestion
	votes       []*models.SuggestionVote
	comments    []*models.SuggestionComment

	nextBotID        uint
	nextArticleID    uint
	nextVersionID    uint
	nextCategoryID   uint
	nextSuggestionID uint
	nextVoteID       uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bots:        make(map[uint]*models.Bot),
		articles:    make(map[uint]*models.Article),
		versions:    make(map[uint]*models.ArticleVersion),
		categories:  make(map[uint]*models.Category),
		suggestions: make(map[uint]*models.Suggestion),
	}
}

func (s *fakeStore) repos() repositories.Repos {
	return repositories.Repos{
		Articles:    &fakeArticleRepo{s},
		Versions:    &fakeVersionRepo{s},
		Bots:        &fakeBotRepo{s},
		Categories:  &fakeCategoryRepo{s},
		Discussions: &fakeDiscussionRepo{s},
		Ratings:     &fakeRatingRepo{s},
		Suggestions: &fakeSuggestionRepo{s},
	}
}

func (s *fakeStore) addBot(bot models.Bot) *models.Bot {
	s.nextBotID++
	bot.ID = s.nextBotID
	s.bots[bot.ID] = &bot
	return &bot
}

func (s *fakeStore) addCategory(category models.Category) *models.Category {
	s.nextCategoryID++
	category.ID = s.nextCategoryID
	s.categories[category.ID] = &category
	return &category
}

func (s *fakeStore) addArticle(article models.Article) *models.Article {
	s.nextArticleID++
	article.ID = s.nextArticleID
	s.articles[article.ID] = &article
	return &article
}

func (s *fakeStore) addVersion(version models.ArticleVersion) *models.ArticleVersion {
	s.nextVersionID++
	version.ID = s.nextVersionID
	s.versions[version.ID] = &version
	return &version
}

// fakeTxManager executes the function directly against the shared store.
type fakeTxManager struct {
	store *fakeStore
}

func (m *fakeTxManager) Do(fn func(r repositories.Repos) error) error {
	return fn(m.store.repos())
}

type fakeBotRepo struct{ s *fakeStore }

func (r *fakeBotRepo) Create(bot *models.Bot) error {
	created := r.s.addBot(*bot)
	*bot = *created
	return nil
}

func (r *fakeBotRepo) GetByID(id uint) (*models.Bot, error) {
	bot, ok := r.s.bots[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *bot
	return &copied, nil
}

func (r *fakeBotRepo) GetByName(name string) (*models.Bot, error) {
	for _, bot := range r.s.bots {
		if bot.Name == name {
			copied := *bot
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeBotRepo) GetByEmail(email string) (*models.Bot, error) {
	for _, bot := range r.s.bots {
		if bot.Email == email {
			copied := *bot
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeBotRepo) GetByAPIKeyDigest(digest string) (*models.Bot, error) {
	for _, bot := range r.s.bots {
		if bot.APIKeyDigest == digest {
			copied := *bot
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeBotRepo) Update(bot *models.Bot) error {
	copied := *bot
	r.s.bots[bot.ID] = &copied
	return nil
}

func (r *fakeBotRepo) Count() (int64, error) {
	return int64(len(r.s.bots)), nil
}

func (r *fakeBotRepo) CountByTier(tier models.BotTier) (int64, error) {
	var count int64
	for _, bot := range r.s.bots {
		if bot.Tier == tier {
			count++
		}
	}
	return count, nil
}

type fakeArticleRepo struct{ s *fakeStore }

func (r *fakeArticleRepo) Create(article *models.Article) error {
	created := r.s.addArticle(*article)
	*article = *created
	return nil
}

func (r *fakeArticleRepo) GetByID(id uint) (*models.Article, error) {
	article, ok := r.s.articles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *article
	return &copied, nil
}

func (r *fakeArticleRepo) GetBySlug(slug string) (*models.Article, error) {
	for _, article := range r.s.articles {
		if article.Slug == slug {
			copied := *article
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeArticleRepo) List(params models.ArticleListParams) ([]models.Article, int64, error) {
	var results []models.Article
	for _, article := range r.s.articles {
		if article.Status != models.StatusPublished {
			continue
		}
		results = append(results, *article)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, int64(len(results)), nil
}

func (r *fakeArticleRepo) Update(article *models.Article) error {
	copied := *article
	r.s.articles[article.ID] = &copied
	return nil
}

func (r *fakeArticleRepo) UpdateWithVersion(id uint, observedVersion int, updates map[string]interface{}) (bool, error) {
	article, ok := r.s.articles[id]
	if !ok || article.Version != observedVersion {
		return false, nil
	}
	for key, value := range updates {
		switch key {
		case "title":
			article.Title = value.(string)
		case "content":
			article.Content = value.(string)
		case "category_id":
			article.CategoryID = value.(uint)
		case "version":
			article.Version = value.(int)
		case "status":
			article.Status = value.(models.ArticleStatus)
		case "search_vector":
			article.SearchVector = value.(string)
		}
	}
	return true, nil
}

func (r *fakeArticleRepo) IncrementViewCount(id uint) error {
	if article, ok := r.s.articles[id]; ok {
		article.ViewCount++
	}
	return nil
}

func (r *fakeArticleRepo) Delete(id uint) error {
	delete(r.s.articles, id)
	return nil
}

func (r *fakeArticleRepo) Count() (int64, error) {
	return int64(len(r.s.articles)), nil
}

func (r *fakeArticleRepo) CountByCategory() ([]models.CategoryCount, error) {
	byCategory := make(map[uint]int64)
	for _, article := range r.s.articles {
		byCategory[article.CategoryID]++
	}
	var results []models.CategoryCount
	for id, category := range r.s.categories {
		results = append(results, models.CategoryCount{Category: category.Name, Count: byCategory[id]})
	}
	return results, nil
}

func (r *fakeArticleRepo) SlugExists(slug string) (bool, error) {
	for _, article := range r.s.articles {
		if article.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

type fakeVersionRepo struct{ s *fakeStore }

func (r *fakeVersionRepo) Create(version *models.ArticleVersion) error {
	created := r.s.addVersion(*version)
	*version = *created
	return nil
}

func (r *fakeVersionRepo) GetByID(id uint) (*models.ArticleVersion, error) {
	version, ok := r.s.versions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *version
	return &copied, nil
}

func (r *fakeVersionRepo) GetByArticle(articleID uint) ([]models.ArticleVersion, error) {
	var results []models.ArticleVersion
	for _, version := range r.s.versions {
		if version.ArticleID == articleID {
			results = append(results, *version)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].VersionNumber < results[j].VersionNumber })
	return results, nil
}

func (r *fakeVersionRepo) GetApprovedUpTo(articleID uint, target int) ([]models.ArticleVersion, error) {
	var results []models.ArticleVersion
	for _, version := range r.s.versions {
		if version.ArticleID == articleID && version.Status == models.StatusApproved && version.VersionNumber <= target {
			results = append(results, *version)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].VersionNumber < results[j].VersionNumber })
	return results, nil
}

func (r *fakeVersionRepo) GetByNumber(articleID uint, versionNumber int) (*models.ArticleVersion, error) {
	for _, version := range r.s.versions {
		if version.ArticleID == articleID && version.VersionNumber == versionNumber {
			copied := *version
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeVersionRepo) NextVersionNumber(articleID uint) (int, error) {
	max := 0
	for _, version := range r.s.versions {
		if version.ArticleID == articleID && version.VersionNumber > max {
			max = version.VersionNumber
		}
	}
	return max + 1, nil
}

func (r *fakeVersionRepo) UpdateReview(id uint, status models.VersionStatus, reviewerID uint, reason *string, reviewedAt time.Time) error {
	version, ok := r.s.versions[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	version.Status = status
	version.ReviewedBy = &reviewerID
	version.RejectionReason = reason
	version.ReviewedAt = &reviewedAt
	return nil
}

func (r *fakeVersionRepo) ListPending() ([]models.ArticleVersion, error) {
	var results []models.ArticleVersion
	for _, version := range r.s.versions {
		if version.Status == models.StatusPendingReview {
			copied := *version
			if article, ok := r.s.articles[version.ArticleID]; ok {
				articleCopy := *article
				copied.Article = &articleCopy
			}
			results = append(results, copied)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID > results[j].ID })
	return results, nil
}

func (r *fakeVersionRepo) CountPending() (int64, error) {
	var count int64
	for _, version := range r.s.versions {
		if version.Status == models.StatusPendingReview {
			count++
		}
	}
	return count, nil
}

func (r *fakeVersionRepo) DeleteByArticle(articleID uint) error {
	for id, version := range r.s.versions {
		if version.ArticleID == articleID {
			delete(r.s.versions, id)
		}
	}
	return nil
}

type fakeCategoryRepo struct{ s *fakeStore }

func (r *fakeCategoryRepo) Create(category *models.Category) error {
	created := r.s.addCategory(*category)
	*category = *created
	return nil
}

func (r *fakeCategoryRepo) GetByID(id uint) (*models.Category, error) {
	category, ok := r.s.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *category
	return &copied, nil
}

func (r *fakeCategoryRepo) GetBySlug(slug string) (*models.Category, error) {
	for _, category := range r.s.categories {
		if category.Slug == slug {
			copied := *category
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCategoryRepo) GetAll() ([]models.Category, error) {
	var results []models.Category
	for _, category := range r.s.categories {
		results = append(results, *category)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (r *fakeCategoryRepo) Update(category *models.Category) error {
	copied := *category
	r.s.categories[category.ID] = &copied
	return nil
}

func (r *fakeCategoryRepo) ExistsByNameOrSlug(name, slug string) (bool, error) {
	for _, category := range r.s.categories {
		if category.Name == name || category.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCategoryRepo) IncrementArticleCount(id uint, delta int) error {
	if category, ok := r.s.categories[id]; ok {
		category.ArticleCount += delta
	}
	return nil
}

type fakeDiscussionRepo struct{ s *fakeStore }

func (r *fakeDiscussionRepo) Create(discussion *models.Discussion) error {
	copied := *discussion
	copied.ID = uint(len(r.s.discussions) + 1)
	r.s.discussions = append(r.s.discussions, &copied)
	*discussion = copied
	return nil
}

func (r *fakeDiscussionRepo) GetByArticle(articleID uint) ([]models.Discussion, error) {
	var results []models.Discussion
	for _, discussion := range r.s.discussions {
		if discussion.ArticleID == articleID {
			results = append(results, *discussion)
		}
	}
	return results, nil
}

func (r *fakeDiscussionRepo) Count() (int64, error) {
	return int64(len(r.s.discussions)), nil
}

type fakeSuggestionRepo struct{ s *fakeStore }

func (r *fakeSuggestionRepo) Create(suggestion *models.Suggestion) error {
	r.s.nextSuggestionID++
	copied := *suggestion
	copied.ID = r.s.nextSuggestionID
	r.s.suggestions[copied.ID] = &copied
	*suggestion = copied
	return nil
}

func (r *fakeSuggestionRepo) GetByID(id uint) (*models.Suggestion, error) {
	suggestion, ok := r.s.suggestions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *suggestion
	return &copied, nil
}

func (r *fakeSuggestionRepo) List(params models.SuggestionListParams) ([]models.Suggestion, int64, error) {
	var results []models.Suggestion
	for _, suggestion := range r.s.suggestions {
		if params.Status != "" && string(suggestion.Status) != params.Status {
			continue
		}
		results = append(results, *suggestion)
	}
	switch params.Sort {
	case "oldest":
		sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	case "newest":
		sort.Slice(results, func(i, j int) bool { return results[i].ID > results[j].ID })
	default:
		sort.Slice(results, func(i, j int) bool {
			if results[i].Score() != results[j].Score() {
				return results[i].Score() > results[j].Score()
			}
			return results[i].ID > results[j].ID
		})
	}
	total := int64(len(results))
	offset := (params.Page - 1) * params.Limit
	if offset >= len(results) {
		return nil, total, nil
	}
	end := offset + params.Limit
	if end > len(results) {
		end = len(results)
	}
	return results[offset:end], total, nil
}

func (r *fakeSuggestionRepo) Update(suggestion *models.Suggestion) error {
	copied := *suggestion
	r.s.suggestions[suggestion.ID] = &copied
	return nil
}

func (r *fakeSuggestionRepo) GetVote(suggestionID, botID uint) (*models.SuggestionVote, error) {
	for _, vote := range r.s.votes {
		if vote.SuggestionID == suggestionID && vote.BotID == botID {
			copied := *vote
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSuggestionRepo) SaveVote(vote *models.SuggestionVote) error {
	for i, existing := range r.s.votes {
		if existing.ID == vote.ID && vote.ID != 0 {
			copied := *vote
			r.s.votes[i] = &copied
			return nil
		}
	}
	r.s.nextVoteID++
	copied := *vote
	copied.ID = r.s.nextVoteID
	r.s.votes = append(r.s.votes, &copied)
	*vote = copied
	return nil
}

func (r *fakeSuggestionRepo) DeleteVote(id uint) error {
	for i, vote := range r.s.votes {
		if vote.ID == id {
			r.s.votes = append(r.s.votes[:i], r.s.votes[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeSuggestionRepo) CreateComment(comment *models.SuggestionComment) error {
	copied := *comment
	copied.ID = uint(len(r.s.comments) + 1)
	r.s.comments = append(r.s.comments, &copied)
	*comment = copied
	return nil
}

func (r *fakeSuggestionRepo) GetComments(suggestionID uint) ([]models.SuggestionComment, error) {
	var results []models.SuggestionComment
	for _, comment := range r.s.comments {
		if comment.SuggestionID == suggestionID {
			results = append(results, *comment)
		}
	}
	return results, nil
}

type fakeRatingRepo struct{ s *fakeStore }

func (r *fakeRatingRepo) GetByArticleAndBot(articleID, botID uint) (*models.ArticleRating, error) {
	for _, rating := range r.s.ratings {
		if rating.ArticleID == articleID && rating.BotID == botID {
			copied := *rating
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRatingRepo) Save(rating *models.ArticleRating) error {
	for i, existing := range r.s.ratings {
		if existing.ArticleID == rating.ArticleID && existing.BotID == rating.BotID {
			copied := *rating
			copied.ID = existing.ID
			r.s.ratings[i] = &copied
			*rating = copied
			return nil
		}
	}
	copied := *rating
	copied.ID = uint(len(r.s.ratings) + 1)
	r.s.ratings = append(r.s.ratings, &copied)
	*rating = copied
	return nil
}
