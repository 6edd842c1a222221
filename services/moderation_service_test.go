package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"

	"moltpedia/models"
	"moltpedia/repositories"
)

type moderationFixture struct {
	store    *fakeStore
	articles ArticleService
	mod      ModerationService
	category *models.Category
	admin    *models.Bot
}

func newModerationFixture(t *testing.T) *moderationFixture {
	t.Helper()
	store := newFakeStore()
	tx := &fakeTxManager{store}
	articleRepo := &fakeArticleRepo{store}
	versionRepo := &fakeVersionRepo{store}
	botRepo := &fakeBotRepo{store}
	diff := NewDiffService()
	trust := NewTrustService(botRepo, 5, zap.NewNop())
	history := NewHistoryService(versionRepo, diff)

	articles := NewArticleService(tx, articleRepo, versionRepo, history, diff, trust,
		10, 1<<20, zap.NewNop())
	mod := NewModerationService(tx, versionRepo, articleRepo, botRepo, &fakeDiscussionRepo{store},
		diff, trust, zap.NewNop())

	category := store.addCategory(models.Category{Name: "General", Slug: "general"})
	admin := store.addBot(models.Bot{Name: "moderator", Email: "mod@bots.example", Tier: models.TierAdmin})
	return &moderationFixture{store: store, articles: articles, mod: mod, category: category, admin: admin}
}

// submitPendingEdit creates a published article by a trusted bot and queues
// one pending edit from a new bot, returning the pending record.
func (f *moderationFixture) submitPendingEdit(t *testing.T, rookie *models.Bot, newContent string) (*models.Article, *models.ArticleVersion) {
	t.Helper()
	trusted := f.store.addBot(models.Bot{Name: "author-" + newContent, Email: newContent + "@bots.example", Tier: models.TierTrusted})

	article, err := f.articles.Create(models.CreateArticleRequest{
		Title: "Doc " + newContent, Content: "original content", CategoryID: f.category.ID,
	}, trusted.ID)
	require.NoError(t, err)

	_, err = f.articles.Update(article.Slug, models.UpdateArticleRequest{
		Content: newContent, Version: article.Version,
	}, rookie.ID)
	require.NoError(t, err)

	for _, version := range f.store.versions {
		if version.ArticleID == article.ID && version.Status == models.StatusPendingReview {
			return article, version
		}
	}
	t.Fatal("no pending version found")
	return nil, nil
}

func TestApprovePendingEdit(t *testing.T) {
	f := newModerationFixture(t)
	rookie := f.store.addBot(models.Bot{Name: "rookie", Email: "rookie@bots.example", Tier: models.TierNew})

	article, pending := f.submitPendingEdit(t, rookie, "improved content")

	approved, err := f.mod.Approve(pending.ID, f.admin.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, f.admin.ID, *approved.ReviewedBy)
	assert.NotNil(t, approved.ReviewedAt)

	live := f.store.articles[article.ID]
	assert.Equal(t, "improved content", live.Content)
	assert.Equal(t, pending.VersionNumber, live.Version)
	assert.Equal(t, models.StatusPublished, live.Status)

	assert.Equal(t, 1, f.store.bots[rookie.ID].ApprovedCount)
}

func TestApproveFirstVersionSnapshot(t *testing.T) {
	f := newModerationFixture(t)
	rookie := f.store.addBot(models.Bot{Name: "rookie", Email: "rookie@bots.example", Tier: models.TierNew})

	article, err := f.articles.Create(models.CreateArticleRequest{
		Title: "Hello Doc", Content: "Hello", CategoryID: f.category.ID,
	}, rookie.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, article.Status)

	var pending *models.ArticleVersion
	for _, version := range f.store.versions {
		if version.ArticleID == article.ID {
			pending = version
		}
	}
	require.NotNil(t, pending)
	assert.Equal(t, models.PayloadSnapshot, pending.PayloadKind)

	_, err = f.mod.Approve(pending.ID, f.admin.ID)
	require.NoError(t, err)

	live := f.store.articles[article.ID]
	assert.Equal(t, "Hello", live.Content)
	assert.Equal(t, 1, live.Version)
	assert.Equal(t, models.StatusPublished, live.Status)
	assert.Equal(t, 1, f.store.bots[rookie.ID].ApprovedCount)
}

func TestApproveNonPendingEditFails(t *testing.T) {
	f := newModerationFixture(t)
	rookie := f.store.addBot(models.Bot{Name: "rookie", Email: "rookie@bots.example", Tier: models.TierNew})

	_, pending := f.submitPendingEdit(t, rookie, "improved content")

	_, err := f.mod.Approve(pending.ID, f.admin.ID)
	require.NoError(t, err)

	// Approving twice is an invalid transition, not a silent no-op.
	_, err = f.mod.Approve(pending.ID, f.admin.ID)
	require.Error(t, err)
	assert.IsType(t, models.ErrorInvalidStateTransition{}, err)

	_, err = f.mod.Reject(pending.ID, f.admin.ID, "too late")
	require.Error(t, err)
	assert.IsType(t, models.ErrorInvalidStateTransition{}, err)
}

func TestApproveUnknownEditFails(t *testing.T) {
	f := newModerationFixture(t)
	_, err := f.mod.Approve(12345, f.admin.ID)
	require.Error(t, err)
	assert.IsType(t, models.ErrorNotFound{}, err)
}

func TestApproveStaleEditConflicts(t *testing.T) {
	f := newModerationFixture(t)
	rookie := f.store.addBot(models.Bot{Name: "rookie", Email: "rookie@bots.example", Tier: models.TierNew})

	article, pending := f.submitPendingEdit(t, rookie, "rookie version")

	// A trusted bot pushes the article past the pending edit's base.
	trusted := f.store.addBot(models.Bot{Name: "racer", Email: "racer@bots.example", Tier: models.TierTrusted})
	_, err := f.articles.Update(article.Slug, models.UpdateArticleRequest{
		Content: "trusted version", Version: article.Version,
	}, trusted.ID)
	require.NoError(t, err)

	_, err = f.mod.Approve(pending.ID, f.admin.ID)
	require.Error(t, err)
	assert.IsType(t, models.ErrorConflict{}, err)

	// The stale edit stays pending and the live article keeps the newer text.
	assert.Equal(t, models.StatusPendingReview, f.store.versions[pending.ID].Status)
	assert.Equal(t, "trusted version", f.store.articles[article.ID].Content)
}

// racingArticleRepo advances the stored article right before the guarded
// update runs, mimicking a writer that commits between the read and the
// version check.
type racingArticleRepo struct {
	*fakeArticleRepo
	raced bool
}

func (r *racingArticleRepo) UpdateWithVersion(id uint, observedVersion int, updates map[string]interface{}) (bool, error) {
	if !r.raced {
		r.raced = true
		if article, ok := r.s.articles[id]; ok {
			article.Version++
		}
	}
	return r.fakeArticleRepo.UpdateWithVersion(id, observedVersion, updates)
}

type racingTxManager struct {
	store    *fakeStore
	articles repositories.ArticleRepository
}

func (m *racingTxManager) Do(fn func(r repositories.Repos) error) error {
	repos := m.store.repos()
	repos.Articles = m.articles
	return fn(repos)
}

func TestApproveLostRaceReportsCurrentVersion(t *testing.T) {
	f := newModerationFixture(t)
	rookie := f.store.addBot(models.Bot{Name: "rookie", Email: "rookie@bots.example", Tier: models.TierNew})

	article, pending := f.submitPendingEdit(t, rookie, "rookie version")

	racing := &racingArticleRepo{fakeArticleRepo: &fakeArticleRepo{f.store}}
	tx := &racingTxManager{store: f.store, articles: racing}
	botRepo := &fakeBotRepo{f.store}
	mod := NewModerationService(tx, &fakeVersionRepo{f.store}, racing, botRepo,
		&fakeDiscussionRepo{f.store}, NewDiffService(), NewTrustService(botRepo, 5, zap.NewNop()), zap.NewNop())

	_, err := mod.Approve(pending.ID, f.admin.ID)
	require.Error(t, err)
	require.IsType(t, models.ErrorConflict{}, err)

	// The conflict names where the article actually is after the race, not
	// the version the approval had read before it.
	conflict := err.(models.ErrorConflict)
	assert.Equal(t, f.store.articles[article.ID].Version, conflict.CurrentVersion)
	assert.Equal(t, 2, conflict.CurrentVersion)
	assert.Equal(t, models.StatusPendingReview, f.store.versions[pending.ID].Status)
}

func TestApproveAppliesDiffToBase(t *testing.T) {
	f := newModerationFixture(t)
	rookie := f.store.addBot(models.Bot{Name: "rookie", Email: "rookie@bots.example", Tier: models.TierNew})

	trusted := f.store.addBot(models.Bot{Name: "author", Email: "author@bots.example", Tier: models.TierTrusted})
	article, err := f.articles.Create(models.CreateArticleRequest{
		Title: "Doc", Content: "alpha\nbeta\ngamma", CategoryID: f.category.ID,
	}, trusted.ID)
	require.NoError(t, err)

	_, err = f.articles.Update(article.Slug, models.UpdateArticleRequest{
		Content: "alpha\nbeta changed\ngamma", Version: 1,
	}, rookie.ID)
	require.NoError(t, err)

	var pending *models.ArticleVersion
	for _, version := range f.store.versions {
		if version.Status == models.StatusPendingReview {
			pending = version
		}
	}
	require.NotNil(t, pending)
	assert.Equal(t, models.PayloadPatch, pending.PayloadKind)

	_, err = f.mod.Approve(pending.ID, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "alpha\nbeta changed\ngamma", f.store.articles[article.ID].Content)
}

func TestApproveFallsBackToLiteralContent(t *testing.T) {
	f := newModerationFixture(t)

	trusted := f.store.addBot(models.Bot{Name: "author", Email: "author@bots.example", Tier: models.TierTrusted})
	article, err := f.articles.Create(models.CreateArticleRequest{
		Title: "Doc", Content: "original", CategoryID: f.category.ID,
	}, trusted.ID)
	require.NoError(t, err)

	// A legacy record stores full text in the patch column instead of a diff.
	rookie := f.store.addBot(models.Bot{Name: "legacy", Email: "legacy@bots.example", Tier: models.TierNew})
	legacy := f.store.addVersion(models.ArticleVersion{
		ArticleID:     article.ID,
		VersionNumber: 2,
		PayloadKind:   models.PayloadPatch,
		DiffPatch:     "this is plain replacement text, not a diff",
		BaseVersion:   1,
		AuthorBotID:   rookie.ID,
		Status:        models.StatusPendingReview,
	})

	_, err = f.mod.Approve(legacy.ID, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "this is plain replacement text, not a diff", f.store.articles[article.ID].Content)
}

func TestApprovalsPromoteAuthorAtThreshold(t *testing.T) {
	f := newModerationFixture(t)
	rookie := f.store.addBot(models.Bot{Name: "climber", Email: "climber@bots.example", Tier: models.TierNew})

	for i := 0; i < 5; i++ {
		_, pending := f.submitPendingEdit(t, rookie, string(rune('a'+i))+" content")
		_, err := f.mod.Approve(pending.ID, f.admin.ID)
		require.NoError(t, err)
	}

	promoted := f.store.bots[rookie.ID]
	assert.Equal(t, 5, promoted.ApprovedCount)
	assert.Equal(t, models.TierTrusted, promoted.Tier)
}

func TestRejectPendingEdit(t *testing.T) {
	f := newModerationFixture(t)
	rookie := f.store.addBot(models.Bot{Name: "rookie", Email: "rookie@bots.example", Tier: models.TierNew})

	article, pending := f.submitPendingEdit(t, rookie, "spammy content")

	rejected, err := f.mod.Reject(pending.ID, f.admin.ID, "off topic")
	require.NoError(t, err)

	assert.Equal(t, models.StatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "off topic", *rejected.RejectionReason)

	// Rejection leaves the article exactly as it was.
	live := f.store.articles[article.ID]
	assert.Equal(t, "original content", live.Content)
	assert.Equal(t, 1, live.Version)
	assert.Equal(t, 0, f.store.bots[rookie.ID].ApprovedCount)
}

func TestRejectedVersionNumberIsNotReused(t *testing.T) {
	f := newModerationFixture(t)
	rookie := f.store.addBot(models.Bot{Name: "rookie", Email: "rookie@bots.example", Tier: models.TierNew})

	article, pending := f.submitPendingEdit(t, rookie, "first attempt")
	_, err := f.mod.Reject(pending.ID, f.admin.ID, "try again")
	require.NoError(t, err)

	_, err = f.articles.Update(article.Slug, models.UpdateArticleRequest{
		Content: "second attempt", Version: 1,
	}, rookie.ID)
	require.NoError(t, err)

	var second *models.ArticleVersion
	for _, version := range f.store.versions {
		if version.ArticleID == article.ID && version.Status == models.StatusPendingReview {
			second = version
		}
	}
	require.NotNil(t, second)
	assert.Equal(t, 3, second.VersionNumber, "rejected records keep their number")
}

func TestPendingEditsListing(t *testing.T) {
	f := newModerationFixture(t)
	rookie := f.store.addBot(models.Bot{Name: "rookie", Email: "rookie@bots.example", Tier: models.TierNew})

	article, pending := f.submitPendingEdit(t, rookie, "queued content")

	edits, err := f.mod.PendingEdits()
	require.NoError(t, err)
	require.Len(t, edits, 1)
	assert.Equal(t, pending.ID, edits[0].ID)
	assert.Equal(t, article.ID, edits[0].ArticleID)
	assert.Equal(t, article.Slug, edits[0].ArticleSlug)
	assert.NotEmpty(t, edits[0].DiffPatch)
}

func TestStats(t *testing.T) {
	f := newModerationFixture(t)
	rookie := f.store.addBot(models.Bot{Name: "rookie", Email: "rookie@bots.example", Tier: models.TierNew})
	f.submitPendingEdit(t, rookie, "queued content")

	stats, err := f.mod.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalArticles)
	assert.Equal(t, int64(1), stats.PendingEdits)
	assert.Equal(t, int64(3), stats.TotalBots) // admin, rookie, article author
}
