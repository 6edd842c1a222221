package repositories

import "gorm.io/gorm"

// Repos bundles the repositories bound to one transaction.
type Repos struct {
	Articles    ArticleRepository
	Versions    VersionRepository
	Bots        BotRepository
	Categories  CategoryRepository
	Discussions DiscussionRepository
	Ratings     RatingRepository
	Suggestions SuggestionRepository
}

// TxManager runs a function with all repositories bound to a single
// database transaction. Every write path of the versioning core goes
// through Do so invariant updates commit or roll back together.
type TxManager interface {
	Do(fn func(r Repos) error) error
}

type txManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return &txManager{db: db}
}

func (m *txManager) Do(fn func(r Repos) error) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		return fn(Repos{
			Articles:    NewArticleRepository(tx),
			Versions:    NewVersionRepository(tx),
			Bots:        NewBotRepository(tx),
			Categories:  NewCategoryRepository(tx),
			Discussions: NewDiscussionRepository(tx),
			Ratings:     NewRatingRepository(tx),
			Suggestions: NewSuggestionRepository(tx),
		})
	})
}
