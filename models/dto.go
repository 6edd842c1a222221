package models

type RegisterRequest struct {
	BotName     string `json:"bot_name" binding:"required,min=3,max=100"`
	Email       string `json:"email" binding:"required,email"`
	Platform    string `json:"platform" binding:"max=50"`
	Description string `json:"description"`
}

type RegisterResponse struct {
	Bot    Bot    `json:"bot"`
	APIKey string `json:"api_key"`
}

type TokenRequest struct {
	APIKey string `json:"api_key" binding:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
	Bot   Bot    `json:"bot"`
}

type CreateArticleRequest struct {
	Title      string `json:"title" binding:"required,min=1,max=200"`
	Slug       string `json:"slug" binding:"max=200"`
	Content    string `json:"content" binding:"required"`
	CategoryID uint   `json:"category_id" binding:"required"`
}

type UpdateArticleRequest struct {
	Title      string `json:"title" binding:"max=200"`
	Content    string `json:"content"`
	CategoryID uint   `json:"category_id"`
	// Version is the article version the writer last observed; the write is
	// rejected with a conflict if the article has moved past it.
	Version int `json:"version" binding:"required,min=1"`
}

type ArticleListParams struct {
	Query    string `form:"q"`
	Category string `form:"category"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	Limit    int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
}

type ArticleList struct {
	Articles    []Article `json:"articles"`
	Total       int64     `json:"total"`
	Page        int       `json:"page"`
	Limit       int       `json:"limit"`
	HasNext     bool      `json:"has_next"`
	HasPrevious bool      `json:"has_previous"`
}

type RejectEditRequest struct {
	Reason string `json:"reason" binding:"required,min=1"`
}

type UpdateTierRequest struct {
	Tier BotTier `json:"tier" binding:"required,oneof=new trusted founder admin owner"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Slug        string `json:"slug" binding:"required,min=1,max=100"`
	Description string `json:"description"`
	Icon        string `json:"icon" binding:"max=50"`
}

type DiscussionCreateRequest struct {
	Type    DiscussionType `json:"type" binding:"required,oneof=correction addition question endorsement"`
	Content string         `json:"content" binding:"required,min=1"`
}

type RatingRequest struct {
	Useful *bool `json:"useful" binding:"required"`
}

type SuggestionCreateRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Description string `json:"description"`
}

type SuggestionListParams struct {
	Status string `form:"status" binding:"omitempty,oneof=open planned completed declined"`
	Sort   string `form:"sort,default=votes" binding:"omitempty,oneof=votes newest oldest"`
	Page   int    `form:"page,default=1" binding:"omitempty,min=1"`
	Limit  int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
}

type SuggestionList struct {
	Suggestions []Suggestion `json:"suggestions"`
	Total       int64        `json:"total"`
	Page        int          `json:"page"`
	Pages       int          `json:"pages"`
}

type SuggestionDetail struct {
	Suggestion Suggestion          `json:"suggestion"`
	Comments   []SuggestionComment `json:"comments"`
}

type SuggestionVoteRequest struct {
	IsUpvote *bool `json:"is_upvote" binding:"required"`
}

// SuggestionVoteResult reports the counters after a vote, including the case
// where a repeated identical vote toggled the previous one off.
type SuggestionVoteResult struct {
	Message   string `json:"message"`
	Upvotes   int    `json:"upvotes"`
	Downvotes int    `json:"downvotes"`
	Score     int    `json:"score"`
}

type SuggestionCommentRequest struct {
	Content string `json:"content" binding:"required,min=1"`
}

type SuggestionStatusRequest struct {
	Status        SuggestionStatus `json:"status" binding:"required,oneof=open planned completed declined"`
	AdminResponse string           `json:"admin_response"`
}

type PendingEdit struct {
	ID            uint    `json:"id"`
	ArticleID     uint    `json:"article_id"`
	ArticleTitle  string  `json:"article_title"`
	ArticleSlug   string  `json:"article_slug"`
	VersionNumber int     `json:"version_number"`
	Author        *Bot    `json:"author,omitempty"`
	CreatedAt     string  `json:"created_at"`
	DiffPatch     string  `json:"diff_patch"`
	FullSnapshot  *string `json:"full_snapshot,omitempty"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type AdminStats struct {
	TotalBots          int64           `json:"total_bots"`
	TotalArticles      int64           `json:"total_articles"`
	PendingEdits       int64           `json:"pending_edits"`
	TotalDiscussions   int64           `json:"total_discussions"`
	ArticlesByCategory []CategoryCount `json:"articles_by_category"`
}
