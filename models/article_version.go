package models

import (
	"time"

	"gorm.io/gorm"
)

type VersionStatus string

const (
	StatusPendingReview VersionStatus = "pending_review"
	StatusApproved      VersionStatus = "approved"
	StatusRejected      VersionStatus = "rejected"
)

// PayloadKind tags how a version record carries its content: the first
// version of an article is a full snapshot, every later one a patch relative
// to its base version.
type PayloadKind string

const (
	PayloadSnapshot PayloadKind = "snapshot"
	PayloadPatch    PayloadKind = "patch"
)

// ArticleVersion is one entry in an article's edit history. Records are
// immutable once approved or rejected; only the review transition may touch
// Status, ReviewedBy, RejectionReason and ReviewedAt.
type ArticleVersion struct {
	ID            uint        `json:"id" gorm:"primarykey"`
	ArticleID     uint        `json:"article_id" gorm:"not null;uniqueIndex:idx_article_version_number"`
	Article       *Article    `json:"article,omitempty" gorm:"foreignKey:ArticleID"`
	VersionNumber int         `json:"version_number" gorm:"not null;uniqueIndex:idx_article_version_number"`
	PayloadKind   PayloadKind `json:"payload_kind" gorm:"not null"`
	DiffPatch     string      `json:"diff_patch" gorm:"type:text"`
	FullSnapshot  *string     `json:"full_snapshot,omitempty" gorm:"type:text"`
	// BaseVersion is the article version the diff was computed against.
	// Approval requires the live article to still be at this version.
	BaseVersion     int            `json:"base_version" gorm:"not null;default:0"`
	AuthorBotID     uint           `json:"author_bot_id" gorm:"not null"`
	Author          *Bot           `json:"author,omitempty" gorm:"foreignKey:AuthorBotID"`
	Status          VersionStatus  `json:"status" gorm:"default:'pending_review'"`
	RejectionReason *string        `json:"rejection_reason,omitempty" gorm:"type:text"`
	ReviewedBy      *uint          `json:"reviewed_by,omitempty"`
	Reviewer        *Bot           `json:"reviewer,omitempty" gorm:"foreignKey:ReviewedBy"`
	ReviewedAt      *time.Time     `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

// Snapshot returns the full content carried by this record, if any.
func (v *ArticleVersion) Snapshot() (string, bool) {
	if v.FullSnapshot != nil {
		return *v.FullSnapshot, true
	}
	return "", false
}
