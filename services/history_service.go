package services

import (
	"fmt"

	"moltpedia/models"
	"moltpedia/repositories"
)

// HistoryService reconstructs article content at any approved version by
// replaying diffs from the nearest preceding snapshot. Only approved records
// participate; pending and rejected ones are audit data.
type HistoryService interface {
	Reconstruct(articleID uint, targetVersion int) (string, error)
}

type historyService struct {
	versionRepo repositories.VersionRepository
	diff        DiffService
}

func NewHistoryService(versionRepo repositories.VersionRepository, diff DiffService) HistoryService {
	return &historyService{versionRepo: versionRepo, diff: diff}
}

func (s *historyService) Reconstruct(articleID uint, targetVersion int) (string, error) {
	versions, err := s.versionRepo.GetApprovedUpTo(articleID, targetVersion)
	if err != nil {
		return "", err
	}
	return ReplayVersions(versions, targetVersion, s.diff)
}

// ReplayVersions folds an ascending run of approved version records into the
// content at targetVersion: the latest snapshot at or before the target is
// the base, every later diff is applied in order.
func ReplayVersions(versions []models.ArticleVersion, targetVersion int, diff DiffService) (string, error) {
	base := ""
	baseVersion := -1
	for _, v := range versions {
		if v.VersionNumber > targetVersion {
			continue
		}
		if snapshot, ok := v.Snapshot(); ok {
			base = snapshot
			baseVersion = v.VersionNumber
		}
	}
	if baseVersion < 0 {
		// Version 1 always carries a snapshot, so this means lost rows.
		return "", models.ErrorHistoryCorrupt{
			Message: fmt.Sprintf("no snapshot found at or before version %d", targetVersion),
		}
	}

	content := base
	for _, v := range versions {
		if v.VersionNumber <= baseVersion || v.VersionNumber > targetVersion {
			continue
		}
		next, err := diff.Apply(content, v.DiffPatch)
		if err != nil {
			return "", err
		}
		content = next
	}
	return content, nil
}
