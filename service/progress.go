package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/lingoscene/lingoscene-api/repository"
	"github.com/lingoscene/lingoscene-api/schema"
)

// Progress records per user learning state.
type Progress struct {
	repo repository.Manager
}

func NewProgress(repo repository.Manager) *Progress {
	return &Progress{repo: repo}
}

func (s *Progress) List(ctx context.Context, userID uuid.UUID) ([]*repository.UserVocabulary, error) {
	return s.repo.Progress().ListByUser(ctx, userID)
}

// Record upserts the caller's progress on one vocabulary item. Only the
// fields present in the payload change on an existing row.
func (s *Progress) Record(ctx context.Context, userID uuid.UUID, vocabularyID int64, p *schema.Progress) (*repository.UserVocabulary, error) {
	if _, err := s.repo.Vocabularies().GetByID(ctx, vocabularyID); err != nil {
		return nil, err
	}

	record := &repository.UserVocabulary{
		UserID:       userID,
		VocabularyID: vocabularyID,
	}
	var columns []string

	if p.Learned != nil {
		record.Learned = *p.Learned
		columns = append(columns, "learned")
	}
	if p.Proficiency != nil {
		record.Proficiency = *p.Proficiency
		columns = append(columns, "proficiency")
	}
	if p.LastReviewed != nil {
		reviewed := p.LastReviewed.UTC()
		record.LastReviewed = &reviewed
		columns = append(columns, "last_reviewed")
	}

	return s.repo.Progress().Upsert(ctx, record, columns...)
}
