package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Progress interface {
	Repository[*UserVocabulary]

	ListByUser(ctx context.Context, userID uuid.UUID) ([]*UserVocabulary, error)
	// Upsert creates the progress row for (UserID, VocabularyID) or updates
	// the listed columns of the existing one.
	Upsert(ctx context.Context, record *UserVocabulary, columns ...string) (*UserVocabulary, error)
	UpsertTx(ctx context.Context, tx bun.IDB, record *UserVocabulary, columns ...string) (*UserVocabulary, error)
}

type progress struct {
	Repository[*UserVocabulary]
	db *bun.DB
}

var _ Progress = (*progress)(nil)

func NewProgressRepository(db *bun.DB) Progress {
	return &progress{
		db: db,
		Repository: NewRepository(db, "Progress", serialHandlers(func() *UserVocabulary { return &UserVocabulary{} })),
	}
}

func (p *progress) ListByUser(ctx context.Context, userID uuid.UUID) ([]*UserVocabulary, error) {
	records, _, err := p.List(ctx,
		WithRelation("Vocabulary"),
		WhereColumn("user_id", userID),
		OrderByID(),
	)
	return records, err
}

func (p *progress) Upsert(ctx context.Context, record *UserVocabulary, columns ...string) (*UserVocabulary, error) {
	var out *UserVocabulary
	err := p.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var err error
		out, err = p.UpsertTx(ctx, tx, record, columns...)
		return err
	})
	return out, err
}

func (p *progress) UpsertTx(ctx context.Context, tx bun.IDB, record *UserVocabulary, columns ...string) (*UserVocabulary, error) {
	existing, err := p.GetTx(ctx, tx,
		WhereColumn("user_id", record.UserID),
		WhereColumn("vocabulary_id", record.VocabularyID),
	)
	switch {
	case IsRecordNotFound(err):
		record.ID = 0
		return p.CreateTx(ctx, tx, record)
	case err != nil:
		return nil, err
	}

	record.ID = existing.ID
	return p.UpdateTx(ctx, tx, record, columns...)
}
