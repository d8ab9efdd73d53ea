package repository

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

type Vocabularies interface {
	Repository[*Vocabulary]

	ListByObject(ctx context.Context, objectID int64) ([]*Vocabulary, error)
	GetForObject(ctx context.Context, objectID, id int64) (*Vocabulary, error)
	GetForObjectTx(ctx context.Context, tx bun.IDB, objectID, id int64) (*Vocabulary, error)
	ListMissingAudio(ctx context.Context) ([]*Vocabulary, error)
	SetAudioURL(ctx context.Context, id int64, audioURL string) error
}

type vocabularies struct {
	Repository[*Vocabulary]
	db *bun.DB
}

var _ Vocabularies = (*vocabularies)(nil)

func NewVocabulariesRepository(db *bun.DB) Vocabularies {
	return &vocabularies{
		db: db,
		Repository: NewRepository(db, "Vocabulary", serialHandlers(func() *Vocabulary { return &Vocabulary{} })),
	}
}

func (v *vocabularies) ListByObject(ctx context.Context, objectID int64) ([]*Vocabulary, error) {
	records, _, err := v.List(ctx,
		WithRelation("Object"),
		WhereColumn("object_id", objectID),
		OrderByID(),
	)
	return records, err
}

func (v *vocabularies) GetForObject(ctx context.Context, objectID, id int64) (*Vocabulary, error) {
	return v.GetForObjectTx(ctx, v.db, objectID, id)
}

func (v *vocabularies) GetForObjectTx(ctx context.Context, tx bun.IDB, objectID, id int64) (*Vocabulary, error) {
	record, err := v.GetTx(ctx, tx, WhereID(id), WhereColumn("object_id", objectID))
	if IsRecordNotFound(err) {
		return nil, NewRecordNotFound("Vocabulary").
			WithTextCode("VOCABULARY_NOT_FOUND").
			WithMetadata(map[string]any{"id": id, "objectId": objectID})
	}
	return record, err
}

func (v *vocabularies) ListMissingAudio(ctx context.Context) ([]*Vocabulary, error) {
	records, _, err := v.List(ctx,
		func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.Where("?TableAlias.audio_url IS NULL").WhereOr("?TableAlias.audio_url = ''")
			})
		},
		OrderByID(),
	)
	return records, err
}

func (v *vocabularies) SetAudioURL(ctx context.Context, id int64, audioURL string) error {
	if audioURL == "" {
		return fmt.Errorf("set audio url for vocabulary %d: empty url", id)
	}
	_, err := v.Update(ctx, &Vocabulary{ID: id, AudioURL: &audioURL}, "audio_url")
	return err
}
