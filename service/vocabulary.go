package service

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/lingoscene/lingoscene-api/repository"
	"github.com/lingoscene/lingoscene-api/schema"
)

type Vocabulary struct {
	repo   repository.Manager
	audio  AudioLookup
	logger Logger
}

func NewVocabulary(repo repository.Manager, audio AudioLookup, logger Logger) *Vocabulary {
	if audio == nil {
		audio = noAudio{}
	}
	return &Vocabulary{
		repo:   repo,
		audio:  audio,
		logger: loggerOrNop(logger),
	}
}

// ListByObject returns the object's vocabulary. An object without any
// vocabulary is reported as not found.
func (s *Vocabulary) ListByObject(ctx context.Context, objectID int64) ([]*repository.Vocabulary, error) {
	items, err := s.repo.Vocabularies().ListByObject(ctx, objectID)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, goerrors.Wrap(repository.ErrRecordNotFound, goerrors.CategoryNotFound,
			fmt.Sprintf("No vocabularies found for object %d", objectID),
		)
	}

	return items, nil
}

// Create stores a vocabulary item. When no audio URL is given the
// dictionary is asked for one; a failed lookup leaves it empty.
func (s *Vocabulary) Create(ctx context.Context, objectID int64, p *schema.Vocabulary) (*repository.Vocabulary, error) {
	record, _ := vocabularyRecord(p)
	record.ObjectID = objectID

	if record.AudioURL == nil {
		if audio := s.audio.AudioURL(ctx, record.EnglishWord); audio != "" {
			record.AudioURL = &audio
		}
	}

	return s.repo.Vocabularies().Create(ctx, record)
}

func (s *Vocabulary) Update(ctx context.Context, objectID, id int64, p *schema.Vocabulary) (*repository.Vocabulary, error) {
	if _, err := s.getForObject(ctx, objectID, id); err != nil {
		return nil, err
	}

	record, columns := vocabularyRecord(p)
	record.ID = id
	return s.repo.Vocabularies().Update(ctx, record, columns...)
}

func (s *Vocabulary) Delete(ctx context.Context, objectID, id int64) (*repository.Vocabulary, error) {
	if _, err := s.getForObject(ctx, objectID, id); err != nil {
		return nil, err
	}
	return s.repo.Vocabularies().DeleteByID(ctx, id)
}

// BackfillAudio looks up audio for every item that has none and returns
// how many were updated.
func (s *Vocabulary) BackfillAudio(ctx context.Context) (int, error) {
	items, err := s.repo.Vocabularies().ListMissingAudio(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return updated, err
		}

		audio := s.audio.AudioURL(ctx, item.EnglishWord)
		if audio == "" {
			continue
		}

		if err := s.repo.Vocabularies().SetAudioURL(ctx, item.ID, audio); err != nil {
			return updated, err
		}
		updated++
	}

	s.logger.Info("audio backfill finished", "candidates", len(items), "updated", updated)
	return updated, nil
}

func (s *Vocabulary) getForObject(ctx context.Context, objectID, id int64) (*repository.Vocabulary, error) {
	item, err := s.repo.Vocabularies().GetForObject(ctx, objectID, id)
	if repository.IsRecordNotFound(err) {
		return nil, goerrors.Wrap(err, goerrors.CategoryNotFound,
			fmt.Sprintf("Vocabulary with ID %d for object %d not found", id, objectID),
		)
	}
	return item, err
}

func vocabularyRecord(p *schema.Vocabulary) (*repository.Vocabulary, []string) {
	record := &repository.Vocabulary{}
	var columns []string

	if p.EnglishWord != nil {
		record.EnglishWord = *p.EnglishWord
		columns = append(columns, "english_word")
	}
	if p.VietnameseTranslation != nil {
		record.VietnameseTranslation = *p.VietnameseTranslation
		columns = append(columns, "vietnamese_translation")
	}
	if p.Pronunciation != nil {
		record.Pronunciation = *p.Pronunciation
		columns = append(columns, "pronunciation")
	}
	if p.AudioURL != nil {
		record.AudioURL = p.AudioURL
		columns = append(columns, "audio_url")
	}
	if p.Examples != nil {
		record.Examples = *p.Examples
		columns = append(columns, "examples")
	}
	if p.ObjectID != nil {
		record.ObjectID = *p.ObjectID
		columns = append(columns, "object_id")
	}

	return record, columns
}
