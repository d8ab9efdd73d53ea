package service

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/lingoscene/lingoscene-api/apierr"
	"github.com/lingoscene/lingoscene-api/repository"
	"github.com/lingoscene/lingoscene-api/schema"
	"github.com/uptrace/bun"
)

// ObjectImport is one scene object and its vocabulary
type ObjectImport struct {
	Object     *schema.Object
	Vocabulary []*schema.Vocabulary
}

// SceneImport is a theme with everything placed in it
type SceneImport struct {
	Theme   *schema.Theme
	Objects []ObjectImport
}

type ImportSummary struct {
	Theme      *repository.Theme
	Objects    int
	Vocabulary int
}

// Import creates a whole scene in one transaction. Nothing is written
// when the theme name is taken or any item fails validation.
func (s *Themes) Import(ctx context.Context, in SceneImport) (*ImportSummary, error) {
	if in.Theme == nil {
		return nil, goerrors.New("scene import has no theme", goerrors.CategoryBadInput)
	}

	summary := &ImportSummary{}

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := schema.ValidateValue(in.Theme); err != nil {
			return importError(err, "theme")
		}

		if in.Theme.Name != nil {
			_, err := s.repo.Themes().GetByNameTx(ctx, tx, *in.Theme.Name)
			switch {
			case err == nil:
				return goerrors.New("Theme with this name already exists", goerrors.CategoryConflict).
					WithTextCode("THEME_EXISTS")
			case !repository.IsRecordNotFound(err):
				return err
			}
		}

		record, _ := themeRecord(in.Theme)
		theme, err := s.repo.Themes().CreateTx(ctx, tx, record)
		if err != nil {
			return themeConflict(err)
		}
		summary.Theme = theme

		for i, item := range in.Objects {
			at := fmt.Sprintf("objects[%d]", i)
			if item.Object == nil {
				return importError(goerrors.New("object is empty", goerrors.CategoryBadInput), at)
			}

			item.Object.ThemeID = &theme.ID
			if err := schema.ValidateValue(item.Object); err != nil {
				return importError(err, at)
			}

			objRecord, _ := objectRecord(item.Object)
			object, err := s.repo.Objects().CreateTx(ctx, tx, objRecord)
			if err != nil {
				return importError(err, at)
			}
			summary.Objects++

			for j, vocab := range item.Vocabulary {
				vat := fmt.Sprintf("%s.vocabularyItems[%d]", at, j)
				if vocab == nil {
					return importError(goerrors.New("vocabulary item is empty", goerrors.CategoryBadInput), vat)
				}

				vocab.ObjectID = &object.ID
				if err := schema.ValidateValue(vocab); err != nil {
					return importError(err, vat)
				}

				vocRecord, _ := vocabularyRecord(vocab)
				if _, err := s.repo.Vocabularies().CreateTx(ctx, tx, vocRecord); err != nil {
					return importError(err, vat)
				}
				summary.Vocabulary++
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return summary, nil
}

func importError(err error, at string) error {
	if rich, ok := apierr.As(err); ok {
		return rich.WithMetadata(map[string]any{"at": at})
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, "scene import failed").
		WithMetadata(map[string]any{"at": at})
}
