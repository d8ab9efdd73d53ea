// Package seed loads scene files and imports them.
//
// A scene file holds one theme and its objects, each object carrying its
// vocabulary items:
//
//	theme:
//	  name: Kitchen
//	  difficulty: 1
//	objects:
//	  - name: Cup
//	    objectIdentifier: cup_01
//	    vocabularyItems:
//	      - englishWord: cup
//
// The format is YAML. JSON is valid YAML, so the JSON exports of the scene
// editor load unchanged.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/lingoscene/lingoscene-api/schema"
	"github.com/lingoscene/lingoscene-api/service"
	"gopkg.in/yaml.v3"
)

// Importer persists a parsed scene
type Importer interface {
	Import(ctx context.Context, in service.SceneImport) (*service.ImportSummary, error)
}

type document struct {
	Theme   map[string]any `yaml:"theme"`
	Objects []objectEntry  `yaml:"objects"`
}

type objectEntry struct {
	Fields          map[string]any   `yaml:",inline"`
	VocabularyItems []map[string]any `yaml:"vocabularyItems"`
}

// LoadFile reads and parses the scene file at path.
func LoadFile(path string) (*service.SceneImport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a scene document into create payloads. Field types are
// checked here; rules run on import.
func Parse(data []byte) (*service.SceneImport, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "scene file is not valid YAML or JSON")
	}

	if doc.Theme == nil {
		return nil, goerrors.New("scene file has no theme", goerrors.CategoryBadInput)
	}

	out := &service.SceneImport{Theme: &schema.Theme{}}
	if err := bind(doc.Theme, out.Theme, "theme"); err != nil {
		return nil, err
	}

	for i, entry := range doc.Objects {
		at := fmt.Sprintf("objects[%d]", i)

		item := service.ObjectImport{Object: schema.NewObjectCreate().(*schema.Object)}
		if err := bind(entry.Fields, item.Object, at); err != nil {
			return nil, err
		}

		for j, fields := range entry.VocabularyItems {
			vocab := schema.NewVocabularyCreate().(*schema.Vocabulary)
			if err := bind(fields, vocab, fmt.Sprintf("%s.vocabularyItems[%d]", at, j)); err != nil {
				return nil, err
			}
			item.Vocabulary = append(item.Vocabulary, vocab)
		}

		out.Objects = append(out.Objects, item)
	}

	return out, nil
}

// Run loads the file at path and imports it.
func Run(ctx context.Context, importer Importer, path string) (*service.ImportSummary, error) {
	scene, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return importer.Import(ctx, *scene)
}

// bind routes a YAML mapping through the JSON binder so scene files get
// the same type checks as request bodies.
func bind(fields map[string]any, dst any, at string) error {
	if fields == nil {
		fields = map[string]any{}
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "scene entry can not be encoded").
			WithMetadata(map[string]any{"at": at})
	}

	typeErrs, err := schema.Bind(raw, dst)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, err.Error()).
			WithMetadata(map[string]any{"at": at})
	}

	if len(typeErrs) > 0 {
		return schema.NewValidationError(validation.Errors(typeErrs)).
			WithMetadata(map[string]any{"at": at})
	}

	return nil
}
