package schema

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Vocabulary is the body for creating or updating a vocabulary item.
type Vocabulary struct {
	EnglishWord           *string   `json:"englishWord"`
	VietnameseTranslation *string   `json:"vietnameseTranslation"`
	Pronunciation         *string   `json:"pronunciation"`
	AudioURL              *string   `json:"audioUrl"`
	Examples              *[]string `json:"examples"`
	ObjectID              *int64    `json:"objectId"`

	partial bool
}

func NewVocabularyCreate() any { return &Vocabulary{} }
func NewVocabularyUpdate() any { return &Vocabulary{partial: true} }

func (p *Vocabulary) Partial() bool { return p.partial }

// BindParams lets the :objectId path parameter override the body.
func (p *Vocabulary) BindParams(params Values) {
	if p.partial {
		return
	}
	if id := params.IntPtr("objectId"); id != nil {
		p.ObjectID = id
	}
}

func (p *Vocabulary) Normalize() {
	trim(p.EnglishWord)
	trim(p.VietnameseTranslation)
	trim(p.Pronunciation)
	trim(p.AudioURL)

	if p.AudioURL != nil && *p.AudioURL == "" {
		p.AudioURL = nil
	}

	if p.partial {
		p.ObjectID = nil
		return
	}

	if p.Examples == nil {
		p.Examples = &[]string{}
	}
}

func (p *Vocabulary) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.EnglishWord, presence(p.partial, "English word is required")),
		validation.Field(&p.VietnameseTranslation, presence(p.partial, "Vietnamese translation is required")),
		validation.Field(&p.Pronunciation, presence(p.partial, "Pronunciation is required")),
		validation.Field(&p.AudioURL, is.URL.Error("Audio URL must be a valid URL")),
		validation.Field(&p.Examples, validation.By(func(value any) error {
			examples, _ := value.(*[]string)
			if examples == nil {
				return nil
			}
			return validation.Validate(*examples,
				validation.Each(validation.Required.Error("Example must not be empty")),
			)
		})),
		validation.Field(&p.ObjectID,
			notNil(p.partial, "Object ID is required"),
			positive("Object ID must be a positive integer"),
		),
	)
}

// Progress is the body for recording learning progress.
type Progress struct {
	Learned      *bool      `json:"learned"`
	Proficiency  *int       `json:"proficiency"`
	LastReviewed *time.Time `json:"lastReviewed"`
}

func NewProgress() any { return &Progress{} }

func (p *Progress) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Proficiency, between(0, 100, "Proficiency must be between 0 and 100")),
	)
}
