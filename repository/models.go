package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lingoscene/lingoscene-api/auth"
	"github.com/uptrace/bun"
)

// User is the user model. The password hash never leaves the server.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id"`
	Email         string    `bun:"email,notnull,unique" json:"email"`
	PasswordHash  string    `bun:"password_hash,notnull" json:"-"`
	Name          *string   `bun:"name" json:"name"`
	Role          auth.Role `bun:"role,notnull" json:"role"`
	CreatedAt     time.Time `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt     time.Time `bun:"updated_at,notnull" json:"updatedAt"`
}

// Theme is a learning scene
type Theme struct {
	bun.BaseModel   `bun:"table:themes,alias:th"`
	ID              int64          `bun:"id,pk,autoincrement" json:"id"`
	Name            string         `bun:"name,notnull,unique" json:"name"`
	Description     *string        `bun:"description" json:"description"`
	ImageURL        *string        `bun:"image_url" json:"imageUrl"`
	SceneURL        *string        `bun:"scene_url" json:"sceneUrl"`
	SkyboxURL       *string        `bun:"skybox_url" json:"skyboxUrl"`
	Difficulty      int            `bun:"difficulty,notnull" json:"difficulty"`
	IsLocked        bool           `bun:"is_locked,notnull" json:"isLocked"`
	RequiredThemeID *int64         `bun:"required_theme_id" json:"requiredThemeId"`
	Objects         []*SceneObject `bun:"rel:has-many,join:id=theme_id" json:"objects,omitempty"`
	CreatedAt       time.Time      `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt       time.Time      `bun:"updated_at,notnull" json:"updatedAt"`
}

// Vector3 is a position, rotation or scale in scene space
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// SceneObject is an interactive object placed in a theme
type SceneObject struct {
	bun.BaseModel    `bun:"table:objects,alias:obj"`
	ID               int64         `bun:"id,pk,autoincrement" json:"id"`
	Name             string        `bun:"name,notnull" json:"name"`
	ObjectIdentifier string        `bun:"object_identifier,notnull" json:"objectIdentifier"`
	ModelURL         *string       `bun:"model_url" json:"modelUrl"`
	ThumbnailURL     *string       `bun:"thumbnail_url" json:"thumbnailUrl"`
	Position         Vector3       `bun:"position,notnull" json:"position"`
	Rotation         Vector3       `bun:"rotation,notnull" json:"rotation"`
	Scale            Vector3       `bun:"scale,notnull" json:"scale"`
	Interactable     bool          `bun:"interactable,notnull" json:"interactable"`
	InteractionType  string        `bun:"interaction_type,notnull" json:"interactionType"`
	HighlightColor   *string       `bun:"highlight_color" json:"highlightColor"`
	ThemeID          int64         `bun:"theme_id,notnull" json:"themeId"`
	Theme            *Theme        `bun:"rel:belongs-to,join:theme_id=id" json:"theme,omitempty"`
	Vocabularies     []*Vocabulary `bun:"rel:has-many,join:id=object_id" json:"vocabularies,omitempty"`
	CreatedAt        time.Time     `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt        time.Time     `bun:"updated_at,notnull" json:"updatedAt"`
}

// Vocabulary is a word attached to an object
type Vocabulary struct {
	bun.BaseModel         `bun:"table:vocabularies,alias:voc"`
	ID                    int64        `bun:"id,pk,autoincrement" json:"id"`
	EnglishWord           string       `bun:"english_word,notnull" json:"englishWord"`
	VietnameseTranslation string       `bun:"vietnamese_translation,notnull" json:"vietnameseTranslation"`
	Pronunciation         string       `bun:"pronunciation,notnull" json:"pronunciation"`
	AudioURL              *string      `bun:"audio_url" json:"audioUrl"`
	Examples              []string     `bun:"examples,notnull" json:"examples"`
	ObjectID              int64        `bun:"object_id,notnull" json:"objectId"`
	Object                *SceneObject `bun:"rel:belongs-to,join:object_id=id" json:"object,omitempty"`
	CreatedAt             time.Time    `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt             time.Time    `bun:"updated_at,notnull" json:"updatedAt"`
}

// UserVocabulary tracks a user's progress on one vocabulary item
type UserVocabulary struct {
	bun.BaseModel `bun:"table:user_vocabularies,alias:uv"`
	ID            int64       `bun:"id,pk,autoincrement" json:"id"`
	UserID        uuid.UUID   `bun:"user_id,notnull,type:uuid" json:"userId"`
	VocabularyID  int64       `bun:"vocabulary_id,notnull" json:"vocabularyId"`
	Learned       bool        `bun:"learned,notnull" json:"learned"`
	LastReviewed  *time.Time  `bun:"last_reviewed" json:"lastReviewed"`
	Proficiency   int         `bun:"proficiency,notnull" json:"proficiency"`
	Vocabulary    *Vocabulary `bun:"rel:belongs-to,join:vocabulary_id=id" json:"vocabulary,omitempty"`
	CreatedAt     time.Time   `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt     time.Time   `bun:"updated_at,notnull" json:"updatedAt"`
}

var (
	_ bun.BeforeAppendModelHook = (*User)(nil)
	_ bun.BeforeAppendModelHook = (*Theme)(nil)
	_ bun.BeforeAppendModelHook = (*SceneObject)(nil)
	_ bun.BeforeAppendModelHook = (*Vocabulary)(nil)
	_ bun.BeforeAppendModelHook = (*UserVocabulary)(nil)
)

func (u *User) BeforeAppendModel(_ context.Context, query bun.Query) error {
	touch(query, &u.CreatedAt, &u.UpdatedAt)
	return nil
}

func (t *Theme) BeforeAppendModel(_ context.Context, query bun.Query) error {
	touch(query, &t.CreatedAt, &t.UpdatedAt)
	return nil
}

func (o *SceneObject) BeforeAppendModel(_ context.Context, query bun.Query) error {
	touch(query, &o.CreatedAt, &o.UpdatedAt)
	return nil
}

func (v *Vocabulary) BeforeAppendModel(_ context.Context, query bun.Query) error {
	if v.Examples == nil {
		v.Examples = []string{}
	}
	touch(query, &v.CreatedAt, &v.UpdatedAt)
	return nil
}

func (p *UserVocabulary) BeforeAppendModel(_ context.Context, query bun.Query) error {
	touch(query, &p.CreatedAt, &p.UpdatedAt)
	return nil
}

func touch(query bun.Query, createdAt, updatedAt *time.Time) {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if createdAt.IsZero() {
			*createdAt = now
		}
		*updatedAt = now
	case *bun.UpdateQuery:
		*updatedAt = now
	}
}
