package schema

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Theme is the body for creating or updating a theme
type Theme struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	ImageURL        *string `json:"imageUrl"`
	SceneURL        *string `json:"sceneUrl"`
	SkyboxURL       *string `json:"skyboxUrl"`
	Difficulty      *int    `json:"difficulty"`
	IsLocked        *bool   `json:"isLocked"`
	RequiredThemeID *int64  `json:"requiredThemeId"`

	partial bool
}

func NewThemeCreate() any { return &Theme{} }
func NewThemeUpdate() any { return &Theme{partial: true} }

func (p *Theme) Partial() bool { return p.partial }

func (p *Theme) Normalize() {
	trim(p.Name)
	trim(p.Description)
	if !p.partial && p.IsLocked == nil {
		p.IsLocked = boolPtr(false)
	}
}

func (p *Theme) Validate() error {
	const difficultyMsg = "Theme difficulty must be between 1 and 5"
	return validation.ValidateStruct(p,
		validation.Field(&p.Name,
			presence(p.partial, "Theme name is required"),
			validation.RuneLength(1, 255).Error("Theme name must be at most 255 characters"),
		),
		validation.Field(&p.ImageURL, is.URL.Error("Image URL must be a valid URL")),
		validation.Field(&p.SceneURL, is.URL.Error("Scene URL must be a valid URL")),
		validation.Field(&p.SkyboxURL, is.URL.Error("Skybox URL must be a valid URL")),
		validation.Field(&p.Difficulty, notNil(p.partial, difficultyMsg), between(1, 5, difficultyMsg)),
		validation.Field(&p.RequiredThemeID, positive("Required theme ID must be a positive integer")),
	)
}

// Vector3 is a nested {x,y,z} value. Every axis is required.
type Vector3 struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
	Z *float64 `json:"z"`
}

func NewVector3(x, y, z float64) *Vector3 {
	return &Vector3{X: &x, Y: &y, Z: &z}
}

func (v *Vector3) Validate() error {
	return validation.ValidateStruct(v,
		validation.Field(&v.X, validation.NotNil.Error("x is required")),
		validation.Field(&v.Y, validation.NotNil.Error("y is required")),
		validation.Field(&v.Z, validation.NotNil.Error("z is required")),
	)
}

// Values returns the axes, zero for any axis left unset.
func (v *Vector3) Values() (x, y, z float64) {
	if v == nil {
		return 0, 0, 0
	}
	if v.X != nil {
		x = *v.X
	}
	if v.Y != nil {
		y = *v.Y
	}
	if v.Z != nil {
		z = *v.Z
	}
	return x, y, z
}

const (
	InteractionClick     = "click"
	InteractionHover     = "hover"
	InteractionProximity = "proximity"
)

// Object is the body for creating or updating a scene object
type Object struct {
	Name             *string  `json:"name"`
	ObjectIdentifier *string  `json:"objectIdentifier"`
	ModelURL         *string  `json:"modelUrl"`
	ThumbnailURL     *string  `json:"thumbnailUrl"`
	Position         *Vector3 `json:"position"`
	Rotation         *Vector3 `json:"rotation"`
	Scale            *Vector3 `json:"scale"`
	Interactable     *bool    `json:"interactable"`
	InteractionType  *string  `json:"interactionType"`
	HighlightColor   *string  `json:"highlightColor"`
	ThemeID          *int64   `json:"themeId"`

	partial bool
}

func NewObjectCreate() any { return &Object{} }
func NewObjectUpdate() any { return &Object{partial: true} }

func (p *Object) Partial() bool { return p.partial }

func (p *Object) Normalize() {
	trim(p.Name)
	trim(p.ObjectIdentifier)
	trim(p.InteractionType)

	if p.partial {
		return
	}

	if p.Position == nil {
		p.Position = NewVector3(0, 0, 0)
	}
	if p.Rotation == nil {
		p.Rotation = NewVector3(0, 0, 0)
	}
	if p.Scale == nil {
		p.Scale = NewVector3(1, 1, 1)
	}
	if p.Interactable == nil {
		p.Interactable = boolPtr(true)
	}
	if p.InteractionType == nil {
		p.InteractionType = stringPtr(InteractionClick)
	}
}

func (p *Object) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Name, presence(p.partial, "Object name is required")),
		validation.Field(&p.ObjectIdentifier, presence(p.partial, "Object identifier is required")),
		validation.Field(&p.ModelURL, is.URL.Error("Model URL must be a valid URL")),
		validation.Field(&p.ThumbnailURL, is.URL.Error("Thumbnail URL must be a valid URL")),
		validation.Field(&p.Position),
		validation.Field(&p.Rotation),
		validation.Field(&p.Scale),
		validation.Field(&p.InteractionType,
			validation.NilOrNotEmpty.Error("Interaction type must be one of: click, hover, proximity"),
			validation.In(InteractionClick, InteractionHover, InteractionProximity).
				Error("Interaction type must be one of: click, hover, proximity"),
		),
		validation.Field(&p.HighlightColor,
			validation.Match(hexColorRgx).Error("Highlight color must be a hex color like #RRGGBB"),
		),
		validation.Field(&p.ThemeID,
			notNil(p.partial, "Theme ID is required"),
			positive("Theme ID must be a positive integer"),
		),
	)
}
