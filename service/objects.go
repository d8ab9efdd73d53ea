package service

import (
	"context"

	"github.com/lingoscene/lingoscene-api/repository"
	"github.com/lingoscene/lingoscene-api/schema"
)

type Objects struct {
	repo repository.Manager
}

func NewObjects(repo repository.Manager) *Objects {
	return &Objects{repo: repo}
}

// List returns every object, or only those of one theme.
func (s *Objects) List(ctx context.Context, themeID *int64) ([]*repository.SceneObject, error) {
	return s.repo.Objects().ListByTheme(ctx, themeID)
}

func (s *Objects) Get(ctx context.Context, id int64) (*repository.SceneObject, error) {
	return s.repo.Objects().GetByID(ctx, id,
		repository.WithRelation("Theme"),
		repository.WithRelation("Vocabularies"),
	)
}

func (s *Objects) Create(ctx context.Context, p *schema.Object) (*repository.SceneObject, error) {
	record, _ := objectRecord(p)
	return s.repo.Objects().Create(ctx, record)
}

func (s *Objects) Update(ctx context.Context, id int64, p *schema.Object) (*repository.SceneObject, error) {
	record, columns := objectRecord(p)
	record.ID = id
	return s.repo.Objects().Update(ctx, record, columns...)
}

func (s *Objects) Delete(ctx context.Context, id int64) (*repository.SceneObject, error) {
	return s.repo.Objects().DeleteByID(ctx, id)
}

func vector(v *schema.Vector3) repository.Vector3 {
	x, y, z := v.Values()
	return repository.Vector3{X: x, Y: y, Z: z}
}

func objectRecord(p *schema.Object) (*repository.SceneObject, []string) {
	record := &repository.SceneObject{}
	var columns []string

	if p.Name != nil {
		record.Name = *p.Name
		columns = append(columns, "name")
	}
	if p.ObjectIdentifier != nil {
		record.ObjectIdentifier = *p.ObjectIdentifier
		columns = append(columns, "object_identifier")
	}
	if p.ModelURL != nil {
		record.ModelURL = p.ModelURL
		columns = append(columns, "model_url")
	}
	if p.ThumbnailURL != nil {
		record.ThumbnailURL = p.ThumbnailURL
		columns = append(columns, "thumbnail_url")
	}
	if p.Position != nil {
		record.Position = vector(p.Position)
		columns = append(columns, "position")
	}
	if p.Rotation != nil {
		record.Rotation = vector(p.Rotation)
		columns = append(columns, "rotation")
	}
	if p.Scale != nil {
		record.Scale = vector(p.Scale)
		columns = append(columns, "scale")
	}
	if p.Interactable != nil {
		record.Interactable = *p.Interactable
		columns = append(columns, "interactable")
	}
	if p.InteractionType != nil {
		record.InteractionType = *p.InteractionType
		columns = append(columns, "interaction_type")
	}
	if p.HighlightColor != nil {
		record.HighlightColor = p.HighlightColor
		columns = append(columns, "highlight_color")
	}
	if p.ThemeID != nil {
		record.ThemeID = *p.ThemeID
		columns = append(columns, "theme_id")
	}

	return record, columns
}
