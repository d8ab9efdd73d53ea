package repository

import (
	"context"

	"github.com/uptrace/bun"
)

type Themes interface {
	Repository[*Theme]

	GetByName(ctx context.Context, name string) (*Theme, error)
	GetByNameTx(ctx context.Context, tx bun.IDB, name string) (*Theme, error)
}

type themes struct {
	Repository[*Theme]
	db *bun.DB
}

var _ Themes = (*themes)(nil)

func NewThemesRepository(db *bun.DB) Themes {
	return &themes{
		db: db,
		Repository: NewRepository(db, "Theme", serialHandlers(func() *Theme { return &Theme{} })),
	}
}

func (t *themes) GetByName(ctx context.Context, name string) (*Theme, error) {
	return t.GetByNameTx(ctx, t.db, name)
}

func (t *themes) GetByNameTx(ctx context.Context, tx bun.IDB, name string) (*Theme, error) {
	return t.GetTx(ctx, tx, WhereColumn("name", name))
}

type Objects interface {
	Repository[*SceneObject]

	// ListByTheme lists objects, restricted to one theme when themeID is set.
	ListByTheme(ctx context.Context, themeID *int64) ([]*SceneObject, error)
}

type objects struct {
	Repository[*SceneObject]
}

var _ Objects = (*objects)(nil)

func NewObjectsRepository(db *bun.DB) Objects {
	return &objects{
		Repository: NewRepository(db, "Object", serialHandlers(func() *SceneObject { return &SceneObject{} })),
	}
}

func (o *objects) ListByTheme(ctx context.Context, themeID *int64) ([]*SceneObject, error) {
	criteria := []SelectCriteria{OrderByID()}
	if themeID != nil {
		criteria = append(criteria, WhereColumn("theme_id", *themeID))
	}

	records, _, err := o.List(ctx, criteria...)
	return records, err
}
