package service

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/lingoscene/lingoscene-api/repository"
	"github.com/lingoscene/lingoscene-api/schema"
)

type Themes struct {
	repo repository.Manager
}

func NewThemes(repo repository.Manager) *Themes {
	return &Themes{repo: repo}
}

func (s *Themes) Create(ctx context.Context, p *schema.Theme) (*repository.Theme, error) {
	record, _ := themeRecord(p)
	theme, err := s.repo.Themes().Create(ctx, record)
	return theme, themeConflict(err)
}

func (s *Themes) List(ctx context.Context) ([]*repository.Theme, error) {
	themes, _, err := s.repo.Themes().List(ctx, repository.OrderByID())
	return themes, err
}

func (s *Themes) Get(ctx context.Context, id int64) (*repository.Theme, error) {
	return s.repo.Themes().GetByID(ctx, id, repository.WithRelation("Objects"))
}

func (s *Themes) Update(ctx context.Context, id int64, p *schema.Theme) (*repository.Theme, error) {
	record, columns := themeRecord(p)
	record.ID = id
	theme, err := s.repo.Themes().Update(ctx, record, columns...)
	return theme, themeConflict(err)
}

func (s *Themes) Delete(ctx context.Context, id int64) (*repository.Theme, error) {
	return s.repo.Themes().DeleteByID(ctx, id)
}

func themeConflict(err error) error {
	if repository.IsDuplicate(err) {
		return goerrors.Wrap(err, goerrors.CategoryConflict, "Theme with this name already exists").
			WithTextCode("THEME_EXISTS")
	}
	return err
}

// themeRecord maps the set payload fields onto a model and lists the
// columns they touch.
func themeRecord(p *schema.Theme) (*repository.Theme, []string) {
	record := &repository.Theme{}
	var columns []string

	if p.Name != nil {
		record.Name = *p.Name
		columns = append(columns, "name")
	}
	if p.Description != nil {
		record.Description = p.Description
		columns = append(columns, "description")
	}
	if p.ImageURL != nil {
		record.ImageURL = p.ImageURL
		columns = append(columns, "image_url")
	}
	if p.SceneURL != nil {
		record.SceneURL = p.SceneURL
		columns = append(columns, "scene_url")
	}
	if p.SkyboxURL != nil {
		record.SkyboxURL = p.SkyboxURL
		columns = append(columns, "skybox_url")
	}
	if p.Difficulty != nil {
		record.Difficulty = *p.Difficulty
		columns = append(columns, "difficulty")
	}
	if p.IsLocked != nil {
		record.IsLocked = *p.IsLocked
		columns = append(columns, "is_locked")
	}
	if p.RequiredThemeID != nil {
		record.RequiredThemeID = p.RequiredThemeID
		columns = append(columns, "required_theme_id")
	}

	return record, columns
}
