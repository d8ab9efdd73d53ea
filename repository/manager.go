package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
)

// Manager groups the model repositories over one database handle.
type Manager interface {
	Validate() error
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error
	DB() *bun.DB
	Users() Users
	Themes() Themes
	Objects() Objects
	Vocabularies() Vocabularies
	Progress() Progress
}

type mngr struct {
	db           *bun.DB
	users        Users
	themes       Themes
	objects      Objects
	vocabularies Vocabularies
	progress     Progress
}

var _ Manager = (*mngr)(nil)

func NewManager(db *bun.DB) Manager {
	return &mngr{
		db:           db,
		users:        NewUsersRepository(db),
		themes:       NewThemesRepository(db),
		objects:      NewObjectsRepository(db),
		vocabularies: NewVocabulariesRepository(db),
		progress:     NewProgressRepository(db),
	}
}

func (m *mngr) Validate() error {
	var errs []error
	if m.db == nil {
		errs = append(errs, errors.New("database should be initialized"))
	}
	if m.users == nil {
		errs = append(errs, errors.New("repository users should be initialized"))
	}
	if m.themes == nil {
		errs = append(errs, errors.New("repository themes should be initialized"))
	}
	if m.objects == nil {
		errs = append(errs, errors.New("repository objects should be initialized"))
	}
	if m.vocabularies == nil {
		errs = append(errs, errors.New("repository vocabularies should be initialized"))
	}
	if m.progress == nil {
		errs = append(errs, errors.New("repository progress should be initialized"))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	for _, r := range []interface{ Validate() error }{m.users, m.themes, m.objects, m.vocabularies, m.progress} {
		errs = append(errs, r.Validate())
	}
	return errors.Join(errs...)
}

func (m *mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m *mngr) DB() *bun.DB                { return m.db }
func (m *mngr) Users() Users               { return m.users }
func (m *mngr) Themes() Themes             { return m.themes }
func (m *mngr) Objects() Objects           { return m.objects }
func (m *mngr) Vocabularies() Vocabularies { return m.vocabularies }
func (m *mngr) Progress() Progress         { return m.progress }
