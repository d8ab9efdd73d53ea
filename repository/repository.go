package repository

import (
	"context"

	grepo "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SelectCriteria customizes a select query
type SelectCriteria = grepo.SelectCriteria

// Repository is the CRUD surface shared by every model store. Errors are
// reported in the categories the HTTP layer renders.
type Repository[T any] interface {
	Get(ctx context.Context, criteria ...SelectCriteria) (T, error)
	GetTx(ctx context.Context, tx bun.IDB, criteria ...SelectCriteria) (T, error)
	GetByID(ctx context.Context, id any, criteria ...SelectCriteria) (T, error)
	GetByIDTx(ctx context.Context, tx bun.IDB, id any, criteria ...SelectCriteria) (T, error)
	List(ctx context.Context, criteria ...SelectCriteria) ([]T, int, error)
	ListTx(ctx context.Context, tx bun.IDB, criteria ...SelectCriteria) ([]T, int, error)
	Create(ctx context.Context, record T) (T, error)
	CreateTx(ctx context.Context, tx bun.IDB, record T) (T, error)
	Update(ctx context.Context, record T, columns ...string) (T, error)
	UpdateTx(ctx context.Context, tx bun.IDB, record T, columns ...string) (T, error)
	DeleteByID(ctx context.Context, id any) (T, error)
	DeleteByIDTx(ctx context.Context, tx bun.IDB, id any) (T, error)
	Validate() error
}

type repo[T any] struct {
	db    *bun.DB
	model string
	base  grepo.Repository[T]
}

var _ Repository[*User] = (*repo[*User])(nil)

// NewRepository returns a repository for T backed by go-repository-bun.
// model is the human readable name used in error messages. Lists are not
// paginated unless the caller passes grepo.SelectPaginate.
func NewRepository[T any](db *bun.DB, model string, handlers grepo.ModelHandlers[T]) Repository[T] {
	return &repo[T]{
		db:    db,
		model: model,
		base:  grepo.NewRepositoryWithConfig(db, handlers, nil),
	}
}

// Validate reports missing handlers or database.
func (r *repo[T]) Validate() error {
	if v, ok := r.base.(grepo.Validator); ok {
		return v.Validate()
	}
	return nil
}

func (r *repo[T]) Get(ctx context.Context, criteria ...SelectCriteria) (T, error) {
	return r.GetTx(ctx, r.db, criteria...)
}

func (r *repo[T]) GetTx(ctx context.Context, tx bun.IDB, criteria ...SelectCriteria) (T, error) {
	record, err := r.base.GetTx(ctx, tx, criteria...)
	if err != nil {
		var zero T
		return zero, mapDBError(err, r.model)
	}
	return record, nil
}

func (r *repo[T]) GetByID(ctx context.Context, id any, criteria ...SelectCriteria) (T, error) {
	return r.GetByIDTx(ctx, r.db, id, criteria...)
}

func (r *repo[T]) GetByIDTx(ctx context.Context, tx bun.IDB, id any, criteria ...SelectCriteria) (T, error) {
	criteria = append([]SelectCriteria{WhereID(id)}, criteria...)
	return r.GetTx(ctx, tx, criteria...)
}

func (r *repo[T]) List(ctx context.Context, criteria ...SelectCriteria) ([]T, int, error) {
	return r.ListTx(ctx, r.db, criteria...)
}

func (r *repo[T]) ListTx(ctx context.Context, tx bun.IDB, criteria ...SelectCriteria) ([]T, int, error) {
	records, total, err := r.base.ListTx(ctx, tx, criteria...)
	if err != nil {
		return nil, 0, mapDBError(err, r.model)
	}
	return records, total, nil
}

func (r *repo[T]) Create(ctx context.Context, record T) (T, error) {
	return r.CreateTx(ctx, r.db, record)
}

// CreateTx inserts record and fills it from the returned row.
func (r *repo[T]) CreateTx(ctx context.Context, tx bun.IDB, record T) (T, error) {
	created, err := r.base.CreateTx(ctx, tx, record)
	if err != nil {
		var zero T
		return zero, mapDBError(err, r.model)
	}
	return created, nil
}

func (r *repo[T]) Update(ctx context.Context, record T, columns ...string) (T, error) {
	return r.UpdateTx(ctx, r.db, record, columns...)
}

// UpdateTx writes the given columns only. An empty column list still
// bumps updated_at so callers get the stored record back.
func (r *repo[T]) UpdateTx(ctx context.Context, tx bun.IDB, record T, columns ...string) (T, error) {
	columns = append(columns, "updated_at")

	updated, err := r.base.UpdateTx(ctx, tx, record, grepo.UpdateColumns(columns...))
	if err != nil {
		var zero T
		return zero, mapDBError(err, r.model)
	}
	return updated, nil
}

func (r *repo[T]) DeleteByID(ctx context.Context, id any) (T, error) {
	return r.DeleteByIDTx(ctx, r.db, id)
}

// DeleteByIDTx removes the record and returns it as it was stored.
func (r *repo[T]) DeleteByIDTx(ctx context.Context, tx bun.IDB, id any) (T, error) {
	var zero T
	record, err := r.GetByIDTx(ctx, tx, id)
	if err != nil {
		return zero, err
	}

	if err := r.base.DeleteTx(ctx, tx, record); err != nil {
		return zero, mapDBError(err, r.model)
	}

	return record, nil
}

// serialHandlers returns handlers for models keyed by an autoincrement
// integer. The uuid hooks are inert so inserts leave the key to the
// database.
func serialHandlers[T any](newRecord func() T) grepo.ModelHandlers[T] {
	return grepo.ModelHandlers[T]{
		NewRecord: newRecord,
		GetID:     func(T) uuid.UUID { return uuid.Nil },
		SetID:     func(T, uuid.UUID) {},
	}
}

// WhereID filters by primary key
func WhereID(id any) SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.id = ?", id)
	}
}

// OrderByID sorts ascending by primary key
func OrderByID() SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("?TableAlias.id ASC")
	}
}

// WithRelation eager loads the named relation
func WithRelation(name string, criteria ...SelectCriteria) SelectCriteria {
	return grepo.SelectRelation(name, criteria...)
}

// WhereColumn filters on column = value
func WhereColumn(column string, value any) SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.? = ?", bun.Ident(column), value)
	}
}
