package hooks

import (
	"context"

	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/actions"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/model"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/query"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/schema"
)

// Collection builds the queries and mutations of one CRUD endpoint.
type Collection[T, C, U any] struct {
	qc  *query.Client
	api actions.Resource[T, C, U]
}

// Patch is the input of an update mutation.
type Patch[U any] struct {
	ID     string
	Fields U
}

func newCollection[T, C, U any](qc *query.Client, api actions.Resource[T, C, U]) Collection[T, C, U] {
	return Collection[T, C, U]{qc: qc, api: api}
}

func (c Collection[T, C, U]) Name() string { return c.api.Name() }

func (c Collection[T, C, U]) List(page schema.Page) *query.Query[[]T] {
	return query.New(c.qc, ListKey(c.api.Name(), page), func(ctx context.Context) ([]T, error) {
		return c.api.List(ctx, page)
	})
}

func (c Collection[T, C, U]) Get(id string) *query.Query[T] {
	return query.New(c.qc, DetailKey(c.api.Name(), id), func(ctx context.Context) (T, error) {
		return c.api.Get(ctx, id)
	})
}

func (c Collection[T, C, U]) Create() *query.Mutation[C, T] {
	return query.NewMutation(c.qc, c.api.Create, func(C, T) []query.Key {
		return invalidationKeys(c.api.Name())
	})
}

func (c Collection[T, C, U]) Update() *query.Mutation[Patch[U], T] {
	return query.NewMutation(c.qc,
		func(ctx context.Context, in Patch[U]) (T, error) {
			return c.api.Update(ctx, in.ID, in.Fields)
		},
		func(Patch[U], T) []query.Key {
			return invalidationKeys(c.api.Name())
		})
}

func (c Collection[T, C, U]) Delete() *query.Mutation[string, model.DeleteResponse] {
	return query.NewMutation(c.qc, c.api.Delete, func(string, model.DeleteResponse) []query.Key {
		return invalidationKeys(c.api.Name())
	})
}
