package warehouses

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/stockroom/stockroom/internal/listing"
	"github.com/stockroom/stockroom/internal/platform/cache"
	"github.com/stockroom/stockroom/internal/platform/db"
	"github.com/stockroom/stockroom/internal/platform/httpx"
	"github.com/stockroom/stockroom/internal/platform/validate"
	"github.com/stockroom/stockroom/internal/testing/dbtest"
)

type countingRepo struct {
	Repository
	optionCalls int
}

func (r *countingRepo) Options(ctx context.Context) ([]Option, error) {
	r.optionCalls++
	return r.Repository.Options(ctx)
}

func newTestService(t *testing.T) (*Service, *countingRepo, *db.Handle) {
	t.Helper()
	h := dbtest.SQLite(t)
	registry := listing.NewRegistry()
	registry.MustRegister(Resource, Definition())
	compiler := listing.NewCompiler(registry, listing.SQLite)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := &countingRepo{Repository: NewRepository(h.DB)}
	svc, err := NewService(repo, compiler, validate.New(), cache.NewVersioned(client, "warehouses", time.Minute), listing.DefaultPerPage)
	require.NoError(t, err)
	return svc, repo, h
}

func TestNewServiceRequiresRegistration(t *testing.T) {
	compiler := listing.NewCompiler(listing.NewRegistry(), listing.SQLite)
	_, err := NewService(nil, compiler, validate.New(), nil, 10)
	var cfgErr *listing.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestWarehouseCRUD(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, Input{Name: "  Gudang Utara "})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, "Gudang Utara", created.Name)

	updated, err := svc.Update(ctx, created.ID, Input{Name: "Gudang Selatan"})
	require.NoError(t, err)
	require.Equal(t, "Gudang Selatan", updated.Name)
	require.Zero(t, updated.ProductsCount)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, httpx.ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, created.ID), httpx.ErrNotFound)
}

func TestWarehouseValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), Input{Name: "   "})
	var verr *httpx.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "is required", verr.Fields["name"])

	_, err = svc.Update(context.Background(), 0, Input{Name: "x"})
	require.ErrorIs(t, err, httpx.ErrBadRequest)
}

func TestWarehouseListFiltersAndCounts(t *testing.T) {
	svc, _, h := newTestService(t)
	dbtest.Exec(t, h,
		`INSERT INTO warehouses (id, name, created_at, updated_at) VALUES
			(1, 'Bandung', '2024-02-01 10:00:00', '2024-02-01 10:00:00'),
			(2, 'Jakarta', '2024-02-02 10:00:00', '2024-02-02 10:00:00'),
			(3, 'Surabaya', '2024-02-02 11:00:00', '2024-02-02 11:00:00')`,
		`INSERT INTO products (id, title, weight, dimensions, color, created_at, updated_at) VALUES
			(1, 'Anvil', 1, '1x1x1', 'black', '2024-02-01 10:00:00', '2024-02-01 10:00:00'),
			(2, 'Bolt', 1, '1x1x1', 'grey', '2024-02-01 10:00:00', '2024-02-01 10:00:00')`,
		`INSERT INTO product_warehouse (product_id, warehouse_id, quantity, created_at, updated_at) VALUES
			(1, 2, 4, '2024-02-03 10:00:00', '2024-02-03 10:00:00'),
			(2, 2, 9, '2024-02-03 10:00:00', '2024-02-03 10:00:00'),
			(1, 3, 1, '2024-02-03 10:00:00', '2024-02-03 10:00:00')`,
	)
	ctx := context.Background()

	page, err := svc.List(ctx, listing.QueryRequest{Sort: "-products_count"}, 1)
	require.NoError(t, err)
	require.Equal(t, 3, page.Total)
	require.Equal(t, "Jakarta", page.Items[0].Name)
	require.Equal(t, int64(2), page.Items[0].ProductsCount)

	page, err = svc.List(ctx, listing.QueryRequest{Filters: map[string]string{"products_count": "1"}}, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, "Surabaya", page.Items[0].Name)

	page, err = svc.List(ctx, listing.QueryRequest{Filters: map[string]string{"created_on": "2024-02-02", "name": "JAK"}}, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, int64(2), page.Items[0].ID)
}

func TestOptionsAreCachedUntilWrite(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, Input{Name: "Makassar"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, Input{Name: "Denpasar"})
	require.NoError(t, err)

	first, err := svc.Options(ctx)
	require.NoError(t, err)
	second, err := svc.Options(ctx)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, repo.optionCalls)
	require.Equal(t, "Denpasar", first[0].Name)

	_, err = svc.Create(ctx, Input{Name: "Aceh"})
	require.NoError(t, err)
	third, err := svc.Options(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, repo.optionCalls)
	require.Len(t, third, 3)
	require.Equal(t, "Aceh", third[0].Name)
}
