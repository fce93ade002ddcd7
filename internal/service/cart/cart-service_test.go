package cart

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopbot/entity"
)

type stubRepo struct {
	lines map[uint]entity.CartLine
}

func newStubRepo() *stubRepo {
	return &stubRepo{lines: make(map[uint]entity.CartLine)}
}

func (r *stubRepo) GetProduct(context.Context, uint) (*entity.Product, error) { return nil, nil }

func (r *stubRepo) UpsertCartLine(_ context.Context, userID int64, productID uint, quantity int) error {
	r.lines[productID] = entity.CartLine{UserID: userID, ProductID: productID, Quantity: quantity}
	return nil
}

func (r *stubRepo) GetCart(context.Context, int64) ([]entity.CartLine, error) {
	out := make([]entity.CartLine, 0, len(r.lines))
	for _, line := range r.lines {
		out = append(out, line)
	}
	return out, nil
}

func (r *stubRepo) CartLineQuantity(_ context.Context, _ int64, productID uint) (int, error) {
	return r.lines[productID].Quantity, nil
}

func (r *stubRepo) RemoveCartLine(_ context.Context, _ int64, productID uint) error {
	delete(r.lines, productID)
	return nil
}

func (r *stubRepo) ClearCart(context.Context, int64) error {
	r.lines = make(map[uint]entity.CartLine)
	return nil
}

func newTestService(repo Repository) *Service {
	return NewCartService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestGetSummaryTotalsLivePrices(t *testing.T) {
	repo := newStubRepo()
	repo.lines[1] = entity.CartLine{
		ProductID: 1,
		Quantity:  2,
		Product:   entity.Product{ProductID: 1, Price: decimal.RequireFromString("3.50")},
	}
	repo.lines[2] = entity.CartLine{
		ProductID: 2,
		Quantity:  1,
		Product:   entity.Product{ProductID: 2, Price: decimal.RequireFromString("10.00")},
	}

	s := newTestService(repo)

	summary, err := s.GetSummary(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, summary.IsEmpty())
	assert.Equal(t, 3, summary.Count())
	assert.Equal(t, "17", summary.Total.String())
}

func TestGetSummaryEmpty(t *testing.T) {
	s := newTestService(newStubRepo())

	summary, err := s.GetSummary(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, summary.IsEmpty())
	assert.Zero(t, summary.Count())
	assert.True(t, summary.Total.IsZero())
}

func TestAddAndRemoveDelegate(t *testing.T) {
	repo := newStubRepo()
	s := newTestService(repo)
	ctx := context.Background()

	require.NoError(t, s.AddProduct(ctx, 1, 7, 3))

	qty, err := s.Quantity(ctx, 1, 7)
	require.NoError(t, err)
	assert.Equal(t, 3, qty)

	require.NoError(t, s.RemoveProduct(ctx, 1, 7))
	qty, err = s.Quantity(ctx, 1, 7)
	require.NoError(t, err)
	assert.Zero(t, qty)
}
