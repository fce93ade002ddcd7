package repository

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"shopbot/entity"
	"shopbot/internal/config"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	conf := &config.Config{}
	conf.Database.Path = filepath.Join(t.TempDir(), "test.db")

	s, err := New(conf, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedUser(t *testing.T, s *Storage, userID int64) {
	t.Helper()
	require.NoError(t, s.UpsertUser(context.Background(), entity.NewUser(userID, "tester", "Tester")))
}

func seedCategory(t *testing.T, s *Storage, name string) *entity.Category {
	t.Helper()
	category := &entity.Category{Name: name}
	require.NoError(t, s.AddCategory(context.Background(), category))
	return category
}

func seedProduct(t *testing.T, s *Storage, categoryID uint, name string, price string, quantity int) *entity.Product {
	t.Helper()
	product := &entity.Product{
		CategoryID: categoryID,
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Quantity:   quantity,
	}
	require.NoError(t, s.AddProduct(context.Background(), product))
	return product
}
