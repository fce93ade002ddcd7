package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopbot/entity"
)

func TestDeleteCategoryCascades(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	seedUser(t, s, 1)
	cat := seedCategory(t, s, "Gone")
	p := seedProduct(t, s, cat.ID, "Orphan", "1.00", 5)
	require.NoError(t, s.UpsertCartLine(ctx, 1, p.ProductID, 1))

	require.NoError(t, s.DeleteCategory(ctx, cat.ID))

	_, err := s.GetProduct(ctx, p.ProductID)
	require.ErrorIs(t, err, ErrNotFound)

	lines, err := s.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, lines, "cart lines follow their product")

	err = s.DeleteCategory(ctx, cat.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSearchProducts(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	cat := seedCategory(t, s, "Tools")
	seedProduct(t, s, cat.ID, "Hammer", "5.00", 5)
	hex := seedProduct(t, s, cat.ID, "Screwdriver", "3.00", 5)
	require.NoError(t, s.UpdateProductDescription(ctx, hex.ProductID, "hex head"))

	found, err := s.SearchProducts(ctx, "hammer")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Hammer", found[0].Name)

	found, err = s.SearchProducts(ctx, "hex")
	require.NoError(t, err)
	require.Len(t, found, 1, "description is searched too")

	found, err = s.SearchProducts(ctx, "wrench")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestProductsSorted(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	seedUser(t, s, 1)
	cat := seedCategory(t, s, "Tools")
	other := seedCategory(t, s, "Other")
	cheap := seedProduct(t, s, cat.ID, "Zeta", "1.00", 5)
	dear := seedProduct(t, s, cat.ID, "Alpha", "9.00", 5)
	seedProduct(t, s, other.ID, "Stranger", "0.50", 5)

	require.NoError(t, s.AddReview(ctx, &entity.Review{UserID: 1, ProductID: cheap.ProductID, Rating: 5}))

	byPrice, err := s.ProductsSorted(ctx, cat.ID, SortPriceAsc)
	require.NoError(t, err)
	require.Len(t, byPrice, 2, "other categories are excluded")
	assert.Equal(t, "Zeta", byPrice[0].Name)

	byPriceDesc, err := s.ProductsSorted(ctx, cat.ID, SortPriceDesc)
	require.NoError(t, err)
	assert.Equal(t, dear.ProductID, byPriceDesc[0].ProductID)

	byName, err := s.ProductsSorted(ctx, cat.ID, SortName)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", byName[0].Name)

	byRating, err := s.ProductsSorted(ctx, cat.ID, SortRating)
	require.NoError(t, err)
	assert.Equal(t, cheap.ProductID, byRating[0].ProductID)
}

func TestUpdateProductQuantityRejectsNegative(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	cat := seedCategory(t, s, "Tools")
	p := seedProduct(t, s, cat.ID, "Saw", "4.00", 5)

	err := s.UpdateProductQuantity(ctx, p.ProductID, -1)
	require.ErrorIs(t, err, ErrInsufficientStock)

	require.NoError(t, s.UpdateProductQuantity(ctx, p.ProductID, 0))

	got, err := s.GetProduct(ctx, p.ProductID)
	require.NoError(t, err)
	assert.False(t, got.InStock(1))
}
