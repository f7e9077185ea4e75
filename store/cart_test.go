package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/models"
)

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	s := &CartStore{}

	for _, quantity := range []int{0, -1, -10} {
		err := s.AddItem(context.Background(), "session", models.CartItem{
			ProductID: primitive.NewObjectID(),
			Quantity:  quantity,
		})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	}
}

func TestMergeItemAddsQuantityForExistingProduct(t *testing.T) {
	productX := primitive.NewObjectID()
	items := []models.CartItem{
		{ProductID: productX, Quantity: 3, PriceAtAdd: 500},
	}

	merged := mergeItem(items, models.CartItem{ProductID: productX, Quantity: 2, PriceAtAdd: 600})

	// Repeat add of the same product: one entry, quantities added, the
	// original price snapshot kept.
	require.Len(t, merged, 1)
	assert.Equal(t, 5, merged[0].Quantity)
	assert.Equal(t, int64(500), merged[0].PriceAtAdd)
}

func TestMergeItemAppendsNewProduct(t *testing.T) {
	productX := primitive.NewObjectID()
	productY := primitive.NewObjectID()
	items := []models.CartItem{
		{ProductID: productX, Quantity: 1, PriceAtAdd: 500},
	}

	merged := mergeItem(items, models.CartItem{ProductID: productY, Quantity: 2, PriceAtAdd: 1200})

	require.Len(t, merged, 2)
	assert.Equal(t, productX, merged[0].ProductID)
	assert.Equal(t, productY, merged[1].ProductID)
}

func TestMergeItemKeepsInsertionOrder(t *testing.T) {
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()
	third := primitive.NewObjectID()

	var items []models.CartItem
	for _, id := range []primitive.ObjectID{first, second, third} {
		items = mergeItem(items, models.CartItem{ProductID: id, Quantity: 1})
	}
	items = mergeItem(items, models.CartItem{ProductID: first, Quantity: 1})

	require.Len(t, items, 3)
	assert.Equal(t, first, items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, second, items[1].ProductID)
	assert.Equal(t, third, items[2].ProductID)
}
