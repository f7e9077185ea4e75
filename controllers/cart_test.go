package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/middleware"
	"storefront/models"
	"storefront/pricing"
	"storefront/store"
)

type memCartStore struct {
	items map[string][]models.CartItem
}

func newMemCartStore() *memCartStore {
	return &memCartStore{items: map[string][]models.CartItem{}}
}

func (m *memCartStore) AddItem(_ context.Context, sessionID string, item models.CartItem) error {
	if item.Quantity < 1 {
		return store.ErrInvalidQuantity
	}
	items := m.items[sessionID]
	for i := range items {
		if items[i].ProductID == item.ProductID {
			items[i].Quantity += item.Quantity
			m.items[sessionID] = items
			return nil
		}
	}
	m.items[sessionID] = append(items, item)
	return nil
}

func (m *memCartStore) RemoveItem(_ context.Context, sessionID string, productID primitive.ObjectID) error {
	items := m.items[sessionID]
	kept := items[:0]
	for _, item := range items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	m.items[sessionID] = kept
	return nil
}

func (m *memCartStore) Entries(_ context.Context, sessionID string) ([]models.CartItem, error) {
	return m.items[sessionID], nil
}

type memCatalog struct {
	products map[primitive.ObjectID]*models.Product
}

func (m *memCatalog) GetByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, store.ErrProductNotFound
	}
	return product, nil
}

var _ pricing.ProductLookup = (*memCatalog)(nil)

func withSession(r *http.Request, sessionID string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.SessionContextKey, sessionID)
	return r.WithContext(ctx)
}

func TestAddToCartMergesQuantities(t *testing.T) {
	productX := primitive.NewObjectID()
	carts := newMemCartStore()
	catalog := &memCatalog{products: map[primitive.ObjectID]*models.Product{
		productX: {ID: productX, Name: "mug", Price: 500},
	}}
	cc := NewCartController(carts, catalog)

	add := func(quantity int) *httptest.ResponseRecorder {
		body := `{"product_id":"` + productX.Hex() + `","quantity":` + strconv.Itoa(quantity) + `}`
		req := withSession(httptest.NewRequest(http.MethodPost, "/cart", strings.NewReader(body)), "sess-1")
		rec := httptest.NewRecorder()
		cc.AddToCart(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, add(3).Code)
	assert.Equal(t, http.StatusOK, add(2).Code)

	items := carts.items["sess-1"]
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, int64(500), items[0].PriceAtAdd)
}

func TestAddToCartRejectsBadQuantity(t *testing.T) {
	productX := primitive.NewObjectID()
	carts := newMemCartStore()
	catalog := &memCatalog{products: map[primitive.ObjectID]*models.Product{
		productX: {ID: productX, Name: "mug", Price: 500},
	}}
	cc := NewCartController(carts, catalog)

	for _, body := range []string{
		`{"product_id":"` + productX.Hex() + `","quantity":0}`,
		`{"product_id":"` + productX.Hex() + `","quantity":-2}`,
		`{"product_id":"` + productX.Hex() + `","quantity":"three"}`,
	} {
		req := withSession(httptest.NewRequest(http.MethodPost, "/cart", strings.NewReader(body)), "sess-1")
		rec := httptest.NewRecorder()
		cc.AddToCart(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Empty(t, carts.items["sess-1"])
}

func TestAddToCartUnknownProduct(t *testing.T) {
	cc := NewCartController(newMemCartStore(), &memCatalog{products: map[primitive.ObjectID]*models.Product{}})

	body := `{"product_id":"` + primitive.NewObjectID().Hex() + `","quantity":1}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/cart", strings.NewReader(body)), "sess-1")
	rec := httptest.NewRecorder()
	cc.AddToCart(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRemoveFromCartIsIdempotent(t *testing.T) {
	carts := newMemCartStore()
	cc := NewCartController(carts, &memCatalog{products: map[primitive.ObjectID]*models.Product{}})

	router := mux.NewRouter()
	router.HandleFunc("/cart/{product_id}", cc.RemoveFromCart).Methods("DELETE")

	req := withSession(httptest.NewRequest(http.MethodDelete, "/cart/"+primitive.NewObjectID().Hex(), nil), "sess-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetCartRendersTotals(t *testing.T) {
	productA := primitive.NewObjectID()
	productB := primitive.NewObjectID()
	carts := newMemCartStore()
	carts.items["sess-1"] = []models.CartItem{
		{ProductID: productA, Quantity: 2, PriceAtAdd: 500},
		{ProductID: productB, Quantity: 1, PriceAtAdd: 1200},
	}
	catalog := &memCatalog{products: map[primitive.ObjectID]*models.Product{
		productA: {ID: productA, Name: "mug", Price: 500},
		productB: {ID: productB, Name: "poster", Price: 1200},
	}}
	cc := NewCartController(carts, catalog)

	req := withSession(httptest.NewRequest(http.MethodGet, "/cart", nil), "sess-1")
	rec := httptest.NewRecorder()
	cc.GetCart(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var summary pricing.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, int64(2200), summary.Total)
	assert.Equal(t, 3, summary.ItemCount)
	assert.Len(t, summary.Lines, 2)
}

func TestGetCartEmptySession(t *testing.T) {
	cc := NewCartController(newMemCartStore(), &memCatalog{products: map[primitive.ObjectID]*models.Product{}})

	req := withSession(httptest.NewRequest(http.MethodGet, "/cart", nil), "fresh-session")
	rec := httptest.NewRecorder()
	cc.GetCart(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var summary pricing.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Zero(t, summary.Total)
	assert.Empty(t, summary.Lines)
}
