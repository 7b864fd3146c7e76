package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/autopro/internal/handler"
	"github.com/iliyamo/autopro/internal/middleware"
	"github.com/iliyamo/autopro/internal/model"
)

func (s *testServer) addProduct(t *testing.T, name string, cat model.Category) *model.Product {
	t.Helper()
	p := &model.Product{
		UserID:       "owner",
		Name:         name,
		Image:        "/images/x.jpg",
		Category:     cat,
		Description:  name + " description",
		Price:        100,
		CountInStock: 3,
		Specs:        []model.Spec{{Key: "Battery", Value: "48V"}},
	}
	require.NoError(t, s.stores.Products.Create(context.Background(), p))
	return p
}

func TestProducts_PublicReads(t *testing.T) {
	s := newTestServer(t)
	rickshaw := s.addProduct(t, "Mayuri Pro 500", model.CategoryERickshaw)
	s.addProduct(t, "Ceat Rickshaw Tyre (Set of 2)", model.CategorySparePart)
	s.addProduct(t, "LED Headlight", model.CategoryAccessory)

	t.Run("list all", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/products", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]model.Product](t, rec), 3)
	})

	t.Run("keyword is case-insensitive", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/products?keyword=RICKSHAW", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]model.Product](t, rec), 1)
	})

	t.Run("keyword is matched literally", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/products?keyword=%28Set", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		items := decode[[]model.Product](t, rec)
		require.Len(t, items, 1)
		assert.Equal(t, "Ceat Rickshaw Tyre (Set of 2)", items[0].Name)
	})

	t.Run("no match is an empty list", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/products?keyword=zzz", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("by category", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/products/category/Spare%20Part", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		items := decode[[]model.Product](t, rec)
		require.Len(t, items, 1)
		assert.Equal(t, model.CategorySparePart, items[0].Category)
	})

	t.Run("empty category is 404", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/products/category/Bicycle", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "No products found in category: Bicycle", decode[errBody](t, rec).Message)
	})

	t.Run("by id", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/products/"+rickshaw.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[model.Product](t, rec)
		assert.Equal(t, rickshaw.Name, got.Name)
		assert.Equal(t, rickshaw.Specs, got.Specs)
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/products/does-not-exist", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, handler.MsgProductNotFound, decode[errBody](t, rec).Message)
	})
}

func TestProducts_AdminGate(t *testing.T) {
	s := newTestServer(t)
	_, userCk := s.createUser(t, "user@example.com", false)
	p := s.addProduct(t, "Battery", model.CategorySparePart)

	cases := []struct {
		method, path string
	}{
		{http.MethodPost, "/api/products"},
		{http.MethodPut, "/api/products/" + p.ID},
		{http.MethodDelete, "/api/products/" + p.ID},
	}
	for _, tc := range cases {
		t.Run(tc.method+" without session", func(t *testing.T) {
			rec := s.do(t, tc.method, tc.path, map[string]any{})
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
		t.Run(tc.method+" as customer", func(t *testing.T) {
			rec := s.do(t, tc.method, tc.path, map[string]any{}, userCk)
			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Equal(t, middleware.MsgNotAdmin, decode[errBody](t, rec).Message)
		})
	}

	_, err := s.stores.Products.FindByID(context.Background(), p.ID)
	assert.NoError(t, err, "rejected requests must not touch the store")
}

func TestProducts_CreateSample(t *testing.T) {
	s := newTestServer(t)
	admin, ck := s.createUser(t, "admin@example.com", true)

	rec := s.do(t, http.MethodPost, "/api/products", nil, ck)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	got := decode[model.Product](t, rec)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, admin.ID, got.UserID)
	assert.Equal(t, "Sample Name", got.Name)
	assert.Equal(t, "/images/sample.jpg", got.Image)
	assert.Equal(t, model.CategorySparePart, got.Category)
	assert.Equal(t, "Sample description for a new product", got.Description)
	assert.Zero(t, got.Price)
	assert.Zero(t, got.CountInStock)
	assert.Empty(t, got.Specs)
	assert.Contains(t, rec.Body.String(), `"specs":[]`)
}

func TestProducts_UpdatePartial(t *testing.T) {
	s := newTestServer(t)
	_, ck := s.createUser(t, "admin@example.com", true)
	p := s.addProduct(t, "Old Name", model.CategorySparePart)

	rec := s.do(t, http.MethodPut, "/api/products/"+p.ID, map[string]any{
		"name":  "New Name",
		"price": 0,
	}, ck)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := decode[model.Product](t, rec)
	assert.Equal(t, "New Name", got.Name)
	assert.Zero(t, got.Price)
	assert.Equal(t, p.Description, got.Description, "absent text keeps old value")
	assert.Equal(t, p.CountInStock, got.CountInStock, "absent number keeps old value")
	assert.Equal(t, p.Specs, got.Specs)

	stored, err := s.stores.Products.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Name", stored.Name)
}

func TestProducts_UpdateRoundsPriceToCents(t *testing.T) {
	s := newTestServer(t)
	_, ck := s.createUser(t, "admin@example.com", true)
	p := s.addProduct(t, "Chain Set", model.CategorySparePart)

	rec := s.do(t, http.MethodPut, "/api/products/"+p.ID, map[string]any{"price": 9.999}, ck)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 10.0, decode[model.Product](t, rec).Price)

	rec = s.do(t, http.MethodGet, "/api/products/"+p.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10.0, decode[model.Product](t, rec).Price, "read returns what the write answered")
}

func TestProducts_UpdateValidation(t *testing.T) {
	s := newTestServer(t)
	_, ck := s.createUser(t, "admin@example.com", true)
	p := s.addProduct(t, "Tyre", model.CategorySparePart)

	for name, body := range map[string]map[string]any{
		"bad category":   {"category": "Bicycle"},
		"negative price": {"price": -1},
		"negative stock": {"countInStock": -5},
	} {
		t.Run(name, func(t *testing.T) {
			rec := s.do(t, http.MethodPut, "/api/products/"+p.ID, body, ck)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	rec := s.do(t, http.MethodPut, "/api/products/missing", map[string]any{"name": "x"}, ck)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProducts_Delete(t *testing.T) {
	s := newTestServer(t)
	_, ck := s.createUser(t, "admin@example.com", true)
	p := s.addProduct(t, "Shocker", model.CategorySparePart)

	rec := s.do(t, http.MethodDelete, "/api/products/"+p.ID, nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, handler.MsgProductRemoved, decode[map[string]string](t, rec)["message"])

	rec = s.do(t, http.MethodDelete, "/api/products/"+p.ID, nil, ck)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, handler.MsgProductNotFound, decode[errBody](t, rec).Message)
}
