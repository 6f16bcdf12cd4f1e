package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBannerEndpoints(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	token := a.staffToken(t)

	rec := a.do(t, http.MethodPost, "/api/banners", token, map[string]interface{}{
		"header": "Скидки", "description": "До 50%", "products": []int64{3, 1, 3},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	banner := decodeBody[domain.Banner](t, rec)
	assert.False(t, banner.IsShow)
	assert.Equal(t, []int64{1, 3}, banner.ProductIDs)

	t.Run("header too long", func(t *testing.T) {
		rec := a.do(t, http.MethodPost, "/api/banners", token, map[string]interface{}{
			"header": strings.Repeat("я", 101), "description": "x",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid header: too large", errorMessage(t, rec))
	})

	t.Run("update without products keeps the set", func(t *testing.T) {
		rec := a.do(t, http.MethodPatch, fmt.Sprintf("/api/banners/%d", banner.ID), token,
			map[string]interface{}{"is_show": true})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		updated := decodeBody[domain.Banner](t, rec)
		assert.True(t, updated.IsShow)
		assert.Equal(t, []int64{1, 3}, updated.ProductIDs)
	})

	t.Run("update with products replaces the set", func(t *testing.T) {
		rec := a.do(t, http.MethodPatch, fmt.Sprintf("/api/banners/%d", banner.ID), token,
			map[string]interface{}{"products": []int64{2}})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, []int64{2}, decodeBody[domain.Banner](t, rec).ProductIDs)

		rec = a.do(t, http.MethodGet, fmt.Sprintf("/api/banners/%d", banner.ID), token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []int64{2}, decodeBody[domain.Banner](t, rec).ProductIDs)
	})

	t.Run("image upload", func(t *testing.T) {
		rec := a.upload(t, fmt.Sprintf("/api/banners/%d/image", banner.ID), token, pngHeader)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, decodeBody[domain.Banner](t, rec).Image, fmt.Sprintf("/banners/%d/", banner.ID))
	})

	rec = a.do(t, http.MethodGet, "/api/banners", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]domain.Banner](t, rec), 1)

	rec = a.do(t, http.MethodDelete, fmt.Sprintf("/api/banners/%d", banner.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = a.do(t, http.MethodGet, fmt.Sprintf("/api/banners/%d", banner.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Banner not found", errorMessage(t, rec))
}
