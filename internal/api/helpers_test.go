package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/storefront-api/internal/api/middleware"
	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/metrics"
	"github.com/phrazzld/storefront-api/internal/mocks"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// pngHeader is enough for http.DetectContentType to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

// testAPI is the full /api route tree backed by real services over
// in-memory stores.
type testAPI struct {
	router     http.Handler
	users      *mocks.MockUserStore
	categories *mocks.MockCategoryStore
	products   *mocks.MockProductStore
	storages   *mocks.MockStorageStore
	stock      *mocks.MockProductStorageStore
	orders     *mocks.MockOrderStore
	lines      *mocks.MockOrderedProductStore
	banners    *mocks.MockBannerStore
	mailer     *mocks.MockMailer
	images     *mocks.MockImageStore
	generator  *mocks.MockGenerator
	tokens     auth.JWTService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	tokens, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   "test-secret-that-is-at-least-32-characters",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
	})
	require.NoError(t, err)

	db := mocks.NewTxDB()
	t.Cleanup(func() { _ = db.Close() })

	a := &testAPI{
		users:      mocks.NewMockUserStore(),
		categories: mocks.NewMockCategoryStore(),
		products:   mocks.NewMockProductStore(),
		storages:   mocks.NewMockStorageStore(),
		stock:      mocks.NewMockProductStorageStore(),
		orders:     mocks.NewMockOrderStore(),
		lines:      mocks.NewMockOrderedProductStore(),
		banners:    mocks.NewMockBannerStore(),
		mailer:     &mocks.MockMailer{},
		images:     &mocks.MockImageStore{BaseURL: "http://media.test"},
		generator:  &mocks.MockGenerator{Description: "Отличный товар"},
		tokens:     tokens,
	}

	m := metrics.New()
	revoker := auth.NewMemoryRevoker()
	accounts := service.NewAccountService(
		a.users, db, tokens, &mocks.MockPasswordVerifier{}, revoker, a.mailer, m,
		service.AccountOptions{ResetCodeTTL: 30 * time.Minute, ResetCodeLength: 6, MailFrom: "shop@example.com"},
		testLogger,
	)

	handlers := Handlers{
		Auth: NewAuthHandler(accounts, CookieOptions{Name: "jwt"}, testLogger),
		Catalog: NewCatalogHandler(
			service.NewCatalogService(a.categories, a.products, db, a.generator, a.images, m, testLogger),
			testLogger,
		),
		Inventory: NewInventoryHandler(service.NewInventoryService(a.storages, a.stock, testLogger), testLogger),
		Orders:    NewOrderHandler(service.NewOrderService(a.users, a.orders, a.lines, testLogger), testLogger),
		Banners:   NewBannerHandler(service.NewBannerService(a.banners, db, a.images, testLogger), testLogger),
	}

	authMiddleware := middleware.NewAuthMiddleware(tokens, revoker, "jwt")
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		handlers.Mount(r, authMiddleware.Authenticate)
	})
	a.router = r
	return a
}

// addUser stores a user whose password is "secret".
func (a *testAPI) addUser(email string, staff bool) *domain.User {
	return a.users.Add(&domain.User{
		Email:          email,
		Name:           "Ivan",
		HashedPassword: mocks.HashPrefix + "secret",
		IsStaff:        staff,
	})
}

// tokenFor issues an access token for userID.
func (a *testAPI) tokenFor(t *testing.T, userID int64) string {
	t.Helper()
	token, err := a.tokens.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	return token
}

// staffToken creates a staff user and returns an access token for them.
func (a *testAPI) staffToken(t *testing.T) string {
	t.Helper()
	return a.tokenFor(t, a.addUser("admin@example.com", true).ID)
}

// do sends a request through the router. A string body is sent raw, any
// other non-nil body is JSON encoded.
func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// upload posts data as the "image" field of a multipart form.
func (a *testAPI) upload(t *testing.T, path, token string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(imageFormField, "upload.bin")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[shared.ErrorResponse](t, rec).Error
}
