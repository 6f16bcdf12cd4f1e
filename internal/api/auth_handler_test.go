package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var resetCodePattern = regexp.MustCompile(`: ([A-Za-z0-9]+)\.`)

// mailedCode extracts the reset code from the last sent message.
func mailedCode(t *testing.T, a *testAPI) string {
	t.Helper()
	msg, ok := a.mailer.Last()
	require.True(t, ok, "no message sent")
	match := resetCodePattern.FindStringSubmatch(msg.Body)
	require.Len(t, match, 2, msg.Body)
	return match[1]
}

func TestRegister(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		payload     interface{}
		wantStatus  int
		wantMessage string
	}{
		{
			name:       "valid registration",
			payload:    map[string]interface{}{"email": "new@example.com", "name": "Ivan", "password": "pass"},
			wantStatus: http.StatusCreated,
		},
		{
			name:        "duplicate email",
			payload:     map[string]interface{}{"email": "taken@example.com", "name": "Ivan", "password": "pass"},
			wantStatus:  http.StatusConflict,
			wantMessage: "Email already exists",
		},
		{
			name:        "invalid email",
			payload:     map[string]interface{}{"email": "not-an-email", "name": "Ivan", "password": "pass"},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid email: invalid email format",
		},
		{
			name:        "password too short",
			payload:     map[string]interface{}{"email": "short@example.com", "name": "Ivan", "password": "abc"},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid password: too small",
		},
		{
			name:        "missing password",
			payload:     map[string]interface{}{"email": "nopass@example.com", "name": "Ivan"},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid password: required field",
		},
		{
			name: "staff flag rejected",
			payload: map[string]interface{}{
				"email": "sneaky@example.com", "name": "Ivan", "password": "pass", "is_staff": true,
			},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid request format",
		},
		{
			name:        "missing name",
			payload:     map[string]interface{}{"email": "noname@example.com", "password": "pass"},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid name: required field",
		},
		{
			name:        "blank name",
			payload:     map[string]interface{}{"email": "blank@example.com", "name": "   ", "password": "pass"},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid name: cannot be empty",
		},
		{
			name:        "empty body",
			payload:     "",
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Request body is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := newTestAPI(t)
			a.addUser("taken@example.com", false)

			rec := a.do(t, http.MethodPost, "/api/auth/register", "", tt.payload)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, errorMessage(t, rec))
				return
			}
			user := decodeBody[map[string]interface{}](t, rec)
			assert.Equal(t, "new@example.com", user["email"])
			assert.Equal(t, false, user["is_staff"])
			assert.NotContains(t, rec.Body.String(), "password")
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	a.addUser("user@mail.ru", false)

	t.Run("success sets cookie", func(t *testing.T) {
		rec := a.do(t, http.MethodPost, "/api/auth/login", "",
			map[string]string{"email": "user@mail.ru", "password": "secret"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		resp := decodeBody[AuthResponse](t, rec)
		assert.NotEmpty(t, resp.Token)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.NotEmpty(t, resp.ExpiresAt)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "jwt", cookies[0].Name)
		assert.Equal(t, resp.Token, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
	})

	for _, payload := range []map[string]string{
		{"email": "user@mail.ru", "password": "wrong"},
		{"email": "nobody@mail.ru", "password": "secret"},
	} {
		rec := a.do(t, http.MethodPost, "/api/auth/login", "", payload)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid email or password", errorMessage(t, rec))
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)

	rec := a.do(t, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authorization required", errorMessage(t, rec))

	rec = a.do(t, http.MethodGet, "/api/products", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token", errorMessage(t, rec))
}

func TestCookieAuthentication(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	user := a.addUser("user@mail.ru", false)

	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: a.tokenFor(t, user.ID)})
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "user@mail.ru", decodeBody[map[string]interface{}](t, rec)["email"])
}

func TestLogoutRevokesToken(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	user := a.addUser("user@mail.ru", false)
	token := a.tokenFor(t, user.ID)

	rec := a.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "success", decodeBody[MessageResponse](t, rec).Message)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)

	rec = a.do(t, http.MethodGet, "/api/user", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token revoked", errorMessage(t, rec))
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	a.addUser("user@mail.ru", false)

	rec := a.do(t, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "user@mail.ru", "password": "secret"})
	require.Equal(t, http.StatusOK, rec.Code)
	login := decodeBody[AuthResponse](t, rec)

	rec = a.do(t, http.MethodPost, "/api/auth/refresh", "",
		map[string]string{"refresh_token": login.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	refreshed := decodeBody[AuthResponse](t, rec)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	rec = a.do(t, http.MethodGet, "/api/user", refreshed.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	t.Run("refresh token is single use", func(t *testing.T) {
		rec := a.do(t, http.MethodPost, "/api/auth/refresh", "",
			map[string]string{"refresh_token": login.RefreshToken})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		rec := a.do(t, http.MethodPost, "/api/auth/refresh", "",
			map[string]string{"refresh_token": login.Token})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestUsers(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	customer := a.addUser("user@mail.ru", false)
	staff := a.staffToken(t)

	rec := a.do(t, http.MethodGet, "/api/user", a.tokenFor(t, customer.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user@mail.ru", decodeBody[map[string]interface{}](t, rec)["email"])

	rec = a.do(t, http.MethodGet, "/api/users", a.tokenFor(t, customer.ID), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Staff access required", errorMessage(t, rec))

	rec = a.do(t, http.MethodGet, "/api/users", staff, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]domain.User](t, rec), 2)
}

func TestPasswordResetFlow(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	const email = "user@mail.ru"

	rec := a.do(t, http.MethodPost, "/api/auth/register", "",
		map[string]string{"email": email, "name": "Ivan", "password": "pass"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": "pass"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/auth/password-reset", "", map[string]string{"email": email})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	code := mailedCode(t, a)
	assert.Len(t, code, domain.DefaultResetCodeLength)

	rec = a.do(t, http.MethodPost, "/api/auth/password-reset/verify", "",
		map[string]string{"email": email, "code": "WRONG1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid reset code", errorMessage(t, rec))

	rec = a.do(t, http.MethodPost, "/api/auth/password-reset/verify", "",
		map[string]string{"email": email, "code": code})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, VerifyResetCodeResponse{Message: "verified"}, decodeBody[VerifyResetCodeResponse](t, rec))

	rec = a.do(t, http.MethodPost, "/api/auth/password-reset/verify", "",
		map[string]string{"email": email, "code": code})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, VerifyResetCodeResponse{Message: "already verified", AlreadyVerified: true},
		decodeBody[VerifyResetCodeResponse](t, rec))

	rec = a.do(t, http.MethodPost, "/api/auth/password-reset/confirm", "",
		map[string]string{"email": email, "password": "newpass"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "password changed", decodeBody[MessageResponse](t, rec).Message)

	rec = a.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": "pass"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = a.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": "newpass"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPasswordResetErrors(t *testing.T) {
	t.Parallel()

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()
		a := newTestAPI(t)

		rec := a.do(t, http.MethodPost, "/api/auth/password-reset", "", map[string]string{"email": "ghost@mail.ru"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "User not found", errorMessage(t, rec))
	})

	t.Run("confirm without verification", func(t *testing.T) {
		t.Parallel()
		a := newTestAPI(t)
		a.addUser("user@mail.ru", false)

		rec := a.do(t, http.MethodPost, "/api/auth/password-reset/confirm", "",
			map[string]string{"email": "user@mail.ru", "password": "newpass"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Reset code not verified", errorMessage(t, rec))
	})

	t.Run("mail relay failure", func(t *testing.T) {
		t.Parallel()
		a := newTestAPI(t)
		a.addUser("user@mail.ru", false)
		a.mailer.Err = fmt.Errorf("%w: 451 try later", mail.ErrSendFailed)

		rec := a.do(t, http.MethodPost, "/api/auth/password-reset", "", map[string]string{"email": "user@mail.ru"})
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "Failed to send email", errorMessage(t, rec))
		assert.NotContains(t, rec.Body.String(), "451")
	})
}
