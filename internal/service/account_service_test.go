package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/mail"
	"github.com/phrazzld/storefront-api/internal/metrics"
	"github.com/phrazzld/storefront-api/internal/mocks"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/phrazzld/storefront-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type accountFixture struct {
	svc     *AccountServiceImpl
	users   *mocks.MockUserStore
	db      *mocks.TxDB
	mailer  *mocks.MockMailer
	revoker *auth.MemoryRevoker
	tokens  auth.JWTService
	clock   time.Time
	codes   []string
}

func newAccountFixture(t *testing.T) *accountFixture {
	t.Helper()

	tokens, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   "test-secret-that-is-at-least-32-characters",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
	})
	require.NoError(t, err)

	f := &accountFixture{
		users:   mocks.NewMockUserStore(),
		db:      mocks.NewTxDB(),
		mailer:  &mocks.MockMailer{},
		revoker: auth.NewMemoryRevoker(),
		tokens:  tokens,
		clock:   time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		codes:   []string{"AAA111", "BBB222", "CCC333"},
	}
	t.Cleanup(func() { _ = f.db.Close() })

	f.svc = NewAccountService(
		f.users, f.db, tokens, &mocks.MockPasswordVerifier{}, f.revoker, f.mailer,
		metrics.New(),
		AccountOptions{ResetCodeTTL: 30 * time.Minute, ResetCodeLength: 6, MailFrom: "shop@example.com"},
		testLogger,
	)
	f.svc.now = func() time.Time { return f.clock }
	f.svc.newCodeFn = func(int) (string, error) {
		code := f.codes[0]
		f.codes = f.codes[1:]
		return code, nil
	}
	return f
}

func (f *accountFixture) register(t *testing.T, email, password string) *domain.User {
	t.Helper()
	u, err := f.svc.Register(context.Background(), RegisterInput{Email: email, Name: "Ivan", Password: password})
	require.NoError(t, err)
	return u
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newAccountFixture(t)

	user := f.register(t, "user@mail.ru", "pass")
	assert.NotZero(t, user.ID)
	assert.Empty(t, user.Password)
	assert.Equal(t, mocks.HashPrefix+"pass", user.HashedPassword)

	pair, err := f.svc.Login(ctx, "user@mail.ru", "pass")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, f.clock.Add(time.Hour), pair.ExpiresAt)

	claims, err := f.tokens.ValidateToken(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = f.svc.Login(ctx, "user@mail.ru", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, "nobody@mail.ru", "pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newAccountFixture(t)
	f.register(t, "user@mail.ru", "pass")

	_, err := f.svc.Register(ctx, RegisterInput{Email: "user@mail.ru", Name: "Ivan", Password: "other"})
	assert.ErrorIs(t, err, store.ErrEmailExists)

	_, err = f.svc.Register(ctx, RegisterInput{Email: "not-an-email", Name: "Ivan", Password: "pass"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.Register(ctx, RegisterInput{Email: "a@mail.ru", Name: "Ivan", Password: "abc"})
	assert.ErrorIs(t, err, domain.ErrPasswordTooShort)

	_, err = f.svc.Register(ctx, RegisterInput{Email: "b@mail.ru", Name: "  ", Password: "pass"})
	assert.ErrorIs(t, err, domain.ErrEmptyName)
}

func TestLoginStoreFailure(t *testing.T) {
	t.Parallel()
	f := newAccountFixture(t)
	boom := errors.New("connection refused")
	f.users.GetByEmailFn = func(context.Context, string) (*domain.User, error) { return nil, boom }

	_, err := f.svc.Login(context.Background(), "user@mail.ru", "pass")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutRevokesToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newAccountFixture(t)
	f.register(t, "user@mail.ru", "pass")

	pair, err := f.svc.Login(ctx, "user@mail.ru", "pass")
	require.NoError(t, err)
	claims, err := f.tokens.ValidateToken(ctx, pair.AccessToken)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, claims))

	revoked, err := f.revoker.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.ErrorIs(t, f.svc.Logout(ctx, &auth.Claims{}), auth.ErrInvalidToken)
}

func TestRefreshRotatesRefreshToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newAccountFixture(t)
	f.register(t, "user@mail.ru", "pass")

	pair, err := f.svc.Login(ctx, "user@mail.ru", "pass")
	require.NoError(t, err)

	next, err := f.svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, next.AccessToken)

	_, err = f.svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)

	_, err = f.svc.Refresh(ctx, pair.AccessToken)
	assert.Error(t, err, "access tokens cannot be used to refresh")
}

func TestListUsersRequiresStaff(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newAccountFixture(t)
	regular := f.register(t, "user@mail.ru", "pass")
	staff := f.users.Add(&domain.User{Email: "admin@mail.ru", HashedPassword: "x", IsStaff: true})

	_, err := f.svc.ListUsers(ctx, regular.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	users, err := f.svc.ListUsers(ctx, staff.ID)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	_, err = f.svc.GetUser(ctx, 999)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestPasswordResetScenario(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newAccountFixture(t)
	user := f.register(t, "user@mail.ru", "pass")

	require.NoError(t, f.svc.RequestPasswordReset(ctx, "user@mail.ru"))

	msg, ok := f.mailer.Last()
	require.True(t, ok)
	assert.Equal(t, []string{"user@mail.ru"}, msg.To)
	assert.Equal(t, "shop@example.com", msg.From)
	assert.Contains(t, msg.Body, "AAA111")

	_, err := f.svc.VerifyResetCode(ctx, "user@mail.ru", "WRONG1")
	assert.ErrorIs(t, err, domain.ErrResetCodeInvalid)

	already, err := f.svc.VerifyResetCode(ctx, "user@mail.ru", "AAA111")
	require.NoError(t, err)
	assert.False(t, already)

	already, err = f.svc.VerifyResetCode(ctx, "user@mail.ru", "AAA111")
	require.NoError(t, err)
	assert.True(t, already, "second verification is idempotent")

	require.NoError(t, f.svc.ResetPassword(ctx, "user@mail.ru", "newpass"))

	stored, _ := f.users.Snapshot(user.ID)
	assert.Equal(t, domain.ResetNone, stored.ResetState())

	_, err = f.svc.Login(ctx, "user@mail.ru", "pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, "user@mail.ru", "newpass")
	assert.NoError(t, err)
}

func TestRequestResetOverwritesPendingCode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newAccountFixture(t)
	f.register(t, "user@mail.ru", "pass")

	require.NoError(t, f.svc.RequestPasswordReset(ctx, "user@mail.ru"))
	require.NoError(t, f.svc.RequestPasswordReset(ctx, "user@mail.ru"))

	_, err := f.svc.VerifyResetCode(ctx, "user@mail.ru", "AAA111")
	assert.ErrorIs(t, err, domain.ErrResetCodeInvalid)

	_, err = f.svc.VerifyResetCode(ctx, "user@mail.ru", "BBB222")
	assert.NoError(t, err)
}

func TestExpiredCodeIsClearedAndPersisted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newAccountFixture(t)
	user := f.register(t, "user@mail.ru", "pass")

	require.NoError(t, f.svc.RequestPasswordReset(ctx, "user@mail.ru"))
	f.clock = f.clock.Add(31 * time.Minute)

	_, err := f.svc.VerifyResetCode(ctx, "user@mail.ru", "AAA111")
	assert.ErrorIs(t, err, domain.ErrResetCodeExpired)

	stored, _ := f.users.Snapshot(user.ID)
	assert.Equal(t, domain.ResetNone, stored.ResetState())
	assert.Nil(t, stored.ResetCodeExpiresAt)
	assert.Zero(t, f.db.Rollbacks(), "clearing an expired code must be committed")
}

func TestResetPasswordRequiresVerification(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newAccountFixture(t)
	f.register(t, "user@mail.ru", "pass")

	assert.ErrorIs(t, f.svc.ResetPassword(ctx, "user@mail.ru", "newpass"), domain.ErrResetNotVerified)

	require.NoError(t, f.svc.RequestPasswordReset(ctx, "user@mail.ru"))
	assert.ErrorIs(t, f.svc.ResetPassword(ctx, "user@mail.ru", "newpass"), domain.ErrResetNotVerified)

	assert.ErrorIs(t, f.svc.ResetPassword(ctx, "user@mail.ru", "ab"), domain.ErrPasswordTooShort)
}

func TestResetPasswordAfterExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newAccountFixture(t)
	user := f.register(t, "user@mail.ru", "pass")

	require.NoError(t, f.svc.RequestPasswordReset(ctx, "user@mail.ru"))
	_, err := f.svc.VerifyResetCode(ctx, "user@mail.ru", "AAA111")
	require.NoError(t, err)

	f.clock = f.clock.Add(time.Hour)
	assert.ErrorIs(t, f.svc.ResetPassword(ctx, "user@mail.ru", "newpass"), domain.ErrResetCodeExpired)

	stored, _ := f.users.Snapshot(user.ID)
	assert.Equal(t, domain.ResetNone, stored.ResetState())
	assert.Equal(t, mocks.HashPrefix+"pass", stored.HashedPassword)
}

func TestResetFlowUnknownUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newAccountFixture(t)

	assert.ErrorIs(t, f.svc.RequestPasswordReset(ctx, "nobody@mail.ru"), store.ErrUserNotFound)
	_, err := f.svc.VerifyResetCode(ctx, "nobody@mail.ru", "AAA111")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	assert.ErrorIs(t, f.svc.ResetPassword(ctx, "nobody@mail.ru", "newpass"), store.ErrUserNotFound)
	assert.Empty(t, f.mailer.Sent())
}

func TestRequestResetMailFailure(t *testing.T) {
	t.Parallel()
	f := newAccountFixture(t)
	f.register(t, "user@mail.ru", "pass")
	f.mailer.Err = mail.ErrSendFailed

	err := f.svc.RequestPasswordReset(context.Background(), "user@mail.ru")
	assert.ErrorIs(t, err, mail.ErrSendFailed)
}

func TestRequestResetWithLogMailerAndNoSender(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tokens, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   "test-secret-that-is-at-least-32-characters",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
	})
	require.NoError(t, err)
	db := mocks.NewTxDB()
	t.Cleanup(func() { _ = db.Close() })

	svc := NewAccountService(
		mocks.NewMockUserStore(), db, tokens, &mocks.MockPasswordVerifier{}, auth.NewMemoryRevoker(),
		mail.NewLogMailer(testLogger), metrics.New(),
		AccountOptions{ResetCodeTTL: 30 * time.Minute, ResetCodeLength: 6, MailFrom: config.MailConfig{}.From},
		testLogger,
	)

	_, err = svc.Register(ctx, RegisterInput{Email: "user@mail.ru", Name: "Ivan", Password: "pass"})
	require.NoError(t, err)
	assert.NoError(t, svc.RequestPasswordReset(ctx, "user@mail.ru"))
}

func TestRandomCode(t *testing.T) {
	t.Parallel()

	code, err := randomCode(6)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, strings.ContainsRune(resetCodeAlphabet, r))
	}
}
