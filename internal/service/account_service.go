package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/mail"
	"github.com/phrazzld/storefront-api/internal/metrics"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/redact"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/phrazzld/storefront-api/internal/store"
)

const resetCodeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Email    string
	Name     string
	Surname  string
	Password string
}

// AccountService covers registration, sign-in and the password reset flow.
type AccountService interface {
	// Register creates a user. Returns store.ErrEmailExists for a taken email.
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)

	// Login returns a token pair or ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*TokenPair, error)

	// Refresh exchanges a refresh token for a new pair. The presented
	// refresh token is revoked.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)

	// Logout revokes the token described by claims until it expires.
	Logout(ctx context.Context, claims *auth.Claims) error

	// GetUser returns store.ErrUserNotFound for an unknown id.
	GetUser(ctx context.Context, userID int64) (*domain.User, error)

	// ListUsers returns every user. The caller must be staff.
	ListUsers(ctx context.Context, callerID int64) ([]*domain.User, error)

	// RequestPasswordReset issues a new reset code and mails it.
	RequestPasswordReset(ctx context.Context, email string) error

	// VerifyResetCode checks a reset code. alreadyVerified is true when an
	// earlier call succeeded.
	VerifyResetCode(ctx context.Context, email, code string) (alreadyVerified bool, err error)

	// ResetPassword sets a new password after a successful verification.
	ResetPassword(ctx context.Context, email, newPassword string) error
}

// AccountOptions holds the tunables of AccountServiceImpl.
type AccountOptions struct {
	ResetCodeTTL    time.Duration
	ResetCodeLength int
	MailFrom        string
}

// AccountServiceImpl implements AccountService.
type AccountServiceImpl struct {
	users     store.UserStore
	db        store.TxBeginner
	tokens    auth.JWTService
	verifier  auth.PasswordVerifier
	hasher    auth.PasswordHasher
	revoker   auth.TokenRevoker
	mailer    mail.Mailer
	metrics   *metrics.Metrics
	opts      AccountOptions
	logger    *slog.Logger
	now       func() time.Time
	newCodeFn func(n int) (string, error)
}

var _ AccountService = (*AccountServiceImpl)(nil)

// NewAccountService creates an AccountService. m may be nil.
func NewAccountService(
	users store.UserStore,
	db store.TxBeginner,
	tokens auth.JWTService,
	passwords interface {
		auth.PasswordVerifier
		auth.PasswordHasher
	},
	revoker auth.TokenRevoker,
	mailer mail.Mailer,
	m *metrics.Metrics,
	opts AccountOptions,
	logger *slog.Logger,
) *AccountServiceImpl {
	if opts.ResetCodeTTL <= 0 {
		opts.ResetCodeTTL = domain.DefaultResetCodeTTL
	}
	if opts.ResetCodeLength <= 0 {
		opts.ResetCodeLength = domain.DefaultResetCodeLength
	}
	return &AccountServiceImpl{
		users:     users,
		db:        db,
		tokens:    tokens,
		verifier:  passwords,
		hasher:    passwords,
		revoker:   revoker,
		mailer:    mailer,
		metrics:   m,
		opts:      opts,
		logger:    logger.With("component", "account_service"),
		now:       time.Now,
		newCodeFn: randomCode,
	}
}

func (s *AccountServiceImpl) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

// Register implements AccountService.
func (s *AccountServiceImpl) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	user, err := domain.NewUser(in.Email, in.Name, in.Surname, in.Password, s.now())
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(user.Password)
	if err != nil {
		s.log(ctx).ErrorContext(ctx, "failed to hash password", "error", redact.Error(err))
		return nil, NewServiceError("account", "register", err)
	}
	user.HashedPassword = hash
	user.Password = ""

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.log(ctx).DebugContext(ctx, "registration with existing email")
			return nil, err
		}
		return nil, NewServiceError("account", "register", err)
	}

	s.log(ctx).InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login implements AccountService.
func (s *AccountServiceImpl) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if store.IsNotFoundError(err) {
			s.log(ctx).DebugContext(ctx, "login for unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, NewServiceError("account", "login", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		s.log(ctx).DebugContext(ctx, "login with wrong password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	return s.issuePair(ctx, user.ID)
}

func (s *AccountServiceImpl) issuePair(ctx context.Context, userID int64) (*TokenPair, error) {
	access, err := s.tokens.GenerateToken(ctx, userID)
	if err != nil {
		return nil, NewServiceError("account", "issue_token", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(ctx, userID)
	if err != nil {
		return nil, NewServiceError("account", "issue_token", err)
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    s.now().Add(s.tokens.AccessTokenLifetime()).UTC(),
	}, nil
}

// Refresh implements AccountService.
func (s *AccountServiceImpl) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, NewServiceError("account", "refresh", err)
	}
	if revoked {
		return nil, auth.ErrTokenRevoked
	}

	if _, err := s.users.GetByID(ctx, claims.UserID); err != nil {
		if store.IsNotFoundError(err) {
			return nil, auth.ErrInvalidToken
		}
		return nil, NewServiceError("account", "refresh", err)
	}

	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt); err != nil {
		return nil, NewServiceError("account", "refresh", err)
	}
	return s.issuePair(ctx, claims.UserID)
}

// Logout implements AccountService.
func (s *AccountServiceImpl) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return auth.ErrInvalidToken
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt); err != nil {
		return NewServiceError("account", "logout", err)
	}
	s.log(ctx).InfoContext(ctx, "user logged out", "user_id", claims.UserID)
	return nil
}

// GetUser implements AccountService.
func (s *AccountServiceImpl) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

// ListUsers implements AccountService.
func (s *AccountServiceImpl) ListUsers(ctx context.Context, callerID int64) ([]*domain.User, error) {
	caller, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve caller: %w", err)
	}
	if !caller.IsStaff {
		return nil, ErrForbidden
	}
	return s.users.List(ctx)
}

// RequestPasswordReset implements AccountService.
func (s *AccountServiceImpl) RequestPasswordReset(ctx context.Context, email string) error {
	code, err := s.newCodeFn(s.opts.ResetCodeLength)
	if err != nil {
		return NewServiceError("account", "request_reset", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)
		user, err := users.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if err := user.StartReset(code, s.opts.ResetCodeTTL, s.now()); err != nil {
			return err
		}
		return users.Update(ctx, user)
	})
	if err != nil {
		return fmt.Errorf("failed to start password reset: %w", err)
	}
	s.metrics.ResetEvent(metrics.ResetRequested)

	minutes := int(s.opts.ResetCodeTTL / time.Minute)
	msg := mail.Message{
		Subject: "Сброс пароля",
		Body:    fmt.Sprintf("Ваш код для сброса пароля: %s. Он действителен в течение %d минут.", code, minutes),
		From:    s.opts.MailFrom,
		To:      []string{email},
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log(ctx).ErrorContext(ctx, "failed to send reset code", "error", redact.Error(err))
		return fmt.Errorf("failed to send reset code: %w", err)
	}

	s.log(ctx).InfoContext(ctx, "password reset requested")
	return nil
}

// VerifyResetCode implements AccountService.
func (s *AccountServiceImpl) VerifyResetCode(ctx context.Context, email, code string) (bool, error) {
	var alreadyVerified bool
	var verifyErr error

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)
		user, err := users.GetByEmail(ctx, email)
		if err != nil {
			return err
		}

		alreadyVerified, verifyErr = user.VerifyResetCode(code, s.now())
		switch {
		case alreadyVerified:
			return nil
		case errors.Is(verifyErr, domain.ErrResetCodeExpired):
			// the cleared state must be saved
		case verifyErr != nil:
			return nil
		}
		return users.Update(ctx, user)
	})
	if err != nil {
		return false, fmt.Errorf("failed to verify reset code: %w", err)
	}

	switch {
	case errors.Is(verifyErr, domain.ErrResetCodeExpired):
		s.metrics.ResetEvent(metrics.ResetExpired)
		return false, verifyErr
	case verifyErr != nil:
		s.metrics.ResetEvent(metrics.ResetInvalid)
		return false, verifyErr
	case !alreadyVerified:
		s.metrics.ResetEvent(metrics.ResetVerified)
	}
	return alreadyVerified, nil
}

// ResetPassword implements AccountService.
func (s *AccountServiceImpl) ResetPassword(ctx context.Context, email, newPassword string) error {
	if err := domain.ValidatePassword(newPassword); err != nil {
		return err
	}

	var resetErr error
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)
		user, err := users.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if user.ResetState() != domain.ResetVerified {
			resetErr = domain.ErrResetNotVerified
			return nil
		}

		hash, err := s.hasher.Hash(newPassword)
		if err != nil {
			return err
		}

		resetErr = user.CompleteReset(hash, s.now())
		if resetErr != nil && !errors.Is(resetErr, domain.ErrResetCodeExpired) {
			return nil
		}
		return users.Update(ctx, user)
	})
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	if resetErr != nil {
		if errors.Is(resetErr, domain.ErrResetCodeExpired) {
			s.metrics.ResetEvent(metrics.ResetExpired)
		}
		return resetErr
	}

	s.metrics.ResetEvent(metrics.ResetCompleted)
	s.log(ctx).InfoContext(ctx, "password reset completed")
	return nil
}

func randomCode(n int) (string, error) {
	limit := big.NewInt(int64(len(resetCodeAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to generate reset code: %w", err)
		}
		b[i] = resetCodeAlphabet[idx.Int64()]
	}
	return string(b), nil
}
