package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/redact"
	"github.com/phrazzld/storefront-api/internal/store"
)

const userColumns = `id, email, name, surname, hashed_password, is_staff,
	reset_code, reset_code_expires_at, created_at, updated_at`

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection or transaction managed by the caller.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	return &PostgresUserStore{
		db:     db,
		logger: componentLogger(logger, "user_store"),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{db: tx, logger: s.logger}
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var expiresAt sql.NullTime
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.Surname,
		&u.HashedPassword,
		&u.IsStaff,
		&u.ResetCode,
		&expiresAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		t := expiresAt.Time.UTC()
		u.ResetCodeExpiresAt = &t
	}
	return &u, nil
}

func resetExpiry(u *domain.User) sql.NullTime {
	if u.ResetCodeExpiresAt == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *u.ResetCodeExpiresAt, Valid: true}
}

// Create implements store.UserStore.Create
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if user.HashedPassword == "" {
		return domain.ErrEmptyHashedPassword
	}

	query := `
		INSERT INTO users (email, name, surname, hashed_password, is_staff,
			reset_code, reset_code_expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		user.Email,
		user.Name,
		user.Surname,
		user.HashedPassword,
		user.IsStaff,
		user.ResetCode,
		resetExpiry(user),
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("email already registered")
		} else {
			log.Error("failed to create user", slog.String("error", redact.Error(err)))
		}
		return mapEntityError(err, nil, store.ErrEmailExists)
	}

	// The plaintext password must not outlive persistence.
	user.Password = ""

	log.Info("user created", slog.Int64("user_id", user.ID))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, s.lookupError(ctx, err, slog.Int64("user_id", id))
	}
	return user, nil
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, s.lookupError(ctx, err)
	}
	return user, nil
}

func (s *PostgresUserStore) lookupError(ctx context.Context, err error, attrs ...any) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	mapped := mapEntityError(err, store.ErrUserNotFound, nil)
	if store.IsNotFoundError(mapped) {
		log.Debug("user not found", attrs...)
	} else {
		log.Error("failed to get user", append(attrs, slog.String("error", redact.Error(err)))...)
	}
	return mapped
}

// List implements store.UserStore.List
func (s *PostgresUserStore) List(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list users",
			slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	users := []*domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, MapError(err)
		}
		users = append(users, user)
	}
	return users, MapError(rows.Err())
}

// Update implements store.UserStore.Update
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE users
		SET email = $1, name = $2, surname = $3, hashed_password = $4, is_staff = $5,
			reset_code = $6, reset_code_expires_at = $7, updated_at = $8
		WHERE id = $9
	`
	result, err := s.db.ExecContext(ctx, query,
		user.Email,
		user.Name,
		user.Surname,
		user.HashedPassword,
		user.IsStaff,
		user.ResetCode,
		resetExpiry(user),
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		log.Error("failed to update user",
			slog.Int64("user_id", user.ID),
			slog.String("error", redact.Error(err)))
		return mapEntityError(err, nil, store.ErrEmailExists)
	}

	if err := CheckRowsAffected(result, store.ErrUserNotFound); err != nil {
		return err
	}

	log.Debug("user updated", slog.Int64("user_id", user.ID))
	return nil
}
