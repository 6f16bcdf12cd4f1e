package domain

import (
	"crypto/subtle"
	"net/mail"
	"strings"
	"time"
)

const (
	// ResetCodeVerified replaces the reset code once it has been verified.
	ResetCodeVerified = "true_change"

	// DefaultResetCodeTTL is how long a reset code stays usable.
	DefaultResetCodeTTL = 30 * time.Minute

	// DefaultResetCodeLength is the number of characters in a reset code.
	DefaultResetCodeLength = 6

	MinPasswordLength = 4
	MaxPasswordLength = 72 // bcrypt limit
)

// Field validation errors for users.
var (
	ErrEmptyEmail          = NewValidationError("email", "cannot be empty")
	ErrInvalidEmail        = NewValidationError("email", "invalid email format")
	ErrPasswordTooShort    = NewValidationError("password", "must be at least 4 characters long")
	ErrPasswordTooLong     = NewValidationError("password", "must be at most 72 characters long")
	ErrEmptyPassword       = NewValidationError("password", "cannot be empty")
	ErrEmptyName           = NewValidationError("name", "cannot be empty")
	ErrNameTooLong         = NewValidationError("name", "must be at most 255 characters long")
	ErrSurnameTooLong      = NewValidationError("surname", "must be at most 255 characters long")
	ErrEmptyResetCode      = NewValidationError("code", "cannot be empty")
	ErrReservedResetCode   = NewValidationError("code", "is reserved")
	ErrEmptyHashedPassword = NewValidationError("password", "hashed password cannot be empty")
)

// ResetState is the position of a user in the password reset flow.
type ResetState int

const (
	// ResetNone means no reset is in progress.
	ResetNone ResetState = iota
	// ResetPending means a code has been issued and awaits verification.
	ResetPending
	// ResetVerified means the code was verified and a new password may be set.
	ResetVerified
)

// String returns the state name.
func (s ResetState) String() string {
	switch s {
	case ResetPending:
		return "pending"
	case ResetVerified:
		return "verified"
	default:
		return "none"
	}
}

// User is an account that can sign in to the admin panel.
type User struct {
	ID                 int64      `json:"id"`
	Email              string     `json:"email"`
	Name               string     `json:"name"`
	Surname            string     `json:"surname"`
	IsStaff            bool       `json:"is_staff"`
	Password           string     `json:"-"` // plaintext, only set during registration and password changes
	HashedPassword     string     `json:"-"`
	ResetCode          string     `json:"-"`
	ResetCodeExpiresAt *time.Time `json:"-"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// NewUser creates a new User with the given details and plaintext password.
// The caller is responsible for hashing the password before storing the user.
func NewUser(email, name, surname, password string, now time.Time) (*User, error) {
	user := &User{
		Email:     strings.TrimSpace(email),
		Name:      strings.TrimSpace(name),
		Surname:   strings.TrimSpace(surname),
		Password:  password,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.Email == "" {
		return ErrEmptyEmail
	}
	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}
	if u.Name == "" {
		return ErrEmptyName
	}
	if tooLong(u.Name, 255) {
		return ErrNameTooLong
	}
	if tooLong(u.Surname, 255) {
		return ErrSurnameTooLong
	}

	if u.Password != "" {
		return ValidatePassword(u.Password)
	}
	if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

// ValidatePassword checks a plaintext password against the length limits.
func ValidatePassword(password string) error {
	switch {
	case password == "":
		return ErrEmptyPassword
	case len(password) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(password) > MaxPasswordLength:
		return ErrPasswordTooLong
	}
	return nil
}

func validateEmailFormat(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".")
}

// ResetState reports where the user is in the password reset flow.
// Expiry is not considered; it is only checked by VerifyResetCode and
// CompleteReset.
func (u *User) ResetState() ResetState {
	switch u.ResetCode {
	case "":
		return ResetNone
	case ResetCodeVerified:
		return ResetVerified
	default:
		return ResetPending
	}
}

// StartReset issues a new reset code, replacing any code already pending.
func (u *User) StartReset(code string, ttl time.Duration, now time.Time) error {
	if code == "" {
		return ErrEmptyResetCode
	}
	if code == ResetCodeVerified {
		return ErrReservedResetCode
	}

	expiresAt := now.UTC().Add(ttl)
	u.ResetCode = code
	u.ResetCodeExpiresAt = &expiresAt
	u.UpdatedAt = now.UTC()
	return nil
}

// VerifyResetCode checks code against the pending reset code.
//
// It returns alreadyVerified=true without error when the code was verified
// earlier. An expired code moves the user back to ResetNone and returns
// ErrResetCodeExpired; the caller must persist that change. A mismatch
// leaves the user untouched.
func (u *User) VerifyResetCode(code string, now time.Time) (alreadyVerified bool, err error) {
	switch u.ResetState() {
	case ResetVerified:
		return true, nil
	case ResetNone:
		return false, ErrResetCodeInvalid
	}

	if u.resetExpired(now) {
		u.clearReset(now)
		return false, ErrResetCodeExpired
	}

	if subtle.ConstantTimeCompare([]byte(u.ResetCode), []byte(code)) != 1 {
		return false, ErrResetCodeInvalid
	}

	u.ResetCode = ResetCodeVerified
	u.UpdatedAt = now.UTC()
	return false, nil
}

// CompleteReset stores a new password hash once the reset code has been
// verified and returns the user to ResetNone. An expired reset also returns
// the user to ResetNone, with ErrResetCodeExpired.
func (u *User) CompleteReset(hashedPassword string, now time.Time) error {
	if u.ResetState() != ResetVerified {
		return ErrResetNotVerified
	}

	if u.resetExpired(now) {
		u.clearReset(now)
		return ErrResetCodeExpired
	}

	if hashedPassword == "" {
		return ErrEmptyHashedPassword
	}

	u.HashedPassword = hashedPassword
	u.Password = ""
	u.clearReset(now)
	return nil
}

func (u *User) resetExpired(now time.Time) bool {
	return u.ResetCodeExpiresAt == nil || now.After(*u.ResetCodeExpiresAt)
}

func (u *User) clearReset(now time.Time) {
	u.ResetCode = ""
	u.ResetCodeExpiresAt = nil
	u.UpdatedAt = now.UTC()
}
