// Package credstore implements the credential store the identity service
// talks to: user records with bcrypt password verification, normalized
// lookups, reset tokens, and sign-in session bookkeeping.
package credstore

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"carsapi/internal/common"
	"carsapi/internal/server/models"
	"carsapi/internal/server/repositories/repomanager"
)

// MinPasswordLength is the store's password policy; richer rules belong
// here, not in callers.
const MinPasswordLength = 6

type Store struct {
	db *sql.DB
	rm repomanager.RepositoryManager
}

func New(db *sql.DB, rm repomanager.RepositoryManager) *Store {
	return &Store{db: db, rm: rm}
}

// NormalizeEmail maps an email to its canonical uppercase form used for
// the uniqueness constraint and lookups.
func NormalizeEmail(email string) string {
	return strings.ToUpper(strings.TrimSpace(email))
}

// NormalizeUserName maps a username to its canonical lowercase form.
// Usernames are stored normalized, so lookups stay case-insensitive.
func NormalizeUserName(userName string) string {
	return strings.ToLower(strings.TrimSpace(userName))
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return common.WithDetails(common.ErrValidation,
			fmt.Sprintf("password: must be at least %d characters", MinPasswordLength))
	}
	return nil
}

// Create hashes the password and stores the user with normalized username
// and email. Uniqueness conflicts surface as the duplicate error with
// per-field detail.
func (s *Store) Create(ctx context.Context, user *models.User, password string) (*models.User, error) {
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user.UserName = NormalizeUserName(user.UserName)
	user.NormalizedEmail = NormalizeEmail(user.Email)
	user.PasswordHash = string(hash)

	return s.rm.Users(s.db).Create(ctx, user)
}

func (s *Store) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.rm.Users(s.db).GetByID(ctx, id)
}

func (s *Store) FindByNormalizedEmail(ctx context.Context, email string) (*models.User, error) {
	return s.rm.Users(s.db).GetByNormalizedEmail(ctx, NormalizeEmail(email))
}

func (s *Store) FindByUserName(ctx context.Context, userName string) (*models.User, error) {
	return s.rm.Users(s.db).GetByUserName(ctx, NormalizeUserName(userName))
}

func (s *Store) List(ctx context.Context) ([]*models.User, error) {
	return s.rm.Users(s.db).List(ctx)
}

// Update persists profile fields, renormalizing username and email.
// The password hash is not touched; see ChangePassword / ResetPassword.
func (s *Store) Update(ctx context.Context, user *models.User) error {
	user.UserName = NormalizeUserName(user.UserName)
	user.NormalizedEmail = NormalizeEmail(user.Email)
	return s.rm.Users(s.db).Update(ctx, user)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.rm.Users(s.db).Delete(ctx, id)
}

// VerifyPassword reports whether the password matches the user's stored
// hash.
func (s *Store) VerifyPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// ChangePassword verifies the old password before accepting the new one.
func (s *Store) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.VerifyPassword(user, oldPassword) {
		return common.ErrInvalidCredentials
	}
	return s.setPassword(ctx, id, newPassword)
}

// GeneratePasswordResetToken derives a token from the user's current
// password hash, so any password change invalidates it.
func (s *Store) GeneratePasswordResetToken(ctx context.Context, id string) (string, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	return resetToken(user), nil
}

// ResetPassword sets a new password given a valid reset token; no old
// password is required.
func (s *Store) ResetPassword(ctx context.Context, id, token, newPassword string) error {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	want := resetToken(user)
	if subtle.ConstantTimeCompare([]byte(token), []byte(want)) != 1 {
		return common.WithDetails(common.ErrValidation, "resetToken: invalid or expired")
	}
	return s.setPassword(ctx, id, newPassword)
}

func (s *Store) setPassword(ctx context.Context, id, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	return s.rm.Users(s.db).UpdatePasswordHash(ctx, id, string(hash))
}

func resetToken(user *models.User) string {
	mac := hmac.New(sha256.New, []byte(user.PasswordHash))
	mac.Write([]byte(user.ID))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignIn records a session for the user.
func (s *Store) SignIn(ctx context.Context, userID string) error {
	_, err := s.rm.Sessions(s.db).Create(ctx, userID)
	return err
}

// SignOut clears the user's sessions. Issued bearer tokens are stateless
// and stay valid until their natural expiry.
func (s *Store) SignOut(ctx context.Context, userID string) error {
	return s.rm.Sessions(s.db).DeleteByUser(ctx, userID)
}
