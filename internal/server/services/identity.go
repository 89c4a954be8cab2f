// Package services implements the application operations behind the HTTP
// surface: identity lifecycle, car catalog, and favorites.
package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/mail"
	"strings"

	"carsapi/internal/common"
	"carsapi/internal/logging"
	"carsapi/internal/server/auth"
	"carsapi/internal/server/blob"
	"carsapi/internal/server/credstore"
	"carsapi/internal/server/models"
)

// Principal is the authenticated caller of an operation, as resolved by
// the HTTP middleware. A zero Principal means anonymous.
type Principal struct {
	ID    string
	Roles []models.Role
}

// CredentialStore is the slice of the credential store the identity
// service consumes.
type CredentialStore interface {
	Create(ctx context.Context, user *models.User, password string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByNormalizedEmail(ctx context.Context, email string) (*models.User, error)
	FindByUserName(ctx context.Context, userName string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	VerifyPassword(user *models.User, password string) bool
	ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error
	GeneratePasswordResetToken(ctx context.Context, id string) (string, error)
	ResetPassword(ctx context.Context, id, token, newPassword string) error
	SignIn(ctx context.Context, userID string) error
	SignOut(ctx context.Context, userID string) error
}

// TokenIssuer mints bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(user *models.User) (string, error)
}

// RegisterRequest carries the registration form. Picture is optional.
type RegisterRequest struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
	Picture     *blob.File
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token   string
	User    *models.User
	Message string
}

type IdentityService struct {
	creds  CredentialStore
	issuer TokenIssuer
	blobs  blob.Store
	logger logging.Logger

	// usernameSuffix resolves username collisions on email change.
	// Injectable so tests can pin the value.
	usernameSuffix func() int
}

func NewIdentityService(creds CredentialStore, issuer TokenIssuer, blobs blob.Store, logger logging.Logger) *IdentityService {
	return &IdentityService{
		creds:  creds,
		issuer: issuer,
		blobs:  blobs,
		logger: logger,
		usernameSuffix: func() int {
			return rand.IntN(9000) + 1000
		},
	}
}

// usernameFromEmail derives the username from the email local part.
func usernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

func validEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

// storeErr maps unexpected store failures to the operation-failed class;
// known sentinels pass through untouched.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{
		common.ErrNotFound, common.ErrValidation, common.ErrDuplicate,
		common.ErrInvalidCredentials,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", common.ErrOperationFailed, err)
}

// Register creates an identity from the registration form, uploads the
// optional profile picture, and signs the new user in.
func (s *IdentityService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	var details []string
	if !validEmail(req.Email) {
		details = append(details, "email: invalid format")
	}
	if strings.TrimSpace(req.FirstName) == "" {
		details = append(details, "firstName: required")
	}
	if strings.TrimSpace(req.LastName) == "" {
		details = append(details, "lastName: required")
	}
	if len(req.Password) < credstore.MinPasswordLength {
		details = append(details, fmt.Sprintf("password: must be at least %d characters", credstore.MinPasswordLength))
	}
	if len(details) > 0 {
		return nil, common.WithDetails(common.ErrValidation, details...)
	}

	// Picture upload failures degrade to no picture.
	pictureURL := ""
	if req.Picture != nil {
		path, err := s.blobs.Upload(ctx, *req.Picture, "profiles")
		if err != nil {
			s.logger.Warn(ctx, "profile picture upload failed", "error", err)
		} else {
			pictureURL = path
		}
	}

	user := &models.User{
		UserName:          usernameFromEmail(req.Email),
		Email:             req.Email,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		PhoneNumber:       req.PhoneNumber,
		ProfilePictureURL: pictureURL,
	}

	user, err := s.creds.Create(ctx, user, req.Password)
	if err != nil {
		return nil, storeErr(err)
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		Token:   token,
		User:    user,
		Message: fmt.Sprintf("user %s registered", user.ID),
	}, nil
}

// Login authenticates by email or username. Unknown identifier and wrong
// password produce the identical error.
func (s *IdentityService) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	var user *models.User
	var err error
	if strings.Contains(identifier, "@") {
		user, err = s.creds.FindByNormalizedEmail(ctx, identifier)
	} else {
		user, err = s.creds.FindByUserName(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, storeErr(err)
	}

	if !s.creds.VerifyPassword(user, password) {
		return nil, common.ErrInvalidCredentials
	}

	if err := s.creds.SignIn(ctx, user.ID); err != nil {
		return nil, storeErr(err)
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: token, User: user, Message: "login successful"}, nil
}

// Logout clears the caller's session state. Issued tokens stay valid
// until expiry.
func (s *IdentityService) Logout(ctx context.Context, acting Principal) error {
	if acting.ID == "" {
		return common.ErrUnauthenticated
	}
	return storeErr(s.creds.SignOut(ctx, acting.ID))
}

// UpdateEmail changes the target's email and re-derives the username from
// the new local part, suffixing it once on collision.
func (s *IdentityService) UpdateEmail(ctx context.Context, targetID, newEmail string, acting Principal) (*models.User, error) {
	user, err := s.creds.FindByID(ctx, targetID)
	if err != nil {
		return nil, storeErr(err)
	}
	if !auth.CanModify(acting.ID, acting.Roles, targetID) {
		return nil, common.ErrForbidden
	}
	if !validEmail(newEmail) {
		return nil, common.WithDetails(common.ErrValidation, "email: invalid format")
	}

	userName := usernameFromEmail(newEmail)
	existing, err := s.creds.FindByUserName(ctx, userName)
	switch {
	case err == nil && existing.ID != targetID:
		userName = fmt.Sprintf("%s%d", userName, s.usernameSuffix())
	case err != nil && !errors.Is(err, common.ErrNotFound):
		return nil, storeErr(err)
	}

	user.Email = newEmail
	user.UserName = userName
	if err := s.creds.Update(ctx, user); err != nil {
		return nil, storeErr(err)
	}
	return user, nil
}

// UpdatePassword changes the target's password. Administrators reset via
// a reset token without the old password; everyone else must present it.
func (s *IdentityService) UpdatePassword(ctx context.Context, targetID, oldPassword, newPassword string, acting Principal) error {
	if _, err := s.creds.FindByID(ctx, targetID); err != nil {
		return storeErr(err)
	}
	if !auth.CanModify(acting.ID, acting.Roles, targetID) {
		return common.ErrForbidden
	}

	if auth.HasRole(acting.Roles, models.RoleAdmin) {
		token, err := s.creds.GeneratePasswordResetToken(ctx, targetID)
		if err != nil {
			return storeErr(err)
		}
		return storeErr(s.creds.ResetPassword(ctx, targetID, token, newPassword))
	}

	return storeErr(s.creds.ChangePassword(ctx, targetID, oldPassword, newPassword))
}

// UpdateName updates the target's first and last name.
func (s *IdentityService) UpdateName(ctx context.Context, targetID, firstName, lastName string, acting Principal) (*models.User, error) {
	user, err := s.creds.FindByID(ctx, targetID)
	if err != nil {
		return nil, storeErr(err)
	}
	if !auth.CanModify(acting.ID, acting.Roles, targetID) {
		return nil, common.ErrForbidden
	}

	user.FirstName = firstName
	user.LastName = lastName
	if err := s.creds.Update(ctx, user); err != nil {
		return nil, storeErr(err)
	}
	return user, nil
}

// DeleteUser removes the target identity and its profile picture.
func (s *IdentityService) DeleteUser(ctx context.Context, targetID string, acting Principal) error {
	user, err := s.creds.FindByID(ctx, targetID)
	if err != nil {
		return storeErr(err)
	}
	if !auth.CanModify(acting.ID, acting.Roles, targetID) {
		return common.ErrForbidden
	}

	if err := s.creds.Delete(ctx, targetID); err != nil {
		return storeErr(err)
	}

	if user.ProfilePictureURL != "" && !s.blobs.Delete(ctx, user.ProfilePictureURL) {
		s.logger.Warn(ctx, "profile picture not removed", "user_id", targetID, "path", user.ProfilePictureURL)
	}
	return nil
}

func (s *IdentityService) GetUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.creds.List(ctx)
	return users, storeErr(err)
}

func (s *IdentityService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.creds.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	return user, nil
}
