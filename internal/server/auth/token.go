// Package auth implements the two decision points of the identity core:
// bearer-token issuance/verification and the self-or-administrator
// authorization policy.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"carsapi/internal/common"
	"carsapi/internal/server/config"
	"carsapi/internal/server/models"
)

// DefaultTokenExpirationDays applies when the configured value is unset
// or unusable.
const DefaultTokenExpirationDays = 10

// Claims carried by every issued token. UserName uses the unique_name
// claim so clients can show a display name without an extra lookup.
type Claims struct {
	jwt.RegisteredClaims
	UserName string `json:"unique_name"`
	Email    string `json:"email"`
}

// Issuer mints and verifies signed HS256 bearer tokens. Issue is a pure
// function of its inputs plus the clock and jti source, both injectable
// for tests.
type Issuer struct {
	secret   []byte
	issuer   string
	audience string
	validity time.Duration

	now    func() time.Time
	newJTI func() string
}

// NewIssuer builds an Issuer from config. A missing signing key is a
// startup failure, not a per-request one.
func NewIssuer(cfg *config.Config) (*Issuer, error) {
	if cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("%w: JWT secret key is not set", common.ErrConfiguration)
	}

	days := cfg.TokenExpirationDays
	if days <= 0 {
		days = DefaultTokenExpirationDays
	}

	return &Issuer{
		secret:   []byte(cfg.JWTSecretKey),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
		validity: time.Duration(days) * 24 * time.Hour,
		now:      time.Now,
		newJTI:   uuid.NewString,
	}, nil
}

// Issue signs a token asserting the user's identity. The fresh random jti
// keeps two tokens issued at the same instant for the same subject
// distinguishable.
func (i *Issuer) Issue(user *models.User) (string, error) {
	now := i.now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        i.newJTI(),
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.audience},
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.validity)),
		},
		UserName: user.UserName,
		Email:    user.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string, returning its claims.
// There is no revocation list: a token stays valid until its expiry
// regardless of logout.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
