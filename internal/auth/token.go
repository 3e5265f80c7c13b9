package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 30 * 24 * time.Hour

// UnknownUserID is what Claims.UserID yields for a missing or malformed id
// claim. Stores assign ids from 1, so it never resolves to a user.
const UnknownUserID int64 = -1

var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload of an access token.
type Claims struct {
	UID  string `json:"id"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// UserID parses the id claim, falling back to UnknownUserID.
func (c *Claims) UserID() int64 {
	id, err := strconv.ParseInt(c.UID, 10, 64)
	if err != nil {
		return UnknownUserID
	}
	return id
}

// Manager issues and validates HS256 tokens for one issuer/audience pair.
type Manager struct {
	key      []byte
	issuer   string
	audience string
	now      func() time.Time
}

// NewManager creates a Manager signing with key.
func NewManager(key, issuer, audience string) *Manager {
	return &Manager{
		key:      []byte(key),
		issuer:   issuer,
		audience: audience,
		now:      time.Now,
	}
}

// Issue signs a token carrying the user's id and name, expiring after TokenTTL.
func (m *Manager) Issue(userID int64, username string) (string, error) {
	now := m.now()
	claims := Claims{
		UID:  strconv.FormatInt(userID, 10),
		Name: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Parse validates signature, algorithm, issuer, audience and expiry and
// returns the claims of a valid token.
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return m.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return claims, nil
}
