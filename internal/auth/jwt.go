package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// User types carried in token claims.
const (
	RoleInstructor = "instructor"
	RoleStudent    = "student"
	RoleAdmin      = "admin"
)

// RefreshTTL is the fixed lifetime of refresh tokens.
const RefreshTTL = 30 * 24 * time.Hour

// ErrExpired is returned by Verify for structurally valid tokens past expiry.
var ErrExpired = errors.New("token expired")

// ErrInvalid is returned by Verify for tampered or malformed tokens.
var ErrInvalid = errors.New("token invalid")

// Claims is the JWT payload. The user_id/user_type claim names are the
// compatibility surface for existing clients and must not change.
type Claims struct {
	UserID   string `json:"user_id"`
	UserType string `json:"user_type"`
	jwt.RegisteredClaims
}

// TokenPair holds access and refresh tokens issued at login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

// Manager issues and verifies HS256-signed tokens.
type Manager struct {
	issuer string
	key    []byte
	now    func() time.Time
}

// NewManager creates a token manager with a symmetric signing key.
func NewManager(issuer, signingKey string) *Manager {
	return &Manager{issuer: issuer, key: []byte(signingKey), now: time.Now}
}

// Issue produces a signed token carrying user_id, user_type, issue time,
// expiry and a random token id.
func (m *Manager) Issue(userID, userType string, ttl time.Duration) (string, error) {
	now := m.now()
	claims := Claims{
		UserID:   userID,
		UserType: userType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
}

// IssueRefresh produces a refresh token with the fixed 30-day lifetime.
func (m *Manager) IssueRefresh(userID, userType string) (string, error) {
	return m.Issue(userID, userType, RefreshTTL)
}

// IssuePair issues access and refresh tokens together for a login.
func (m *Manager) IssuePair(userID, userType string, accessTTL time.Duration) (TokenPair, error) {
	now := m.now()
	access, err := m.Issue(userID, userType, accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := m.IssueRefresh(userID, userType)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    now.Add(accessTTL),
		RefreshExp:   now.Add(RefreshTTL),
	}, nil
}

// Verify validates a token. Expired tokens fail with ErrExpired, any
// other signature or structural failure with ErrInvalid.
func (m *Manager) Verify(tokenStr string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.key, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrInvalid
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrInvalid
	}
	if m.issuer != "" && claims.Issuer != m.issuer {
		return Claims{}, ErrInvalid
	}
	return *claims, nil
}
