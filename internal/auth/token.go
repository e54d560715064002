package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenManager signs and validates browser-profile tokens. Profile tokens
// carry no expiry: a stored session lives until an explicit logout.
type TokenManager struct {
	secret []byte
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// Claims describes the JWT payload.
type Claims struct {
	ProfileID string `json:"pid"`
	jwt.RegisteredClaims
}

// NewProfile allocates a profile id and returns it with its signed token.
func (tm *TokenManager) NewProfile() (string, string, error) {
	profileID := uuid.NewString()
	token, err := tm.GenerateToken(profileID)
	if err != nil {
		return "", "", err
	}
	return profileID, token, nil
}

// GenerateToken signs a token for profileID.
func (tm *TokenManager) GenerateToken(profileID string) (string, error) {
	claims := &Claims{
		ProfileID: profileID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  profileID,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// ParseToken validates and returns claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.ProfileID == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
