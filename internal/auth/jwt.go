package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType separates the three token families so one cannot stand in for
// another.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
	TokenTypeAdmin   TokenType = "admin"
)

// JWTConfig holds signing secrets and lifetimes
type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	AdminTTL      time.Duration
}

var jwtConfig JWTConfig

// InitJWT initializes the JWT secrets and lifetimes
func InitJWT(cfg JWTConfig) {
	jwtConfig = cfg
}

// RefreshTTL returns the configured refresh-token lifetime
func RefreshTTL() time.Duration {
	return jwtConfig.RefreshTTL
}

// Claims represents the JWT claims
type Claims struct {
	UserID  uint      `json:"user_id,omitempty"`
	Email   string    `json:"email"`
	Role    string    `json:"role,omitempty"`
	AdminID string    `json:"admin_id,omitempty"`
	Type    TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// GenerateAccessToken issues a short-lived user token
func GenerateAccessToken(userID uint, email, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		Type:   TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(jwtConfig.AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return sign(claims, jwtConfig.AccessSecret)
}

// GenerateRefreshToken issues a refresh token whose ID is tokenID
func GenerateRefreshToken(userID uint, email string, tokenID uuid.UUID, expiresAt time.Time) (string, error) {
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Type:   TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return sign(claims, jwtConfig.RefreshSecret)
}

// GenerateAdminToken issues an admin session token
func GenerateAdminToken(adminID, email string) (string, error) {
	now := time.Now()
	claims := &Claims{
		AdminID: adminID,
		Email:   email,
		Type:    TokenTypeAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(jwtConfig.AdminTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return sign(claims, jwtConfig.AccessSecret)
}

// ValidateAccessToken validates a user access token
func ValidateAccessToken(tokenString string) (*Claims, error) {
	return validate(tokenString, jwtConfig.AccessSecret, TokenTypeAccess)
}

// ValidateRefreshToken validates a refresh token signature and expiry. The
// caller still has to check that the token ID is live.
func ValidateRefreshToken(tokenString string) (*Claims, error) {
	return validate(tokenString, jwtConfig.RefreshSecret, TokenTypeRefresh)
}

// ValidateAdminToken validates an admin token
func ValidateAdminToken(tokenString string) (*Claims, error) {
	return validate(tokenString, jwtConfig.AccessSecret, TokenTypeAdmin)
}

func sign(claims *Claims, secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("JWT secret not initialized")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

func validate(tokenString, secret string, want TokenType) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret not initialized")
	}

	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if claims.Type != want {
		return nil, fmt.Errorf("expected %s token, got %q", want, claims.Type)
	}

	return claims, nil
}
