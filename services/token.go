package services

import (
	"fmt"
	"time"

	"main/config"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "cloudmemo"

type TokenService struct {
	cfg config.AuthConfig
}

func NewTokenService(cfg config.AuthConfig) *TokenService {
	return &TokenService{cfg: cfg}
}

// GenerateAccessToken issues a short-lived access token for the user.
func (s *TokenService) GenerateAccessToken(userID, sessionID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":    userID,
		"session_id": sessionID,
		"iss":        tokenIssuer,
		"iat":        now.Unix(),
		"exp":        now.Add(s.cfg.JWTExpiration).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecretKey))
}

// GenerateRefreshToken issues a long-lived token bound to the session.
func (s *TokenService) GenerateRefreshToken(userID, sessionID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":    userID,
		"session_id": sessionID,
		"type":       "refresh",
		"iss":        tokenIssuer,
		"iat":        now.Unix(),
		"exp":        now.Add(s.cfg.RefreshExpiration).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecretKey))
}

type TokenClaims struct {
	UserID    string
	SessionID string
	IsRefresh bool
	ExpiresAt time.Time
}

// ParseToken validates a token's signature, issuer and expiry and extracts
// the claims this service cares about.
func (s *TokenService) ParseToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	if iss, _ := claims["iss"].(string); iss != tokenIssuer {
		return nil, fmt.Errorf("invalid token issuer")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, fmt.Errorf("invalid user ID in token")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, fmt.Errorf("missing expiration claim")
	}
	if time.Now().Unix() > int64(exp) {
		return nil, fmt.Errorf("token has expired")
	}

	sessionID, _ := claims["session_id"].(string)
	tokenType, _ := claims["type"].(string)

	return &TokenClaims{
		UserID:    userID,
		SessionID: sessionID,
		IsRefresh: tokenType == "refresh",
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}
