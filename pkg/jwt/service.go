package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTService はJWT操作を提供します
type JWTService struct {
	config Config
	now    func() time.Time
}

// NewJWTService は新しいJWTServiceを作成します
func NewJWTService(cfg Config) *JWTService {
	return &JWTService{config: cfg, now: time.Now}
}

// GenerateTokenPair はアクセストークンとリフレッシュトークンのペアを生成します
func (s *JWTService) GenerateTokenPair(sub Subject) (accessToken, refreshToken string, err error) {
	accessToken, err = s.GenerateAccessToken(sub)
	if err != nil {
		return "", "", err
	}

	now := s.now()
	refreshClaims := RefreshTokenClaims{
		RegisteredClaims: s.registered(sub.UserID, now, s.config.RefreshTokenExpiry),
		UserID:           sub.UserID,
		Type:             tokenTypeRefresh,
	}

	refreshToken, err = jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

// GenerateAccessToken はアクセストークンのみを生成します
func (s *JWTService) GenerateAccessToken(sub Subject) (string, error) {
	claims := AccessTokenClaims{
		RegisteredClaims: s.registered(sub.UserID, s.now(), s.config.AccessTokenExpiry),
		UserID:           sub.UserID,
		Email:            sub.Email,
		Name:             sub.Name,
		Role:             sub.Role,
		Type:             tokenTypeAccess,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return token, nil
}

func (s *JWTService) registered(userID int64, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    s.config.Issuer,
		Subject:   strconv.FormatInt(userID, 10),
		Audience:  s.config.Audience,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.New().String(),
	}
}

// ValidateAccessToken はアクセストークンを検証します
func (s *JWTService) ValidateAccessToken(tokenString string) (*AccessTokenClaims, error) {
	claims := &AccessTokenClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}
	if claims.Type != tokenTypeAccess {
		return nil, fmt.Errorf("failed to parse access token: %w", ErrInvalidToken)
	}
	return claims, nil
}

// ValidateRefreshToken はリフレッシュトークンを検証します
func (s *JWTService) ValidateRefreshToken(tokenString string) (*RefreshTokenClaims, error) {
	claims := &RefreshTokenClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, fmt.Errorf("failed to parse refresh token: %w", err)
	}
	if claims.Type != tokenTypeRefresh {
		return nil, fmt.Errorf("failed to parse refresh token: %w", ErrInvalidToken)
	}
	return claims, nil
}

func (s *JWTService) parse(tokenString string, claims jwt.Claims) error {
	opts := []jwt.ParserOption{
		jwt.WithIssuer(s.config.Issuer),
		jwt.WithTimeFunc(s.now),
	}
	if len(s.config.Audience) > 0 {
		opts = append(opts, jwt.WithAudience(s.config.Audience[0]))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSigningMethod, token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

// GetAccessTokenExpiry はアクセストークンの有効期限を返します
func (s *JWTService) GetAccessTokenExpiry() time.Duration {
	return s.config.AccessTokenExpiry
}

// GetRefreshTokenExpiry はリフレッシュトークンの有効期限を返します
func (s *JWTService) GetRefreshTokenExpiry() time.Duration {
	return s.config.RefreshTokenExpiry
}
