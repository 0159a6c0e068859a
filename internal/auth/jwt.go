package auth

import (
	"fmt"
	"time"

	"sertifikasi-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type JWTCustomClaims struct {
	UserID   uint            `json:"user_id"`
	Username string          `json:"username"`
	Role     models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken menandatangani token baru. jti dipakai sebagai kunci sesi di tabel access_tokens.
func GenerateToken(secret string, user *models.User, ttl time.Duration) (token string, tokenID string, expiresAt time.Time, err error) {
	now := time.Now()
	tokenID = uuid.NewString()
	expiresAt = now.Add(ttl)

	claims := &JWTCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   fmt.Sprint(user.ID),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	return token, tokenID, expiresAt, err
}

func ParseToken(secret, tokenStr string) (*JWTCustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("metode signing tidak valid")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("token tidak valid atau kedaluwarsa")
	}
	claims, ok := token.Claims.(*JWTCustomClaims)
	if !ok || claims.ID == "" {
		return nil, fmt.Errorf("klaim token tidak bisa dibaca")
	}
	return claims, nil
}
