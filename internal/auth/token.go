package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"

	"bharathbhent-backend/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	ID   string      `json:"id"`
	Role models.Role `json:"role"`
	jwt.StandardClaims
}

// Tokens signs and verifies HS256 bearer tokens carrying {id, role}.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *Tokens) Sign(id string, role models.Role) (string, error) {
	now := t.now()
	claims := Claims{
		ID:   id,
		Role: role,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(t.ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse fails closed: any signature, algorithm or expiry problem yields ErrInvalidToken.
func (t *Tokens) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ID == "" || (claims.Role != models.RoleUser && claims.Role != models.RoleAdmin) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
