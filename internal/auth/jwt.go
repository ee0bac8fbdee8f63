package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mindwell/apiserver/types"
)

// TokenTTL is the fixed validity window of a session token.
const TokenTTL = 24 * time.Hour

// ErrInvalidToken is returned when a token fails signature or expiry
// checks.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the session claim set carried by a bearer token. Sessions
// are stateless: validity is signature plus expiry, nothing server-side.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// IssueToken mints a signed session token for the user, valid for
// TokenTTL from now.
func IssueToken(user types.User, secret []byte) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
	})
	return token.SignedString(secret)
}

// ParseToken validates the token and returns its claims.
func ParseToken(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
