package auth

import (
	"fmt"
	"time"

	"holdem-service/internal/config"
	appErr "holdem-service/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
)

const ScopePlayer = "player"

// Claims is the payload of the bearer credential the gateway verifies.
// SubjectID is the stable identity a connection is bound to; Name is the
// display name shown at the table.
type Claims struct {
	SubjectID int64  `json:"subjectId"`
	Name      string `json:"name,omitempty"`
	Scope     string `json:"scope"`
	jwt.RegisteredClaims
}

// DisplayName returns the name to seat the subject under, deriving one from
// the subject id when the token carries none.
func (c *Claims) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("Player%d", c.SubjectID)
}

// GenerateToken issues a player credential. In production the identity
// service issues these; the server keeps the issuer for tests and the
// debug-mode mint endpoint.
func GenerateToken(subjectID int64, name string) (string, error) {
	duration := time.Duration(config.GlobalConfig.JWT.Expire) * time.Hour
	claims := Claims{
		SubjectID: subjectID,
		Name:      name,
		Scope:     ScopePlayer,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   ScopePlayer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.GlobalConfig.JWT.Secret))
}

// ParseToken verifies a bearer credential and returns its claims.
func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.GlobalConfig.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, appErr.ErrInvalidToken
	}
	return claims, nil
}
