// Package auth verifies and issues the bearer tokens that identify callers.
// Verification is a pure function of the token and the shared secret.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Typed verification failures. All of them map to a 401 at the HTTP
// boundary; the distinction exists for logging and tests.
var (
	ErrMissingToken     = errors.New("missing token")
	ErrMalformedToken   = errors.New("malformed token")
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid token signature")
)

// Claims is the verified identity extracted from a bearer token.
type Claims struct {
	UserID    string
	Email     string
	Name      string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

const issuer = "taskpilot"

// VerifyToken validates an HS256-signed token and extracts the identity
// claims. It never trusts identity fields from anywhere else.
func VerifyToken(secret, tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrMalformedToken
		}
	}
	if !token.Valid {
		return nil, ErrMalformedToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrMalformedToken
	}

	userID, _ := mapClaims["userId"].(string)
	if userID == "" {
		return nil, ErrMalformedToken
	}

	claims := &Claims{UserID: userID}
	claims.Email, _ = mapClaims["email"].(string)
	claims.Name, _ = mapClaims["name"].(string)
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}

	return claims, nil
}

// IssueToken signs a token carrying the given identity, valid for expire.
func IssueToken(secret, userID, email, name string, expire time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID,
		"email":  email,
		"name":   name,
		"iss":    issuer,
		"iat":    now.Unix(),
		"exp":    now.Add(expire).Unix(),
	})
	return token.SignedString([]byte(secret))
}
