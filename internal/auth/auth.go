package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken indicates a missing, malformed, or expired bearer token.
var ErrInvalidToken = errors.New("invalid or expired token")

// Credentials identify the caller against the provider. They are threaded
// explicitly through the pipeline; nothing holds them between requests.
type Credentials struct {
	ProviderUserID string
	DisplayName    string
	Email          string
	AccessToken    string
}

// Claims is the JWT payload the frontend session layer issues after the
// provider OAuth dance. Token refresh happens upstream; this service only
// consumes the result.
type Claims struct {
	DisplayName string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	AccessToken string `json:"accessToken"`
	jwt.RegisteredClaims
}

// Verifier parses bearer tokens signed with the shared secret.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier for the given HS256 secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Parse validates the token and extracts the caller's credentials.
func (v *Verifier) Parse(tokenString string) (*Credentials, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" || claims.AccessToken == "" {
		return nil, ErrInvalidToken
	}

	return &Credentials{
		ProviderUserID: claims.Subject,
		DisplayName:    claims.DisplayName,
		Email:          claims.Email,
		AccessToken:    claims.AccessToken,
	}, nil
}

// Sign issues a token for the given credentials. Used by tests and by the
// session bridge tooling.
func (v *Verifier) Sign(creds Credentials, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		DisplayName: creds.DisplayName,
		Email:       creds.Email,
		AccessToken: creds.AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   creds.ProviderUserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
