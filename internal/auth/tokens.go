// Package auth issues and verifies the per role bearer tokens.
//
// Users, chefs and the admin each sign with their own HMAC secret. A route
// declares which roles it accepts and Resolve tries them in that order, so the
// secrets must never overlap.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is used when no expiry is configured.
const DefaultTokenTTL = 7 * 24 * time.Hour

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid token")

// Principal is the caller resolved from a bearer token.
type Principal struct {
	ID       string      `json:"id"`
	Role     models.Role `json:"role"`
	Username string      `json:"username"`
	Number   string      `json:"number"`
}

// IsAdmin reports whether the principal authenticated with the admin scheme.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == models.RoleAdmin
}

// Claims are the JWT claims carried by every token. The subject is the account id.
type Claims struct {
	Role     models.Role `json:"role"`
	Username string      `json:"username,omitempty"`
	Number   string      `json:"number,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies tokens for the three roles.
type TokenService struct {
	secrets map[models.Role][]byte
	ttl     time.Duration
	now     func() time.Time
}

// NewTokenService validates that the three secrets are set and pairwise distinct.
func NewTokenService(userSecret, chefSecret, adminSecret string, ttl time.Duration) (*TokenService, error) {
	secrets := map[models.Role]string{
		models.RoleUser:  userSecret,
		models.RoleChef:  chefSecret,
		models.RoleAdmin: adminSecret,
	}
	seen := make(map[string]models.Role, len(secrets))
	for role, secret := range secrets {
		if secret == "" {
			return nil, fmt.Errorf("%s token secret is required", role)
		}
		if other, ok := seen[secret]; ok {
			return nil, fmt.Errorf("%s and %s token secrets must differ", other, role)
		}
		seen[secret] = role
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	keys := make(map[models.Role][]byte, len(secrets))
	for role, secret := range secrets {
		keys[role] = []byte(secret)
	}
	return &TokenService{secrets: keys, ttl: ttl, now: time.Now}, nil
}

// TTL returns the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for p with the secret of p.Role.
func (s *TokenService) Issue(p Principal) (string, error) {
	key, ok := s.secrets[p.Role]
	if !ok {
		return "", fmt.Errorf("unknown role %q", p.Role)
	}
	if p.ID == "" {
		return "", errors.New("cannot issue token: no subject")
	}

	now := s.now()
	claims := Claims{
		Role:     p.Role,
		Username: p.Username,
		Number:   p.Number,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// Verify checks token against the secret of role and returns its principal.
func (s *TokenService) Verify(role models.Role, token string) (*Principal, error) {
	key, ok := s.secrets[role]
	if !ok {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	claims, err := s.parse(token, key)
	if err != nil {
		return nil, err
	}
	if claims.Role != role {
		return nil, fmt.Errorf("%w: role claim %q does not match %q", ErrInvalidToken, claims.Role, role)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return &Principal{
		ID:       claims.Subject,
		Role:     claims.Role,
		Username: claims.Username,
		Number:   claims.Number,
	}, nil
}

// Resolve tries each accepted role in order and returns the first principal
// whose secret verifies the token.
func (s *TokenService) Resolve(token string, accepted ...models.Role) (*Principal, error) {
	if len(accepted) == 0 {
		return nil, errors.New("no accepted roles")
	}
	var lastErr error
	for _, role := range accepted {
		p, err := s.Verify(role, token)
		if err == nil {
			return p, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func (s *TokenService) parse(tokenString string, key []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// reject alg switching, only HMAC is ever issued
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithIssuedAt())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
