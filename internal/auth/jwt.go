// AngelaMos | 2026
// jwt.go

package auth

import (
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/cinecatalog/internal/config"
	"github.com/carterperez-dev/cinecatalog/internal/core"
)

// TokenManager issues and validates HS256 bearer tokens bound to a username.
// It holds no per-token state; a token is trusted only through its MAC and
// its absolute expiry.
type TokenManager struct {
	secret   []byte
	issuer   string
	lifetime time.Duration
	now      func() time.Time
}

type TokenOption func(*TokenManager)

// WithClock replaces time.Now, mainly for expiry tests.
func WithClock(now func() time.Time) TokenOption {
	return func(m *TokenManager) {
		m.now = now
	}
}

func NewTokenManager(
	cfg config.JWTConfig,
	opts ...TokenOption,
) (*TokenManager, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("token manager: empty signing secret")
	}

	if cfg.AccessTokenExpire <= 0 {
		return nil, fmt.Errorf("token manager: lifetime must be positive")
	}

	m := &TokenManager{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		lifetime: cfg.AccessTokenExpire,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

type IssuedToken struct {
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenClaims is the decoded content of a verified token.
type TokenClaims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (m *TokenManager) Issue(subject string) (*IssuedToken, error) {
	if subject == "" {
		return nil, fmt.Errorf("issue token: empty subject")
	}

	// NumericDate has second precision, so truncate up front to keep the
	// returned timestamps equal to the signed ones.
	issuedAt := m.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(m.lifetime)

	builder := jwt.NewBuilder().
		Subject(subject).
		IssuedAt(issuedAt).
		Expiration(expiresAt)
	if m.issuer != "" {
		builder = builder.Issuer(m.issuer)
	}

	token, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), m.secret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &IssuedToken{
		Token:     string(signed),
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// Parse verifies the MAC and the expiry. A bad signature or malformed token
// yields core.ErrTokenInvalid; a correctly signed token at or past its expiry
// yields core.ErrTokenExpired.
func (m *TokenManager) Parse(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), m.secret),
		jwt.WithValidate(false),
	)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	expiresAt, ok := token.Expiration()
	if !ok {
		return nil, fmt.Errorf(
			"verify token: missing expiration: %w",
			core.ErrTokenInvalid,
		)
	}

	issuedAt, ok := token.IssuedAt()
	if !ok {
		return nil, fmt.Errorf(
			"verify token: missing issued at: %w",
			core.ErrTokenInvalid,
		)
	}

	if m.issuer != "" {
		if iss, _ := token.Issuer(); iss != m.issuer {
			return nil, fmt.Errorf(
				"verify token: unexpected issuer: %w",
				core.ErrTokenInvalid,
			)
		}
	}

	if !m.now().Before(expiresAt) {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
	}

	return &TokenClaims{
		Subject:   subject,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// Validate returns the subject of a valid token.
func (m *TokenManager) Validate(tokenString string) (string, error) {
	claims, err := m.Parse(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// Lifetime is the configured validity window of newly issued tokens.
func (m *TokenManager) Lifetime() time.Duration {
	return m.lifetime
}
