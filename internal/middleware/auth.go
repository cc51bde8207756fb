// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/carterperez-dev/cinecatalog/internal/core"
)

const RoleAdmin = "ADMIN"

const IdentityKey contextKey = "identity"

// Identity is the account resolved for the current request. It lives only
// in the request context.
type Identity struct {
	UserID   string
	Username string
	Role     string
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

type TokenValidator interface {
	Validate(token string) (string, error)
}

type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, subject string) (*Identity, error)
}

type GateConfig struct {
	Tokens     TokenValidator
	Identities IdentityResolver
	Policy     *Policy
	Logger     *slog.Logger
}

// Gate authenticates every request and enforces the route policy before any
// handler runs. The account behind a token is re-resolved on each request.
// On public routes a bad token degrades to an anonymous caller.
func Gate(cfg GateConfig) func(http.Handler) http.Handler {
	if cfg.Policy == nil {
		cfg.Policy = DefaultPolicy()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := cfg.Policy.Evaluate(r.Method, r.URL.Path)

			id, err := authenticate(r, cfg)
			if err != nil && !errors.Is(err, errNoToken) {
				if isAuthFailure(err) {
					cfg.Logger.DebugContext(r.Context(), "authentication failed",
						"path", r.URL.Path,
						"error", err,
					)
				} else {
					cfg.Logger.ErrorContext(r.Context(), "identity resolution failed",
						"path", r.URL.Path,
						"error", err,
					)
					if req != RequirePublic {
						core.InternalServerError(w, err)
						return
					}
				}
			}

			switch Authorize(req, id) {
			case DenyUnauthenticated:
				core.GateError(w, r, http.StatusUnauthorized, unauthorizedMessage(err))
				return
			case DenyForbidden:
				core.GateError(w, r, http.StatusForbidden, "insufficient permissions")
				return
			}

			if id != nil {
				r = r.WithContext(WithIdentity(r.Context(), id))
			}

			next.ServeHTTP(w, r)
		})
	}
}

var errNoToken = errors.New("no bearer token")

func authenticate(r *http.Request, cfg GateConfig) (*Identity, error) {
	token := ExtractToken(r)
	if token == "" {
		return nil, errNoToken
	}

	subject, err := cfg.Tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	id, err := cfg.Identities.ResolveIdentity(r.Context(), subject)
	if err != nil {
		return nil, err
	}

	return id, nil
}

func isAuthFailure(err error) bool {
	return errors.Is(err, core.ErrTokenInvalid) ||
		errors.Is(err, core.ErrTokenExpired) ||
		errors.Is(err, core.ErrUnauthorized)
}

func unauthorizedMessage(err error) string {
	switch {
	case err == nil, errors.Is(err, errNoToken):
		return "authentication required"
	case errors.Is(err, core.ErrTokenExpired), errors.Is(err, core.ErrTokenInvalid):
		return "invalid or expired token"
	default:
		return "authentication required"
	}
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	if h, ok := ctx.Value(identityHolderKey).(*identityHolder); ok {
		h.id = id
	}
	return context.WithValue(ctx, IdentityKey, id)
}

func GetIdentity(ctx context.Context) *Identity {
	if id, ok := ctx.Value(IdentityKey).(*Identity); ok {
		return id
	}
	return nil
}

func GetUserID(ctx context.Context) string {
	if id := GetIdentity(ctx); id != nil {
		return id.UserID
	}
	return ""
}

func GetUsername(ctx context.Context) string {
	if id := GetIdentity(ctx); id != nil {
		return id.Username
	}
	return ""
}
