package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"service-sales-platform/internal/infra/logging"
	"service-sales-platform/internal/usecase"
)

// SessionClaims is the bearer-token payload. Role "admin" or an allow-listed
// email grants admin access.
type SessionClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type AuthManager struct {
	secret      []byte
	adminEmails map[string]struct{}
}

func NewAuthManager(secret string, adminEmails []string) *AuthManager {
	m := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		m[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	return &AuthManager{secret: []byte(secret), adminEmails: m}
}

func (a *AuthManager) Mint(subject, email, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *AuthManager) parse(tok string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	tkn, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func (a *AuthManager) fromRequest(r *http.Request) (*SessionClaims, error) {
	hdr := r.Header.Get("Authorization")
	if hdr == "" || !strings.HasPrefix(strings.ToLower(hdr), "bearer ") {
		return nil, errors.New("missing token")
	}
	return a.parse(strings.TrimSpace(hdr[7:]))
}

func (a *AuthManager) isAdmin(c *SessionClaims) bool {
	if c == nil {
		return false
	}
	if c.Role == "admin" {
		return true
	}
	_, ok := a.adminEmails[strings.ToLower(c.Email)]
	return ok
}

type callerKey struct{}

func callerInto(ctx context.Context, c usecase.Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// CallerFrom returns the authenticated caller; the zero Caller is a guest.
func CallerFrom(ctx context.Context) usecase.Caller {
	if c, ok := ctx.Value(callerKey{}).(usecase.Caller); ok {
		return c
	}
	return usecase.Caller{}
}

// OptionalAuth attaches a caller when a valid token is present; guests pass
// through. The guest token header rides along for guest-lead operations.
func (a *AuthManager) OptionalAuth() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := usecase.Caller{GuestToken: r.Header.Get("X-Guest-Token")}
			if claims, err := a.fromRequest(r); err == nil {
				caller.UserID = claims.Subject
				caller.Email = claims.Email
				caller.IsAdmin = a.isAdmin(claims)
			}
			ctx := callerInto(r.Context(), caller)
			if caller.UserID != "" {
				ctx = logging.WithUserID(ctx, caller.UserID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests without a valid token.
func (a *AuthManager) RequireAuth() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := a.fromRequest(r)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			caller := usecase.Caller{
				UserID:     claims.Subject,
				Email:      claims.Email,
				GuestToken: r.Header.Get("X-Guest-Token"),
				IsAdmin:    a.isAdmin(claims),
			}
			ctx := logging.WithUserID(callerInto(r.Context(), caller), caller.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects callers that are neither role "admin" nor allow-listed.
func (a *AuthManager) RequireAdmin() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := a.fromRequest(r)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if !a.isAdmin(claims) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			caller := usecase.Caller{UserID: claims.Subject, Email: claims.Email, IsAdmin: true}
			ctx := logging.WithUserID(callerInto(r.Context(), caller), caller.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
