package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/models"
)

type contextKey string

const RoleKey contextKey = "role"

// Roles accepted on platform bearer tokens.
const (
	RoleAnon    = "anon"
	RoleService = "service_role"
)

var ErrRoleNotAllowed = errors.New("token role not allowed")

// PlatformAuth checks the bearer token the hosting platform issues to
// browser clients (anon) and trusted backends (service_role).
type PlatformAuth struct {
	Secret []byte
}

func NewPlatformAuth(secret string) *PlatformAuth {
	return &PlatformAuth{Secret: []byte(secret)}
}

// GenerateToken signs an HS256 token carrying the given role.
func (a *PlatformAuth) GenerateToken(role string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"role": role,
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.Secret)
}

// ValidateToken verifies the signature and expiry and returns the role claim.
func (a *PlatformAuth) ValidateToken(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.Secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}

	role, _ := claims["role"].(string)
	if role != RoleAnon && role != RoleService {
		return "", fmt.Errorf("%w: %q", ErrRoleNotAllowed, role)
	}
	return role, nil
}

// Middleware validates the bearer token and attaches the role to the context
func (a *PlatformAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, models.CodeUnauthorized, "Missing authorization header", r)
			return
		}

		// Must be Bearer format
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, models.CodeUnauthorized, "Invalid authorization format", r)
			return
		}

		role, err := a.ValidateToken(parts[1])
		if err != nil {
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				writeError(w, http.StatusUnauthorized, models.CodeUnauthorized, "Token has expired", r)
			case errors.Is(err, ErrRoleNotAllowed):
				writeError(w, http.StatusUnauthorized, models.CodeUnauthorized, "Token role not allowed", r)
			default:
				writeError(w, http.StatusUnauthorized, models.CodeUnauthorized, "Invalid token", r)
			}
			return
		}

		ctx := context.WithValue(r.Context(), RoleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRole extracts the platform role from request context
func GetRole(ctx context.Context) string {
	role, _ := ctx.Value(RoleKey).(string)
	return role
}

func writeError(w http.ResponseWriter, status int, code, message string, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: r.Header.Get("X-Request-ID"),
	})
}
