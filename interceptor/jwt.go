package interceptor

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrymomot/dispatch/core/handler"
	"github.com/dmitrymomot/dispatch/core/response"
)

// ErrMissingToken is reported when a request carries no bearer token.
var ErrMissingToken = errors.New("missing bearer token")

type jwtClaimsKey struct{}

// JWTConfig configures the JWT authentication interceptor.
type JWTConfig struct {
	// Skip defines a function to skip authentication for specific requests
	Skip func(r *http.Request) bool
	// SigningKey verifies HMAC-signed tokens. Required.
	SigningKey []byte
	// Methods lists the accepted signing algorithms (default: HS256)
	Methods []string
	// TokenExtractor defines how to extract the token (default: Authorization bearer header)
	TokenExtractor func(r *http.Request) string
	// ClaimsFactory creates the claims instance tokens are parsed into (default: *jwt.RegisteredClaims)
	ClaimsFactory func() jwt.Claims
	// ErrorHandler writes the rejection (default: 401 through response.ErrorHandler)
	ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)
}

// JWT creates an interceptor accepting HS256 tokens signed with signingKey.
// Panics if the key is empty.
func JWT(signingKey string) handler.Interceptor {
	return JWTWithConfig(JWTConfig{SigningKey: []byte(signingKey)})
}

// JWTWithConfig validates the request token in pre-handle. Requests without a
// valid token are rejected with the error handler and the chain stops there;
// the handler never runs. Parsed claims are stored as a request attribute.
func JWTWithConfig(cfg JWTConfig) handler.Interceptor {
	if len(cfg.SigningKey) == 0 {
		panic("jwt interceptor: signing key is required")
	}
	if len(cfg.Methods) == 0 {
		cfg.Methods = []string{jwt.SigningMethodHS256.Alg()}
	}
	if cfg.TokenExtractor == nil {
		cfg.TokenExtractor = JWTFromAuthHeader()
	}
	if cfg.ClaimsFactory == nil {
		cfg.ClaimsFactory = func() jwt.Claims { return &jwt.RegisteredClaims{} }
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
			response.ErrorHandler(w, r, response.ErrUnauthorized.WithError(err))
		}
	}

	parser := jwt.NewParser(jwt.WithValidMethods(cfg.Methods))
	keyFunc := func(*jwt.Token) (any, error) { return cfg.SigningKey, nil }

	return handler.InterceptorFuncs{
		Pre: func(w http.ResponseWriter, r *http.Request, h handler.Handler) (bool, error) {
			if cfg.Skip != nil && cfg.Skip(r) {
				return true, nil
			}

			raw := cfg.TokenExtractor(r)
			if raw == "" {
				cfg.ErrorHandler(w, r, ErrMissingToken)
				return false, nil
			}

			claims := cfg.ClaimsFactory()
			if _, err := parser.ParseWithClaims(raw, claims, keyFunc); err != nil {
				cfg.ErrorHandler(w, r, err)
				return false, nil
			}

			handler.SetAttribute(r, jwtClaimsKey{}, claims)
			return true, nil
		},
	}
}

// JWTFromAuthHeader extracts a bearer token from the Authorization header.
func JWTFromAuthHeader() func(r *http.Request) string {
	return func(r *http.Request) string {
		scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return ""
		}
		return strings.TrimSpace(token)
	}
}

// JWTFromCookie extracts the token from the named cookie.
func JWTFromCookie(name string) func(r *http.Request) string {
	return func(r *http.Request) string {
		c, err := r.Cookie(name)
		if err != nil {
			return ""
		}
		return c.Value
	}
}

// GetJWTClaims returns the claims stored by the JWT interceptor.
func GetJWTClaims[T jwt.Claims](r *http.Request) (T, bool) {
	claims, ok := handler.Attribute(r, jwtClaimsKey{}).(T)
	return claims, ok
}
