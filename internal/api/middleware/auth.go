package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/waveorder/waveorder/internal/api/response"
	"github.com/waveorder/waveorder/internal/auth"
)

// Auth wraps the request authenticator as chi middleware.
type Auth struct {
	authn *auth.Authenticator
}

// NewAuth creates the authentication middleware.
func NewAuth(a *auth.Authenticator) *Auth {
	return &Auth{authn: a}
}

// Require returns middleware that authenticates the bearer credential and
// checks it for the given scope. On success the resolved identity is placed
// in the request context and rate-limit headers are set; every denial is
// mapped to its stable machine-readable code.
func (a *Auth) Require(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawKey := extractBearerToken(r)
			dec := a.authn.Authenticate(r.Context(), rawKey, scope, auth.ClientMeta{
				IP:        clientIP(r),
				UserAgent: r.UserAgent(),
			})

			if dec.Rate != nil {
				setRateHeaders(w, dec)
			}

			if !dec.Allowed {
				writeDenial(w, dec)
				return
			}

			next.ServeHTTP(w, r.WithContext(SetIdentity(r.Context(), dec.Identity)))
		})
	}
}

func setRateHeaders(w http.ResponseWriter, dec auth.Decision) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(dec.Rate.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(dec.Rate.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(dec.Rate.Reset.Unix(), 10))
}

func writeDenial(w http.ResponseWriter, dec auth.Decision) {
	switch dec.Reason {
	case auth.ReasonUnauthenticated:
		response.Error(w, http.StatusUnauthorized,
			"INVALID_TOKEN", "Missing or invalid API key", nil)
	case auth.ReasonForbidden:
		response.Error(w, http.StatusForbidden,
			"FORBIDDEN", "Insufficient permissions", nil)
	case auth.ReasonPlanRestricted:
		response.Error(w, http.StatusForbidden,
			"PLAN_RESTRICTED", "The subscription plan does not include API access", nil)
	case auth.ReasonRateLimited:
		if dec.Rate != nil {
			retryAfter := int(time.Until(dec.Rate.Reset).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		}
		response.Error(w, http.StatusTooManyRequests,
			"RATE_LIMIT_EXCEEDED", "Too many requests", nil)
	default:
		response.Error(w, http.StatusServiceUnavailable,
			"TRANSIENT", "Temporary backend failure, retry shortly", nil)
	}
}

func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
