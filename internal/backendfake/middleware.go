package backendfake

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-events-client/token"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyUserID stores the authenticated user ID
	ContextKeyUserID ContextKey = "user_id"
	// ContextKeyClaims stores parsed token claims
	ContextKeyClaims ContextKey = "claims"
)

func ChainMiddleware(routeFunction http.HandlerFunc, mw ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	chainedHandler := routeFunction
	// Apply middleware in reverse order
	for i := len(mw) - 1; i >= 0; i-- {
		chainedHandler = mw[i](chainedHandler)
	}
	return chainedHandler
}

// APIMiddleware is applied to every route.
func (s *Server) APIMiddleware(mw ...func(http.HandlerFunc) http.HandlerFunc) []func(http.HandlerFunc) http.HandlerFunc {
	chained := []func(http.HandlerFunc) http.HandlerFunc{
		s.RecordMiddleware,
		s.LoggingMiddleware,
		s.ForcedResponseMiddleware,
	}
	return append(chained, mw...)
}

// RecordMiddleware keeps a copy of the request metadata for assertions.
func (s *Server) RecordMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.lock.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: append([]string(nil), r.Header.Values("Authorization")...),
			RequestID:     r.Header.Get("X-Request-ID"),
			ContentType:   r.Header.Get("Content-Type"),
		})
		s.lock.Unlock()
		next(w, r)
	}
}

func (s *Server) LoggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug().Str("method", r.Method).Str("path", r.URL.Path).Msg("backendfake request")
		next(w, r)
	}
}

// ForcedResponseMiddleware replays responses queued with Force.
func (s *Server) ForcedResponseMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.lock.Lock()
		f, ok := s.forced[r.Method+" "+r.URL.Path]
		if ok {
			f.count--
			if f.count <= 0 {
				delete(s.forced, r.Method+" "+r.URL.Path)
			}
		}
		s.lock.Unlock()

		if ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(f.body))
			return
		}
		next(w, r)
	}
}

// RequireAuth validates the Bearer access token's signature, expiry and revocation.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeMessage(w, http.StatusUnauthorized, "Missing Authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
				writeMessage(w, http.StatusUnauthorized, "Invalid Authorization header format")
				return
			}

			if s.isRevoked(parts[1]) {
				writeMessage(w, http.StatusUnauthorized, "Token expired")
				return
			}

			claims, err := token.Verify(parts[1], s.signer)
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			userID, err := strconv.ParseInt(claims.Subject, 10, 64)
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, "Invalid subject")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, userID)
			ctx = context.WithValue(ctx, ContextKeyClaims, claims)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireRole must be chained after RequireAuth.
func (s *Server) RequireRole(roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := r.Context().Value(ContextKeyClaims).(*token.Claims)
			if !ok {
				writeErrors(w, http.StatusForbidden, "Access denied")
				return
			}
			for _, want := range roles {
				for _, have := range claims.Authorities {
					if strings.TrimPrefix(have, "ROLE_") == want {
						next(w, r)
						return
					}
				}
			}
			writeErrors(w, http.StatusForbidden, "Access denied")
		}
	}
}

func userIDFrom(r *http.Request) int64 {
	id, _ := r.Context().Value(ContextKeyUserID).(int64)
	return id
}
