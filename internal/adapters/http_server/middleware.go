package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"siam_tours/internal/adapters/observability"
	"siam_tours/internal/app"
	"siam_tours/internal/domain"
)

func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return http.TimeoutHandler(next, d, "timeout") }
}

// ---- status-recording ResponseWriter ----

type srw struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (w *srw) WriteHeader(code int) {
	if !w.wrote {
		w.status = code
		w.wrote = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *srw) Write(b []byte) (int, error) {
	if !w.wrote {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *srw) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// ---- Metrics middleware ----

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &srw{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		observability.ObserveHTTP(route, r.Method, sw.Status(), time.Since(start))
	})
}

// ---- Structured logging middleware ----

func Logger(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &srw{ResponseWriter: w}
			next.ServeHTTP(sw, r)
			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = r.URL.Path
			}
			l.Info().
				Str("route", route).
				Str("method", r.Method).
				Int("status", sw.Status()).
				Dur("duration", time.Since(start)).
				Str("remote", remoteIP(r)).
				Str("ua", r.UserAgent()).
				Str("request_id", chimw.GetReqID(r.Context())).
				Msg("http_request")
		})
	}
}

// Picks first X-Forwarded-For IP, else X-Real-IP, else RemoteAddr host.
func remoteIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
		return xrip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

// ---- Locale ----

type ctxKey int

const (
	localeKey ctxKey = iota
	principalKey
)

// WithLocale validates the {locale} segment. A path whose first segment is not
// a locale is redirected to the same path under the default locale; anything
// else that fails to parse is 404.
func WithLocale(locales *app.LocaleResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seg := chi.URLParam(r, "locale")
			l, ok := domain.ParseLocale(seg)
			if !ok {
				first, _, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
				if first == seg && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
					http.Redirect(w, r, locales.SwitchPath(r.URL.RequestURI(), locales.Active(r.URL.Path)), http.StatusFound)
					return
				}
				writeProblem(w, http.StatusNotFound, "Not Found", "unsupported locale")
				return
			}
			w.Header().Set("Content-Language", l.String())
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), localeKey, l)))
		})
	}
}

func localeFrom(ctx context.Context) domain.Locale {
	if l, ok := ctx.Value(localeKey).(domain.Locale); ok {
		return l
	}
	return domain.DefaultLocale
}

// ---- Identity ----

// IdentitySource extracts a verified identity from a request.
type IdentitySource interface {
	FromRequest(r *http.Request) (domain.Identity, error)
}

// Authenticate resolves the caller's principal when a valid token is present.
// Requests without one, or with a bad one, continue anonymously.
func Authenticate(src IdentitySource, access *app.AccessResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if src == nil || access == nil || r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := src.FromRequest(r)
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("identity rejected")
				next.ServeHTTP(w, r)
				return
			}
			p := access.Resolve(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey, p)))
		})
	}
}

func principalFrom(ctx context.Context) domain.Principal {
	p, _ := ctx.Value(principalKey).(domain.Principal)
	return p
}

// RequireRole answers 401 for anonymous callers and 403 below min.
func RequireRole(min domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := principalFrom(r.Context())
			if p == nil {
				writeError(w, domain.ErrUnauthenticated)
				return
			}
			if !domain.Allows(p, min) {
				writeError(w, domain.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeError maps domain sentinels to problem responses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "resource not found")
	case errors.Is(err, domain.ErrInvalidPayload):
		writeProblem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "a valid session token is required")
	case errors.Is(err, domain.ErrForbidden):
		writeProblem(w, http.StatusForbidden, "Forbidden", "insufficient role")
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}
