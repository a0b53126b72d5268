package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"siam_tours/internal/app"
	"siam_tours/internal/domain"
)

const (
	currencyCookie = "currency"
	maxBodyBytes   = 64 << 10
)

type Handlers struct {
	Translations *app.TranslationStore
	Locales      *app.LocaleResolver
	Currency     *app.CurrencyResolver
	Tours        *app.TourService
	Access       *app.AccessResolver
	Notify       *app.NotificationService
	Identity     IdentitySource
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// tourView is a normalized tour plus prices formatted in the caller's currency.
type tourView struct {
	domain.NormalizedTour
	DisplayCurrency   domain.Currency `json:"displayCurrency"`
	DisplayPrice      string          `json:"displayPrice"`
	DisplayChildPrice string          `json:"displayChildPrice"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/", h.root)
	s.mux.Get("/switch-locale", h.switchLocale)
	s.mux.Post("/preferences/currency", h.setCurrency)

	s.mux.Group(func(r chi.Router) {
		r.Use(Authenticate(h.Identity, h.Access))

		r.Get("/me", h.me)

		r.Route("/{locale}", func(r chi.Router) {
			r.Use(WithLocale(h.Locales))
			r.Get("/", h.home)
			r.Get("/i18n", h.messages)
			r.Get("/tours", h.listTours(false))
			r.Get("/tours/{slug}", h.getTour)
			r.Post("/contact", h.contact)
			r.Post("/bookings", h.book)
		})

		r.Route("/b2b/{locale}", func(r chi.Router) {
			r.Use(RequireRole(domain.RoleB2B), WithLocale(h.Locales))
			r.Get("/tours", h.listTours(true))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireRole(domain.RoleAdmin))
			r.Post("/translations/invalidate", h.invalidateTranslations)
			r.Post("/tours/invalidate", h.invalidateTours)
		})
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCacheable answers 304 when the client already holds this version.
func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	w.Header().Set("ETag", etag)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Payload", "body must be a JSON object")
		return false
	}
	return true
}

// activeCurrency applies the cookie override over the locale default.
func (h *Handlers) activeCurrency(r *http.Request, l domain.Locale) domain.Currency {
	var override *domain.Currency
	if c, err := r.Cookie(currencyCookie); err == nil {
		if cur, ok := domain.ParseCurrency(c.Value); ok {
			override = &cur
		}
	}
	return h.Currency.Resolve(l, override)
}

func (h *Handlers) view(t domain.NormalizedTour, cur domain.Currency) tourView {
	return tourView{
		NormalizedTour:    t,
		DisplayCurrency:   cur,
		DisplayPrice:      h.Currency.Format(cur, t.Price.Adult, t.Price.AdultEUR),
		DisplayChildPrice: h.Currency.Format(cur, t.Price.Child, t.Price.ChildEUR),
	}
}

// ---- locale and preferences ----

func (h *Handlers) root(w http.ResponseWriter, r *http.Request) {
	l := h.Locales.Negotiate(r.Header.Get("Accept-Language"))
	w.Header().Set("Vary", "Accept-Language")
	http.Redirect(w, r, "/"+l.String()+"/", http.StatusFound)
}

func (h *Handlers) switchLocale(w http.ResponseWriter, r *http.Request) {
	to, ok := domain.ParseLocale(r.URL.Query().Get("to"))
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid locale", "to must be en or fr")
		return
	}
	from := r.URL.Query().Get("from")
	if from == "" {
		from = "/"
	}
	http.Redirect(w, r, h.Locales.SwitchPath(from, to), http.StatusSeeOther)
}

func (h *Handlers) setCurrency(w http.ResponseWriter, r *http.Request) {
	cur, ok := domain.ParseCurrency(r.FormValue("currency"))
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid currency", "currency must be THB or EUR")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     currencyCookie,
		Value:    cur.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// ---- content ----

func (h *Handlers) home(w http.ResponseWriter, r *http.Request) {
	l := localeFrom(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"locale":    l,
		"currency":  h.activeCurrency(r, l),
		"title":     h.Translations.Lookup(r.Context(), l, "home.title", nil),
		"switchUrl": h.Locales.SwitchPath(r.URL.Path, l.Other()),
	})
}

func (h *Handlers) messages(w http.ResponseWriter, r *http.Request) {
	writeCacheable(w, r, h.Translations.Messages(r.Context(), localeFrom(r.Context())))
}

func (h *Handlers) listTours(includePrivate bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := localeFrom(r.Context())
		tours, err := h.Tours.List(r.Context(), l, includePrivate)
		if err != nil {
			writeError(w, err)
			return
		}
		cur := h.activeCurrency(r, l)
		out := make([]tourView, 0, len(tours))
		for _, t := range tours {
			out = append(out, h.view(t, cur))
		}
		w.Header().Set("Vary", "Cookie")
		writeCacheable(w, r, map[string]any{"items": out, "locale": l, "currency": cur})
	}
}

func (h *Handlers) getTour(w http.ResponseWriter, r *http.Request) {
	l := localeFrom(r.Context())
	t, err := h.Tours.Get(r.Context(), chi.URLParam(r, "slug"), l)
	if err != nil {
		writeError(w, err)
		return
	}
	// private tours are only listed for partners
	if t.IsPrivate && !domain.Allows(principalFrom(r.Context()), domain.RoleB2B) {
		writeError(w, domain.ErrNotFound)
		return
	}
	w.Header().Set("Vary", "Cookie")
	writeCacheable(w, r, h.view(t, h.activeCurrency(r, l)))
}

// ---- notifications ----

func (h *Handlers) contact(w http.ResponseWriter, r *http.Request) {
	var req domain.ContactRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if _, err := h.Notify.Contact(r.Context(), localeFrom(r.Context()), req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (h *Handlers) book(w http.ResponseWriter, r *http.Request) {
	var req domain.BookingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	l := localeFrom(r.Context())
	p, err := h.Notify.Book(r.Context(), l, h.activeCurrency(r, l), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"requestId":    p.RequestID,
		"tourTitle":    p.TourTitle,
		"currency":     p.Currency,
		"displayTotal": p.DisplayTotal,
	})
}

// ---- access ----

func (h *Handlers) me(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	if p == nil {
		writeError(w, domain.ErrUnauthenticated)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"role": p.Role(), "subject": p.Subject(), "principal": p})
}

func (h *Handlers) invalidateTranslations(w http.ResponseWriter, r *http.Request) {
	h.Translations.Invalidate(r.Context())
	log.Info().Str("by", principalFrom(r.Context()).Subject()).Msg("translations invalidated")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) invalidateTours(w http.ResponseWriter, r *http.Request) {
	h.Tours.Invalidate(r.Context())
	log.Info().Str("by", principalFrom(r.Context()).Subject()).Msg("tour cache invalidated")
	w.WriteHeader(http.StatusNoContent)
}
