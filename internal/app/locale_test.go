package app_test

import (
	"testing"

	"siam_tours/internal/app"
	"siam_tours/internal/domain"
)

func TestLocaleResolver_Active(t *testing.T) {
	r := app.NewLocaleResolver()
	cases := map[string]domain.Locale{
		"/en/tours":    domain.LocaleEN,
		"/fr":          domain.LocaleFR,
		"/EN/":         domain.LocaleEN,
		"/":            domain.LocaleFR,
		"":             domain.LocaleFR,
		"/de/tours":    domain.LocaleFR,
		"/english/x":   domain.LocaleFR,
		"/tours/en":    domain.LocaleFR,
		"en/tours/abc": domain.LocaleEN,
	}
	for p, want := range cases {
		if got := r.Active(p); got != want {
			t.Fatalf("Active(%q) = %s, want %s", p, got, want)
		}
	}
}

func TestLocaleResolver_SwitchPath(t *testing.T) {
	r := app.NewLocaleResolver()
	cases := []struct {
		in   string
		to   domain.Locale
		want string
	}{
		{"/en/tours/city-tour", domain.LocaleFR, "/fr/tours/city-tour"},
		{"/fr/tours/", domain.LocaleEN, "/en/tours/"},
		{"/tours/city-tour", domain.LocaleEN, "/en/tours/city-tour"},
		{"/english/page", domain.LocaleFR, "/fr/english/page"},
		{"/", domain.LocaleEN, "/en"},
		{"", domain.LocaleFR, "/fr"},
		{"/fr", domain.LocaleEN, "/en"},
		{"/en/tours?sort=price#top", domain.LocaleFR, "/fr/tours?sort=price#top"},
		{"//evil.example/steal", domain.LocaleEN, "/en"},
		{"https://evil.example/fr/x", domain.LocaleEN, "/en"},
		{"/en/x", domain.Locale("es"), "/fr/x"},
	}
	for _, c := range cases {
		if got := r.SwitchPath(c.in, c.to); got != c.want {
			t.Fatalf("SwitchPath(%q, %s) = %q, want %q", c.in, c.to, got, c.want)
		}
	}
}

func TestLocaleResolver_SwitchPathRoundTrip(t *testing.T) {
	r := app.NewLocaleResolver()
	p := r.SwitchPath("/tours/a", domain.LocaleEN)
	p = r.SwitchPath(p, domain.LocaleFR)
	if p != "/fr/tours/a" || r.Active(p) != domain.LocaleFR {
		t.Fatalf("unexpected round trip: %q", p)
	}
}

func TestLocaleResolver_Negotiate(t *testing.T) {
	r := app.NewLocaleResolver()
	cases := map[string]domain.Locale{
		"en-US,en;q=0.9":        domain.LocaleEN,
		"fr-CA":                 domain.LocaleFR,
		"de-DE,en;q=0.5":        domain.LocaleEN,
		"ja":                    domain.LocaleFR,
		"":                      domain.LocaleFR,
		"not a header;;q=zzz":   domain.LocaleFR,
		"th-TH,fr;q=0.8,en;q=0.7": domain.LocaleFR,
	}
	for h, want := range cases {
		if got := r.Negotiate(h); got != want {
			t.Fatalf("Negotiate(%q) = %s, want %s", h, got, want)
		}
	}
}
