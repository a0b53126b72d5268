package app

import (
	"net/url"
	"strings"

	"golang.org/x/text/language"

	"siam_tours/internal/domain"
)

// LocaleResolver keeps the locale in the URL: the first path segment is the
// locale, and switching rewrites that segment instead of holding hidden state.
type LocaleResolver struct {
	matcher language.Matcher
}

func NewLocaleResolver() *LocaleResolver {
	// first tag is the matcher's fallback
	return &LocaleResolver{matcher: language.NewMatcher([]language.Tag{language.French, language.English})}
}

// FromPath reports the locale in the first segment of p, if any.
func (r *LocaleResolver) FromPath(p string) (domain.Locale, bool) {
	seg, _, _ := strings.Cut(strings.TrimPrefix(p, "/"), "/")
	return domain.ParseLocale(seg)
}

// Active is the locale for p, defaulting to fr.
func (r *LocaleResolver) Active(p string) domain.Locale {
	if l, ok := r.FromPath(p); ok {
		return l
	}
	return domain.DefaultLocale
}

// SwitchPath returns target with its locale segment set to to. A first segment
// that is not a locale is kept and the locale is prepended. Query and fragment
// survive.
func (r *LocaleResolver) SwitchPath(target string, to domain.Locale) string {
	if !to.Valid() {
		to = domain.DefaultLocale
	}
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" {
		u = &url.URL{Path: "/"}
	}

	trimmed := strings.Trim(u.Path, "/")
	var segs []string
	if trimmed != "" {
		segs = strings.Split(trimmed, "/")
	}
	if len(segs) > 0 {
		if _, ok := domain.ParseLocale(segs[0]); ok {
			segs = segs[1:]
		}
	}
	segs = append([]string{to.String()}, segs...)

	p := "/" + strings.Join(segs, "/")
	if strings.HasSuffix(u.Path, "/") && len(segs) > 1 {
		p += "/"
	}
	u.Path = p
	u.RawPath = ""
	return u.String()
}

// Negotiate picks a supported locale from an Accept-Language header.
func (r *LocaleResolver) Negotiate(acceptLanguage string) domain.Locale {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return domain.DefaultLocale
	}
	_, idx, conf := r.matcher.Match(tags...)
	if conf == language.No {
		return domain.DefaultLocale
	}
	if idx == 1 {
		return domain.LocaleEN
	}
	return domain.LocaleFR
}
