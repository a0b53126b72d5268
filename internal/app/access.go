package app

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"siam_tours/internal/domain"
)

// AccessResolver turns identity-provider claims into a Principal.
//
// Evidence is checked in order and the first match wins:
//  1. role claim "admin"
//  2. a verified email on the admin allow-list
//  3. role claim "b2b"
//  4. the legacy role table, only when there is no role claim at all
//  5. customer
//
// The allow-list is a deliberate second trust channel for operators who cannot
// edit their identity-provider metadata. The legacy table can add privileges
// but is never consulted once a claim or the allow-list has decided.
type AccessResolver struct {
	allow map[string]struct{}
	roles domain.RoleStore // optional
}

func NewAccessResolver(adminEmails []string, roles domain.RoleStore) *AccessResolver {
	allow := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = normalizeEmail(e); e != "" {
			allow[e] = struct{}{}
		}
	}
	return &AccessResolver{allow: allow, roles: roles}
}

func (r *AccessResolver) Resolve(ctx context.Context, id domain.Identity) domain.Principal {
	claim := domain.Role(strings.ToLower(strings.TrimSpace(id.RoleClaim)))
	email := normalizeEmail(id.Email)

	if claim == domain.RoleAdmin {
		return domain.AdminUser{UserID: id.UserID, Email: email, Source: domain.AdminByClaim}
	}
	if e, ok := r.allowListed(id.VerifiedEmails); ok {
		return domain.AdminUser{UserID: id.UserID, Email: e, Source: domain.AdminByAllowList}
	}
	if claim == domain.RoleB2B {
		return domain.B2BUser{UserID: id.UserID, Email: email}
	}

	if claim == "" && r.roles != nil && id.UserID != "" {
		role, ok, err := r.roles.LookupRole(ctx, id.UserID, email)
		if err != nil {
			log.Warn().Err(err).Str("user", id.UserID).Msg("legacy role lookup failed; continuing as customer")
		} else if ok {
			switch role {
			case domain.RoleAdmin:
				return domain.AdminUser{UserID: id.UserID, Email: email, Source: domain.AdminByRoleStore}
			case domain.RoleB2B:
				return domain.B2BUser{UserID: id.UserID, Email: email}
			}
		}
	}

	return domain.Customer{UserID: id.UserID}
}

// IsAllowListed reports whether email is on the admin allow-list.
func (r *AccessResolver) IsAllowListed(email string) bool {
	n := normalizeEmail(email)
	if n == "" {
		return false
	}
	_, ok := r.allow[n]
	return ok
}

func (r *AccessResolver) allowListed(emails []string) (string, bool) {
	for _, e := range emails {
		if r.IsAllowListed(e) {
			return normalizeEmail(e), true
		}
	}
	return "", false
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
