// Package service implements the business rules layered over the
// repositories.
package service

import (
	"context"
	"sort"

	"atrium/internal/models"
	"atrium/internal/observability"
	"atrium/internal/repository"
)

// AuthzService resolves permission checks for admin accounts. It only reads:
// every call reflects the grant tables as they stand at that moment, so two
// checks around a concurrent revocation may disagree.
type AuthzService struct {
	perms repository.PermissionQueries
}

// NewAuthzService returns a new AuthzService over the given query interface.
func NewAuthzService(perms repository.PermissionQueries) *AuthzService {
	return &AuthzService{perms: perms}
}

// HasPerm reports whether the admin holds the permission with the given
// codename in any taxonomy. Active superusers pass every check without
// touching the grant tables. Inactive admins only match explicit grants,
// same as everyone else.
func (s *AuthzService) HasPerm(ctx context.Context, admin *models.Admin, codename string) (bool, error) {
	if admin.IsActive && admin.IsSuperuser {
		observability.PermissionChecks.WithLabelValues("superuser", "allow").Inc()
		return true, nil
	}

	for _, taxonomy := range models.Taxonomies {
		ok, err := s.hasPermIn(ctx, admin.ID, taxonomy, codename)
		if err != nil {
			return false, err
		}
		if ok {
			observability.PermissionChecks.WithLabelValues(string(taxonomy), "allow").Inc()
			return true, nil
		}
	}

	observability.PermissionChecks.WithLabelValues("none", "deny").Inc()
	return false, nil
}

// HasPermIn is HasPerm restricted to a single taxonomy. The superuser bypass
// still applies.
func (s *AuthzService) HasPermIn(ctx context.Context, admin *models.Admin, taxonomy models.Taxonomy, codename string) (bool, error) {
	if admin.IsActive && admin.IsSuperuser {
		return true, nil
	}
	return s.hasPermIn(ctx, admin.ID, taxonomy, codename)
}

func (s *AuthzService) hasPermIn(ctx context.Context, adminID uint, taxonomy models.Taxonomy, codename string) (bool, error) {
	direct, err := s.perms.DirectPermissions(ctx, adminID, taxonomy, codename)
	if err != nil {
		return false, err
	}
	if len(direct) > 0 {
		return true, nil
	}

	group, err := s.perms.GroupPermissions(ctx, adminID, taxonomy, codename)
	if err != nil {
		return false, err
	}
	return len(group) > 0, nil
}

// AllPermissions returns the sorted union of direct and group-derived
// codenames the admin holds in one taxonomy. The taxonomy is explicit so
// both catalogs enumerate the same way.
func (s *AuthzService) AllPermissions(ctx context.Context, adminID uint, taxonomy models.Taxonomy) ([]string, error) {
	direct, err := s.perms.DirectPermissions(ctx, adminID, taxonomy, "")
	if err != nil {
		return nil, err
	}
	group, err := s.perms.GroupPermissions(ctx, adminID, taxonomy, "")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(direct)+len(group))
	for _, p := range direct {
		seen[p.Codename] = struct{}{}
	}
	for _, p := range group {
		seen[p.Codename] = struct{}{}
	}

	codenames := make([]string, 0, len(seen))
	for codename := range seen {
		codenames = append(codenames, codename)
	}
	sort.Strings(codenames)
	return codenames, nil
}
