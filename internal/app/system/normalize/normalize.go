// internal/app/system/normalize/normalize.go

// Package normalize canonicalizes user-supplied strings before they reach
// the stores or a query filter.
package normalize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/mvarner/pulseboard/internal/domain/models"
)

// strict strips every HTML element and attribute. Display names come from
// Google profile data and admin edit forms, so anything markup-shaped in
// them is noise at best.
var strict = bluemonday.StrictPolicy()

// Email lowercases and trims an email address. Emails are stored and
// compared in this form only.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name and strips any markup. Case is preserved.
func Name(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

// Role canonicalizes a role string to its stored spelling. Unrecognized
// values are returned trimmed so validation can reject them with the
// caller's original input intact.
func Role(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case strings.EqualFold(s, models.RoleAdmin):
		return models.RoleAdmin
	case strings.EqualFold(s, models.RoleUser):
		return models.RoleUser
	}
	return s
}

// Status canonicalizes a status string to its stored spelling, leaving
// unrecognized values trimmed.
func Status(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case strings.EqualFold(s, models.StatusActive):
		return models.StatusActive
	case strings.EqualFold(s, models.StatusInactive):
		return models.StatusInactive
	}
	return s
}

// QueryParam trims a query-string value.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
