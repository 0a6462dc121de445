package services

import (
	"strings"

	"github.com/printworks/printworks-api/models"
)

// ProfileMatcher resolves an order line-item title to a product profile.
// Matching is a pluggable strategy so the heuristic can be swapped and
// tested independently.
type ProfileMatcher interface {
	Match(title string, profiles []models.ProductProfile) *models.ProductProfile
}

// ExactMatcher matches on case-insensitive title equality.
type ExactMatcher struct{}

// Match returns the first profile whose title equals the item title,
// ignoring case.
func (ExactMatcher) Match(title string, profiles []models.ProductProfile) *models.ProductProfile {
	for i := range profiles {
		if strings.EqualFold(profiles[i].Title, title) {
			return &profiles[i]
		}
	}
	return nil
}

// SubstringMatcher matches on bidirectional substring containment: the
// item title containing the profile title, or the profile title
// containing the item title. The first match in iteration order wins, so
// callers must pass profiles in a deterministic order.
type SubstringMatcher struct{}

// Match returns the first profile related to the title by containment.
func (SubstringMatcher) Match(title string, profiles []models.ProductProfile) *models.ProductProfile {
	lowered := strings.ToLower(title)
	for i := range profiles {
		profileTitle := strings.ToLower(profiles[i].Title)
		if strings.Contains(lowered, profileTitle) || strings.Contains(profileTitle, lowered) {
			return &profiles[i]
		}
	}
	return nil
}

// FallbackMatcher tries an exact match first and falls back to substring
// containment. This is the matcher used by allocation and scheduling.
type FallbackMatcher struct {
	exact     ExactMatcher
	substring SubstringMatcher
}

// Match resolves a title via exact match, then containment.
func (m FallbackMatcher) Match(title string, profiles []models.ProductProfile) *models.ProductProfile {
	if p := m.exact.Match(title, profiles); p != nil {
		return p
	}
	return m.substring.Match(title, profiles)
}
