package domain

import (
	"fmt"
	"strings"
)

type Location string

var DefaultLocations = Locations{"4Seasons", "Omega", "Kamanina", "Genuez"}

// Locations is the configured set of delivery zones, in display order.
type Locations []Location

func ParseLocations(names []string) Locations {
	out := make(Locations, 0, len(names))
	seen := make(map[Location]struct{}, len(names))
	for _, n := range names {
		l := Location(strings.TrimSpace(n))
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

func (ls Locations) Contains(l Location) bool {
	for _, v := range ls {
		if v == l {
			return true
		}
	}
	return false
}

func (ls Locations) Parse(s string) (Location, error) {
	l := Location(strings.TrimSpace(s))
	if !ls.Contains(l) {
		return "", fmt.Errorf("unknown location %q: %w", s, ErrValidation)
	}
	return l, nil
}
