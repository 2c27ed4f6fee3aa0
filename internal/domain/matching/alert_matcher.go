package matching

import (
	"strings"

	"job-scraping/internal/domain/alert"
	"job-scraping/internal/domain/job"
)

type Pair struct {
	Listing job.Listing
	Alert   alert.Alert
}

// Matches reports whether l satisfies every filter a carries. The keyword is
// a case-insensitive substring of the title or the company; the location
// filter a substring of the listing location; the salary floor is inclusive.
// Experience is stored on the alert but not matched.
func Matches(l job.Listing, a alert.Alert) bool {
	kw := strings.ToLower(strings.TrimSpace(a.Keyword))
	if kw == "" {
		return false
	}
	if !strings.Contains(strings.ToLower(l.Title), kw) && !strings.Contains(strings.ToLower(l.Company), kw) {
		return false
	}

	if a.Location != nil {
		if loc := strings.ToLower(strings.TrimSpace(*a.Location)); loc != "" {
			if !strings.Contains(strings.ToLower(l.Location), loc) {
				return false
			}
		}
	}

	if a.MinSalary != nil && l.SalaryNumeric < *a.MinSalary {
		return false
	}
	return true
}

// Match pairs every listing with every alert it satisfies, listings first.
func Match(listings []job.Listing, alerts []alert.Alert) []Pair {
	out := make([]Pair, 0)
	for _, l := range listings {
		for _, a := range alerts {
			if Matches(l, a) {
				out = append(out, Pair{Listing: l, Alert: a})
			}
		}
	}
	return out
}

// Listings returns the distinct matched listings in first-match order.
func Listings(pairs []Pair) []job.Listing {
	seen := make(map[job.Key]struct{}, len(pairs))
	out := make([]job.Listing, 0, len(pairs))
	for _, p := range pairs {
		k := p.Listing.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, p.Listing)
	}
	return out
}
