// Package roster slices the doctor list into pages and answers surname searches.
package roster

import (
	"sort"
	"strings"

	"github.com/godilite/clinic-assistant/internal/schedule"
)

const (
	PageSize      = 7
	MaxSearchHits = 20
)

type Page struct {
	Doctors    []schedule.Doctor
	Number     int
	TotalPages int
	HasPrev    bool
	HasNext    bool
}

// TotalPages is ceil(total / PageSize).
func TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + PageSize - 1) / PageSize
}

// Paginate returns page number `page` (zero-based) of doctors in list order.
// Out-of-range pages come back with no doctors.
func Paginate(doctors []schedule.Doctor, page int) Page {
	total := TotalPages(len(doctors))
	p := Page{
		Number:     page,
		TotalPages: total,
		HasPrev:    page > 0 && page <= total,
		HasNext:    page >= 0 && page < total-1,
	}
	if page < 0 || page >= total {
		p.Doctors = []schedule.Doctor{}
		return p
	}

	start := page * PageSize
	end := min(start+PageSize, len(doctors))
	p.Doctors = doctors[start:end]
	return p
}

// ClampPage keeps a requested page inside [0, TotalPages-1].
func ClampPage(page, total int) int {
	pages := TotalPages(total)
	switch {
	case pages == 0 || page < 0:
		return 0
	case page >= pages:
		return pages - 1
	}
	return page
}

// SearchByPrefix returns doctors whose name starts with prefix, sorted by name
// and capped at MaxSearchHits. The match is case-sensitive.
func SearchByPrefix(doctors []schedule.Doctor, prefix string) []schedule.Doctor {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil
	}

	var hits []schedule.Doctor
	for _, d := range doctors {
		if strings.HasPrefix(d.Name, prefix) {
			hits = append(hits, d)
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Name < hits[j].Name
	})
	if len(hits) > MaxSearchHits {
		hits = hits[:MaxSearchHits]
	}
	return hits
}
