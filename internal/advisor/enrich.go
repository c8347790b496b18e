package advisor

import (
	"strings"

	"github.com/startuphub/startup-advisor/internal/common/models"
	"github.com/startuphub/startup-advisor/pkg/utils"
)

// MetadataLookup resolves an organization name to its ground-truth
// record. Implemented by the runtime store.
type MetadataLookup interface {
	MetadataByName(name string) (*models.MetadataRecord, bool)
}

// Enrich overwrites model-produced company entries with ground-truth
// metadata, joined by exact name. Unresolved names pass through with
// whatever the model produced, untouched.
func Enrich(resp *models.StructuredResponse, lookup MetadataLookup, baseURL, staticImagePath string) {
	for ti := range resp.Types {
		companies := resp.Types[ti].Companies
		for ci := range companies {
			c := &companies[ci]
			rec, ok := lookup.MetadataByName(c.Name)
			if !ok {
				continue
			}
			c.Fields = rec.Fields
			if rec.WebsiteURL != "" {
				c.WebsiteURL = rec.WebsiteURL
			}
			if rec.Email != "" {
				c.Email = rec.Email
			}
			if rec.Phone != "" {
				c.Phone = rec.Phone
			}
			if rec.FacebookURL != "" {
				c.FacebookURL = rec.FacebookURL
			}
			if rec.Address != "" {
				c.Address = rec.Address
			}
			if rec.LogoImageURL != "" {
				c.LogoImageURL = QualifyLogoURL(rec.LogoImageURL, baseURL, staticImagePath)
			}
		}
	}
}

// QualifyLogoURL turns a stored logo filename into an absolute URL.
// Already-absolute URLs pass through unchanged.
func QualifyLogoURL(logo, baseURL, staticImagePath string) string {
	if strings.HasPrefix(logo, "http://") || strings.HasPrefix(logo, "https://") {
		return logo
	}
	base := strings.TrimSuffix(baseURL, "/")
	path := staticImagePath
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return base + path + strings.TrimPrefix(logo, "/")
}

// GroupAndFilter rewrites the response's groups into the canonical
// category order, merging duplicate groups. Categories the model did
// not use are dropped unless includeEmpty is set, in which case every
// canonical category appears, empty ones with an empty company list.
// Groups with unrecognized type names are kept after the canonical
// ones so nothing the model said is silently lost.
func GroupAndFilter(resp *models.StructuredResponse, groups []string, includeEmpty bool) {
	merged := make(map[string][]models.Company, len(resp.Types))
	var unknownOrder []string
	for _, tg := range resp.Types {
		if _, seen := merged[tg.Type]; !seen && !utils.Contains(groups, tg.Type) {
			unknownOrder = append(unknownOrder, tg.Type)
		}
		merged[tg.Type] = append(merged[tg.Type], tg.Companies...)
	}

	out := make([]models.TypeGroup, 0, len(groups)+len(unknownOrder))
	for _, g := range groups {
		companies := merged[g]
		if len(companies) == 0 && !includeEmpty {
			continue
		}
		if companies == nil {
			companies = []models.Company{}
		}
		out = append(out, models.TypeGroup{Type: g, Companies: companies})
	}
	for _, g := range unknownOrder {
		if len(merged[g]) == 0 {
			continue
		}
		out = append(out, models.TypeGroup{Type: g, Companies: merged[g]})
	}
	resp.Types = out
}
