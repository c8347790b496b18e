package export

import (
	"fmt"
	"strings"

	"github.com/startuphub/startup-advisor/internal/common/models"
	"github.com/startuphub/startup-advisor/pkg/utils"
)

const fallbackName = "This company"

// Export turns organization records into embeddable text chunks. It is
// a pure transformation: rerunning it on unchanged input produces
// identical chunks.
func Export(orgs []models.Organization, domain string, width int) []models.Chunk {
	if width <= 0 {
		width = 500
	}

	var chunks []models.Chunk
	for i := range orgs {
		org := &orgs[i]
		text := Sentence(org, domain)
		if strings.TrimSpace(text) == "" {
			continue
		}

		fields := models.FieldList(utils.RemoveDuplicates(org.FieldNames()))
		for _, segment := range WrapText(text, width) {
			chunks = append(chunks, models.Chunk{
				OrgID:        org.ID,
				Name:         org.Name,
				Fields:       fields,
				Description:  org.Description,
				WebsiteURL:   org.WebsiteURL,
				Email:        org.Email,
				Phone:        org.Phone,
				FacebookURL:  org.FacebookURL,
				Address:      org.Address,
				LogoImageURL: org.LogoImage,
				Text:         segment,
			})
		}
	}
	return chunks
}

// Sentence synthesizes the descriptive sentence for one organization,
// stripping a duplicated leading occurrence of the name inside the
// description. Descriptions arrive from a web form and may carry CR/LF
// and tab noise, so they are normalized first.
func Sentence(org *models.Organization, domain string) string {
	description := utils.NormalizeText(org.Description)
	if org.Name != "" && strings.HasPrefix(description, org.Name) {
		description = strings.TrimSpace(description[len(org.Name):])
	}

	name := org.Name
	if name == "" {
		name = fallbackName
	}
	return strings.TrimSpace(fmt.Sprintf("%s operates in %s. %s", name, domain, description))
}

// OrphanTags returns the names of field tags whose TypeId does not
// resolve against the Types table. The export still proceeds; orphans
// are reported so the upstream data can be repaired.
func OrphanTags(orgs []models.Organization, types []models.FieldType) []string {
	typeIDs := make(map[int64]bool, len(types))
	for _, t := range types {
		typeIDs[t.ID] = true
	}
	var orphans []string
	for i := range orgs {
		for _, f := range orgs[i].Fields {
			if !typeIDs[f.TypeID] && !utils.Contains(orphans, f.Name) {
				orphans = append(orphans, f.Name)
			}
		}
	}
	return orphans
}

// WrapText splits text into segments of at most width characters,
// breaking on word boundaries. Whitespace runs collapse to single
// spaces; a single word longer than width is hard-split.
func WrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var segments []string
	var current strings.Builder
	for _, word := range words {
		for len(word) > width {
			if current.Len() > 0 {
				segments = append(segments, current.String())
				current.Reset()
			}
			segments = append(segments, word[:width])
			word = word[width:]
		}
		if word == "" {
			continue
		}
		if current.Len() > 0 && current.Len()+1+len(word) > width {
			segments = append(segments, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		segments = append(segments, current.String())
	}
	return segments
}
