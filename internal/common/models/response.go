package models

// Company is one suggested organization inside a category group. Name
// and reason come from the generative model; everything else is
// overwritten from the metadata table during enrichment when the name
// resolves.
type Company struct {
	Name         string    `json:"name"`
	Reason       string    `json:"reason"`
	Fields       FieldList `json:"fields"`
	WebsiteURL   string    `json:"websiteUrl,omitempty"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	FacebookURL  string    `json:"facebookUrl,omitempty"`
	Address      string    `json:"address,omitempty"`
	LogoImageURL string    `json:"logoImageUrl,omitempty"`
}

// TypeGroup groups suggestions under one support category.
type TypeGroup struct {
	Type      string    `json:"type"`
	Companies []Company `json:"companies"`
}

// StructuredResponse is the final shape of a suggestion answer, and
// also the shape the generative model is instructed to emit.
type StructuredResponse struct {
	Message string      `json:"message"`
	Types   []TypeGroup `json:"types"`
}
