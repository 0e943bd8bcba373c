package model

// Scheme is a single welfare scheme in the catalog
type Scheme struct {
	Name        string   `json:"name"`                  // Display title (normalized from "name" or "title")
	Description string   `json:"description"`           // Short description shown to the user
	Category    string   `json:"category"`              // Canonical category, e.g. "Health"
	Keywords    []string `json:"keywords,omitempty"`    // Extra matchable phrases
	Eligibility string   `json:"eligibility,omitempty"` // Free-text eligibility, empty when unknown
	URL         string   `json:"url,omitempty"`         // Official "apply / learn more" link
}

// Categories returns the distinct categories present in the catalog,
// in first-seen order
func Categories(schemes []Scheme) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range schemes {
		if s.Category == "" || seen[s.Category] {
			continue
		}
		seen[s.Category] = true
		out = append(out, s.Category)
	}
	return out
}
