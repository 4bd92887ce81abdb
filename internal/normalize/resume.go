package normalize

import "github.com/jonathan/resume-structurer/internal/types"

// Resume canonicalizes skill categories and per-entry technology lists in place.
func Resume(r *types.CanonicalResume) {
	r.TechnicalSkills = DeduplicateSkills(r.TechnicalSkills)
	for i := range r.Projects {
		r.Projects[i].Technologies = Technologies(r.Projects[i].Technologies)
	}
	for i := range r.Experience {
		r.Experience[i].Technologies = Technologies(r.Experience[i].Technologies)
	}
}
