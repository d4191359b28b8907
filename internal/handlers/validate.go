package handlers

import (
	"strings"
	"unicode/utf8"

	"studiegids/internal/store"
)

// Validation limits for edit submissions.
const (
	maxSummaryLen   = 10_000
	maxObjectives   = 100
	maxObjectiveLen = 1_000
	maxTags         = 50
	maxTagLen       = 100
	maxCredits      = 60
)

// validateEdit checks an edit submission and returns the first error found.
// Objective and tag entries are trimmed in place.
func validateEdit(req *store.EditRequest) string {
	if utf8.RuneCountInString(req.SummaryNL) > maxSummaryLen {
		return "Summary (NL) is too long (max 10,000 characters)."
	}
	if utf8.RuneCountInString(req.SummaryEN) > maxSummaryLen {
		return "Summary (EN) is too long (max 10,000 characters)."
	}
	if req.Credits < 0 || req.Credits > maxCredits {
		return "Credits must be between 0 and 60."
	}
	if len(req.Objectives) > maxObjectives {
		return "Too many objectives (max 100)."
	}
	for i := range req.Objectives {
		req.Objectives[i].TextNL = strings.TrimSpace(req.Objectives[i].TextNL)
		if req.Objectives[i].TextNL == "" {
			return "Objective text is required."
		}
		if utf8.RuneCountInString(req.Objectives[i].TextNL) > maxObjectiveLen {
			return "Objective text is too long (max 1,000 characters)."
		}
		if en := req.Objectives[i].TextEN; en != nil && utf8.RuneCountInString(*en) > maxObjectiveLen {
			return "Objective text is too long (max 1,000 characters)."
		}
	}
	if len(req.Tags) > maxTags {
		return "Too many tags (max 50)."
	}
	for i := range req.Tags {
		req.Tags[i] = strings.TrimSpace(req.Tags[i])
		if req.Tags[i] == "" {
			return "Tag name is required."
		}
		if utf8.RuneCountInString(req.Tags[i]) > maxTagLen {
			return "Tag name is too long (max 100 characters)."
		}
	}
	return ""
}
