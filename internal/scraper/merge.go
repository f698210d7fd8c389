package scraper

import "talentscout/talent-service/internal/model"

// Summary-only fields injected into the detail record on merge. The list
// endpoint is the only place the remote exposes these rank/score signals.
const (
	fieldSearchScore           = "search_score"
	fieldMatchingSkillsPercent = "matching_skills_percent"
	fieldPersonalRank          = "personal_rank"
)

// Merge combines a detail record with the rank/score fields of its list
// summary. The result starts as a shallow copy of detail; only the three
// summary fields are overwritten, and the summary always wins on those.
// Nested objects are never merged.
func Merge(detail model.TalentDetail, summary model.TalentSummary) model.TalentDetail {
	merged := make(model.TalentDetail, len(detail)+3)
	for k, v := range detail {
		merged[k] = v
	}

	merged[fieldSearchScore] = summary.SearchScore
	merged[fieldMatchingSkillsPercent] = summary.MatchingSkillsPercent
	merged[fieldPersonalRank] = summary.PersonalRank

	return merged
}
