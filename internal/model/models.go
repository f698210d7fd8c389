// Package model defines shared data structures for the talent service.
package model

import "time"

// TalentSummary mirrors one row of the remote list endpoint. It carries the
// rank/score signals that only exist on the list response, plus the nested
// display name shown in run logs. Summaries live only for the duration of
// one page's processing.
type TalentSummary struct {
	ID                    int64 `json:"id"`
	SearchScore           any   `json:"search_score"`
	MatchingSkillsPercent any   `json:"matching_skills_percent"`
	PersonalRank          any   `json:"personal_rank"` // the remote sends an array
	User                  struct {
		Name string `json:"name"`
	} `json:"user"`
}

// TalentDetail is the full per-talent record fetched by id. The remote shape
// is arbitrary nested JSON (user profile, role, location, external profiles,
// skills, work stats), so it stays schemaless.
type TalentDetail = map[string]any

// PageResult mirrors the top-level remote list response and drives loop
// continuation: a nil Results means the key was absent, a nil Next means
// there is no further page.
type PageResult struct {
	Results []TalentSummary `json:"results"`
	Next    *string         `json:"next"`
}

// SaveResult reports what a single upsert did, for observability.
type SaveResult struct {
	ID       int64 `json:"id"`
	Matched  int64 `json:"matched"`
	Modified int64 `json:"modified"`
	Upserted int64 `json:"upserted"`
}

// RunReport summarises one scrape run. It exists only for the duration of
// the invocation and is never persisted; re-running a page range is the
// recovery path after a bad run.
type RunReport struct {
	RunID       string
	TotalSaved  int
	TotalErrors int
	Pages       int
	StartedAt   time.Time
	FinishedAt  time.Time
}
