package dto

import (
	"majormatch/internal/usecase"
)

// CoursesRequest is the JSON body of POST /recommendations/courses. Omitted
// interests default to 5 and an omitted desired_income to 60000. A missing
// courses field means no transcript; an empty list is a transcript with no
// courses.
type CoursesRequest struct {
	Courses       []string       `json:"courses"`
	Interests     map[string]int `json:"interests"`
	DesiredIncome *int           `json:"desired_income"`
}

type RecommendationResponse struct {
	Major             string   `json:"major"`
	MatchedCount      int      `json:"matched_count"`
	TotalCount        int      `json:"total_count"`
	CompletionPercent int      `json:"completion_percent"`
	InterestPercent   int      `json:"interest_percent"`
	EstimatedSalary   *int     `json:"estimated_salary"`
	IncomeGap         int      `json:"income_gap"`
	Jobs              []string `json:"jobs"`
	Employers         []string `json:"employers"`
	Matched           []string `json:"matched"`
	Remaining         []string `json:"remaining"`
}

type RecommendationResultResponse struct {
	RunID           string                   `json:"run_id"`
	State           string                   `json:"state"`
	Message         string                   `json:"message,omitempty"`
	Interests       map[string]int           `json:"interests"`
	DesiredIncome   int                      `json:"desired_income"`
	CourseCount     int                      `json:"course_count"`
	Recommendations []RecommendationResponse `json:"recommendations"`
}

func NewRecommendationResultResponse(res usecase.RecommendationResult, waitingMessage string) RecommendationResultResponse {
	out := RecommendationResultResponse{
		RunID:           res.RunID,
		State:           string(res.State),
		Interests:       res.Interests.Map(),
		DesiredIncome:   res.DesiredIncome,
		CourseCount:     res.CourseCount,
		Recommendations: make([]RecommendationResponse, 0, len(res.Recommendations)),
	}
	if res.State == usecase.StateWaiting {
		out.Message = waitingMessage
	}
	for _, r := range res.Recommendations {
		out.Recommendations = append(out.Recommendations, RecommendationResponse{
			Major:             r.Major,
			MatchedCount:      r.MatchedCount,
			TotalCount:        r.TotalCount,
			CompletionPercent: r.CompletionPercent,
			InterestPercent:   r.InterestPercent,
			EstimatedSalary:   r.EstimatedSalary,
			IncomeGap:         r.IncomeGap,
			Jobs:              nonNil(r.Jobs),
			Employers:         nonNil(r.Employers),
			Matched:           nonNil(r.Matched),
			Remaining:         nonNil(r.Remaining),
		})
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
