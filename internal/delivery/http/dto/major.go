package dto

import "majormatch/internal/usecase"

type MajorResponse struct {
	Name            string             `json:"name"`
	Requirements    []string           `json:"requirements"`
	EstimatedIncome *int               `json:"estimated_income"`
	InterestWeights map[string]float64 `json:"interest_weights"`
	Jobs            []string           `json:"jobs"`
	Employers       []string           `json:"employers"`
}

func NewMajorListResponse(items []usecase.MajorSummary) []MajorResponse {
	out := make([]MajorResponse, 0, len(items))
	for _, m := range items {
		out = append(out, MajorResponse{
			Name:            m.Name,
			Requirements:    nonNil(m.Requirements),
			EstimatedIncome: m.EstimatedIncome,
			InterestWeights: m.InterestWeights,
			Jobs:            nonNil(m.Jobs),
			Employers:       nonNil(m.Employers),
		})
	}
	return out
}
