// Package majorfit scores how well catalog majors fit a student's completed
// courses and survey interests.
package majorfit

import "sort"

// RankLimit is the size of the shortlist kept after the completion pre-filter.
const RankLimit = 3

type ScoredMajor struct {
	Major        string
	Completion   float64
	Interest     float64
	IncomeGap    int
	Matched      []string
	Requirements []string
}

func (s ScoredMajor) MatchedCount() int {
	return len(s.Matched)
}

func (s ScoredMajor) TotalCount() int {
	return len(s.Requirements)
}

// Remaining lists requirements not satisfied, in catalog order.
func (s ScoredMajor) Remaining() []string {
	matched := make(map[string]struct{}, len(s.Matched))
	for _, m := range s.Matched {
		matched[m] = struct{}{}
	}
	out := make([]string, 0, len(s.Requirements)-len(s.Matched))
	for _, r := range s.Requirements {
		if _, ok := matched[r]; ok {
			continue
		}
		out = append(out, r)
	}
	return out
}

func ScoreMajor(entry MajorEntry, completed []string, interests InterestVector, desiredIncome int, weights WeightTable, ref ReferenceData) ScoredMajor {
	matched := make([]string, 0, len(entry.Requirements))
	all := make([]string, 0, len(entry.Requirements))
	for _, r := range entry.Requirements {
		all = append(all, r.Raw)
		if r.MatchedBy(completed) {
			matched = append(matched, r.Raw)
		}
	}

	completion := 0.0
	if len(all) > 0 {
		completion = float64(len(matched)) / float64(len(all))
	}

	return ScoredMajor{
		Major:        entry.Name,
		Completion:   completion,
		Interest:     weights.Score(entry.Name, interests),
		IncomeGap:    IncomeGap(entry.Name, desiredIncome, ref.Incomes),
		Matched:      matched,
		Requirements: all,
	}
}

// Rank scores every major, keeps the RankLimit majors closest to completion and
// orders that shortlist by interest. Both sorts are stable, so ties keep catalog
// order and then completion order.
func Rank(catalog Catalog, completed []string, interests InterestVector, desiredIncome int, ref ReferenceData) []ScoredMajor {
	scored := make([]ScoredMajor, 0, catalog.Len())
	for _, e := range catalog.entries {
		scored = append(scored, ScoreMajor(e, completed, interests, desiredIncome, catalog.weights, ref))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Completion > scored[j].Completion
	})
	if len(scored) > RankLimit {
		scored = scored[:RankLimit]
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Interest > scored[j].Interest
	})

	return scored
}
