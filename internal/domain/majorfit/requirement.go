package majorfit

import "strings"

type RequirementKind int

const (
	RequirementExact RequirementKind = iota
	RequirementPrefixAny
	RequirementPrefixYear
)

func (k RequirementKind) String() string {
	switch k {
	case RequirementPrefixAny:
		return "prefix_any"
	case RequirementPrefixYear:
		return "prefix_year"
	default:
		return "exact"
	}
}

const (
	anyCourseSuffix = "XXXX"
	firstYearSuffix = "1XXX"
	firstYearInfix  = " 1"
)

// Requirement is a catalog requirement parsed once when the catalog is built.
// Raw keeps the catalog text for display; Prefix is only set for wildcard kinds.
type Requirement struct {
	Raw    string
	Kind   RequirementKind
	Prefix string
}

// ParseRequirement classifies a pattern by suffix. "XXXX" is checked before "1XXX".
func ParseRequirement(pattern string) Requirement {
	switch {
	case strings.HasSuffix(pattern, anyCourseSuffix):
		return Requirement{Raw: pattern, Kind: RequirementPrefixAny, Prefix: firstToken(pattern)}
	case strings.HasSuffix(pattern, firstYearSuffix):
		return Requirement{Raw: pattern, Kind: RequirementPrefixYear, Prefix: firstToken(pattern) + firstYearInfix}
	default:
		return Requirement{Raw: pattern, Kind: RequirementExact}
	}
}

func ParseRequirements(patterns []string) []Requirement {
	out := make([]Requirement, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, ParseRequirement(p))
	}
	return out
}

// MatchedBy reports whether any completed course satisfies the requirement.
// Codes are compared byte for byte; no case folding or trimming happens here.
func (r Requirement) MatchedBy(completed []string) bool {
	switch r.Kind {
	case RequirementPrefixAny, RequirementPrefixYear:
		for _, c := range completed {
			if strings.HasPrefix(c, r.Prefix) {
				return true
			}
		}
		return false
	default:
		for _, c := range completed {
			if c == r.Raw {
				return true
			}
		}
		return false
	}
}

func Matches(pattern string, completed []string) bool {
	return ParseRequirement(pattern).MatchedBy(completed)
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
