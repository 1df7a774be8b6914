package majorfit

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

type Dimension string

const (
	DimensionNumbers  Dimension = "numbers"
	DimensionPeople   Dimension = "people"
	DimensionCreative Dimension = "creative"
	DimensionBusiness Dimension = "business"
	DimensionTech     Dimension = "tech"
)

// Dimensions lists the survey dimensions in their fixed order.
func Dimensions() []Dimension {
	return []Dimension{DimensionNumbers, DimensionPeople, DimensionCreative, DimensionBusiness, DimensionTech}
}

func ParseDimension(s string) (Dimension, error) {
	d := Dimension(s)
	switch d {
	case DimensionNumbers, DimensionPeople, DimensionCreative, DimensionBusiness, DimensionTech:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDimension, s)
}

const (
	MinInterest     = 0
	MaxInterest     = 10
	DefaultInterest = 5
)

var (
	ErrUnknownDimension   = errors.New("unknown interest dimension")
	ErrMissingDimension   = errors.New("missing interest dimension")
	ErrInterestOutOfRange = errors.New("interest value out of range")
	ErrInvalidWeights     = errors.New("invalid interest weights")
)

// InterestVector is one captured survey. It is a value; scoring never modifies it.
type InterestVector struct {
	Numbers  int `json:"numbers"`
	People   int `json:"people"`
	Creative int `json:"creative"`
	Business int `json:"business"`
	Tech     int `json:"tech"`
}

func DefaultInterestVector() InterestVector {
	return InterestVector{
		Numbers:  DefaultInterest,
		People:   DefaultInterest,
		Creative: DefaultInterest,
		Business: DefaultInterest,
		Tech:     DefaultInterest,
	}
}

// NewInterestVector builds a vector from a survey mapping. The mapping must hold
// exactly the five dimensions, each within [MinInterest, MaxInterest].
func NewInterestVector(values map[string]int) (InterestVector, error) {
	var v InterestVector
	for k := range values {
		if _, err := ParseDimension(k); err != nil {
			return InterestVector{}, err
		}
	}
	for _, d := range Dimensions() {
		val, ok := values[string(d)]
		if !ok {
			return InterestVector{}, fmt.Errorf("%w: %s", ErrMissingDimension, d)
		}
		v.set(d, val)
	}
	if err := v.Validate(); err != nil {
		return InterestVector{}, err
	}
	return v, nil
}

func (v InterestVector) Get(d Dimension) int {
	switch d {
	case DimensionNumbers:
		return v.Numbers
	case DimensionPeople:
		return v.People
	case DimensionCreative:
		return v.Creative
	case DimensionBusiness:
		return v.Business
	case DimensionTech:
		return v.Tech
	}
	return 0
}

func (v *InterestVector) set(d Dimension, val int) {
	switch d {
	case DimensionNumbers:
		v.Numbers = val
	case DimensionPeople:
		v.People = val
	case DimensionCreative:
		v.Creative = val
	case DimensionBusiness:
		v.Business = val
	case DimensionTech:
		v.Tech = val
	}
}

func (v InterestVector) Validate() error {
	for _, d := range Dimensions() {
		val := v.Get(d)
		if val < MinInterest || val > MaxInterest {
			return fmt.Errorf("%w: %s=%d (want %d..%d)", ErrInterestOutOfRange, d, val, MinInterest, MaxInterest)
		}
	}
	return nil
}

func (v InterestVector) Map() map[string]int {
	out := make(map[string]int, 5)
	for _, d := range Dimensions() {
		out[string(d)] = v.Get(d)
	}
	return out
}

// WeightRecord holds the share of each dimension in a major's affinity score.
// A valid record is non-negative and sums to 1.0.
type WeightRecord map[Dimension]float64

const weightSumTolerance = 0.001

func (w WeightRecord) Sum() float64 {
	var s float64
	for _, v := range w {
		s += v
	}
	return s
}

func (w WeightRecord) Validate() error {
	for d, v := range w {
		if _, err := ParseDimension(string(d)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidWeights, err)
		}
		if v < 0 {
			return fmt.Errorf("%w: negative weight %s=%f", ErrInvalidWeights, d, v)
		}
	}
	if math.Abs(w.Sum()-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: weights sum to %.4f, must sum to 1.0", ErrInvalidWeights, w.Sum())
	}
	return nil
}

func (w WeightRecord) clone() WeightRecord {
	out := make(WeightRecord, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// DefaultWeights is used for majors no rule recognises: an even split, which is
// the same as summing the survey and dividing by 50.
func DefaultWeights() WeightRecord {
	return WeightRecord{
		DimensionNumbers:  0.2,
		DimensionPeople:   0.2,
		DimensionCreative: 0.2,
		DimensionBusiness: 0.2,
		DimensionTech:     0.2,
	}
}

// KeywordRule assigns Weights to every major whose name contains Keyword,
// compared case-insensitively.
type KeywordRule struct {
	Keyword string
	Weights WeightRecord
}

// DefaultKeywordRules returns the built-in rules in priority order; the first
// matching rule wins.
func DefaultKeywordRules() []KeywordRule {
	return []KeywordRule{
		{Keyword: "accounting", Weights: WeightRecord{DimensionNumbers: 0.4, DimensionBusiness: 0.4, DimensionTech: 0.2}},
		{Keyword: "psychology", Weights: WeightRecord{DimensionPeople: 0.6, DimensionCreative: 0.2, DimensionTech: 0.2}},
		{Keyword: "business", Weights: WeightRecord{DimensionBusiness: 0.5, DimensionNumbers: 0.3, DimensionPeople: 0.2}},
		{Keyword: "english", Weights: WeightRecord{DimensionCreative: 0.6, DimensionPeople: 0.3, DimensionTech: 0.1}},
		{Keyword: "political", Weights: WeightRecord{DimensionPeople: 0.5, DimensionCreative: 0.3, DimensionNumbers: 0.2}},
	}
}

func ResolveWeights(major string, rules []KeywordRule) WeightRecord {
	name := strings.ToLower(major)
	for _, r := range rules {
		if strings.Contains(name, strings.ToLower(r.Keyword)) {
			return r.Weights.clone()
		}
	}
	return DefaultWeights()
}

// WeightTable maps a major name to its weight record. Lookups for names the
// table does not hold fall back to DefaultWeights.
type WeightTable struct {
	byMajor map[string]WeightRecord
}

func NewWeightTable(records map[string]WeightRecord) WeightTable {
	t := WeightTable{byMajor: make(map[string]WeightRecord, len(records))}
	for name, w := range records {
		t.byMajor[name] = w.clone()
	}
	return t
}

func (t WeightTable) Lookup(major string) WeightRecord {
	if w, ok := t.byMajor[major]; ok {
		return w
	}
	return DefaultWeights()
}

// Score returns the interest affinity of a major in [0,1].
func (t WeightTable) Score(major string, interests InterestVector) float64 {
	return weightedAffinity(t.Lookup(major), interests)
}

// Score resolves the major through the default keyword rules and scores it.
func Score(major string, interests InterestVector) float64 {
	return weightedAffinity(ResolveWeights(major, DefaultKeywordRules()), interests)
}

func weightedAffinity(w WeightRecord, interests InterestVector) float64 {
	var s float64
	for _, d := range Dimensions() {
		s += w[d] * float64(interests.Get(d))
	}
	return clampUnit(s / MaxInterest)
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
