package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"majormatch/internal/dataset"
	"majormatch/internal/domain/majorfit"
	"majormatch/internal/metrics"
	"majormatch/internal/pkg/logger"
	"majormatch/internal/transcript"

	"github.com/google/uuid"
)

const (
	MinDesiredIncome     = 30000
	MaxDesiredIncome     = 150000
	DefaultDesiredIncome = 60000
)

type State string

const (
	StateWaiting State = "waiting_for_input"
	StateReady   State = "ready"
)

type DatasetSource interface {
	LoadDataset(ctx context.Context) (dataset.Dataset, error)
}

// Survey is the student's self-assessment. Interests are 0..10 per dimension.
type Survey struct {
	Interests     majorfit.InterestVector
	DesiredIncome int
}

func DefaultSurvey() Survey {
	return Survey{Interests: majorfit.DefaultInterestVector(), DesiredIncome: DefaultDesiredIncome}
}

// NewSurvey fills dimensions missing from interests with the default of 5 and a
// nil desiredIncome with 60000, then validates the result.
func NewSurvey(interests map[string]int, desiredIncome *int) (Survey, error) {
	values := majorfit.DefaultInterestVector().Map()
	for k, v := range interests {
		if _, err := majorfit.ParseDimension(k); err != nil {
			return Survey{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		values[k] = v
	}
	vec, err := majorfit.NewInterestVector(values)
	if err != nil {
		return Survey{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	s := Survey{Interests: vec, DesiredIncome: DefaultDesiredIncome}
	if desiredIncome != nil {
		s.DesiredIncome = *desiredIncome
	}
	if err := s.Validate(); err != nil {
		return Survey{}, err
	}
	return s, nil
}

func (s Survey) Validate() error {
	if err := s.Interests.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if s.DesiredIncome < MinDesiredIncome || s.DesiredIncome > MaxDesiredIncome {
		return fmt.Errorf("%w: desired income %d outside [%d, %d]", ErrInvalidInput, s.DesiredIncome, MinDesiredIncome, MaxDesiredIncome)
	}
	return nil
}

// TranscriptUpload is a transcript file as received. A nil Body means nothing
// was uploaded.
type TranscriptUpload struct {
	Filename string
	Body     io.Reader
}

type Recommendation struct {
	Major             string
	MatchedCount      int
	TotalCount        int
	CompletionPercent int
	InterestPercent   int
	EstimatedSalary   *int
	IncomeGap         int
	Jobs              []string
	Employers         []string
	Matched           []string
	Remaining         []string
}

type RecommendationResult struct {
	RunID           string
	State           State
	Interests       majorfit.InterestVector
	DesiredIncome   int
	CourseCount     int
	Recommendations []Recommendation
}

type RecommendationUsecase interface {
	RecommendFromTranscript(ctx context.Context, upload TranscriptUpload, survey Survey) (RecommendationResult, error)
	RecommendFromCourses(ctx context.Context, courses []string, survey Survey) (RecommendationResult, error)
}

type Recommender struct {
	source DatasetSource
	log    logger.Logger
}

func NewRecommender(source DatasetSource, log logger.Logger) *Recommender {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Recommender{source: source, log: log}
}

// RecommendFromTranscript reads the Course column from the upload. A missing,
// unreadable or column-less transcript yields the waiting state, not an error.
func (u *Recommender) RecommendFromTranscript(ctx context.Context, upload TranscriptUpload, survey Survey) (RecommendationResult, error) {
	if upload.Body == nil {
		return u.RecommendFromCourses(ctx, nil, survey)
	}

	courses, err := transcript.Read(upload.Body, upload.Filename)
	if err != nil {
		u.log.Warn("transcript not usable", map[string]interface{}{"filename": upload.Filename, "error": err})
		courses = nil
	}
	return u.RecommendFromCourses(ctx, courses, survey)
}

// RecommendFromCourses scores courses against the catalog. A nil slice means
// no transcript was provided; an empty one is a transcript with no courses.
func (u *Recommender) RecommendFromCourses(ctx context.Context, courses []string, survey Survey) (RecommendationResult, error) {
	started := time.Now()

	if err := survey.Validate(); err != nil {
		metrics.ObserveRecommendation(metrics.OutcomeInvalidInput, started)
		return RecommendationResult{}, err
	}

	res := RecommendationResult{
		RunID:           uuid.NewString(),
		State:           StateWaiting,
		Interests:       survey.Interests,
		DesiredIncome:   survey.DesiredIncome,
		Recommendations: []Recommendation{},
	}
	if courses == nil {
		metrics.ObserveRecommendation(metrics.OutcomeWaiting, started)
		return res, nil
	}

	ds, err := u.source.LoadDataset(ctx)
	if err != nil {
		u.log.Error("load dataset failed", map[string]interface{}{"run_id": res.RunID, "error": err})
		metrics.ObserveRecommendation(metrics.OutcomeError, started)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return RecommendationResult{}, err
		}
		return RecommendationResult{}, fmt.Errorf("%w: %v", ErrDatasetUnavailable, err)
	}
	catalog, err := ds.Catalog()
	if err != nil {
		u.log.Error("build catalog failed", map[string]interface{}{"run_id": res.RunID, "error": err})
		metrics.ObserveRecommendation(metrics.OutcomeError, started)
		return RecommendationResult{}, ErrInternal
	}
	ref := ds.Reference()

	ranked := majorfit.Rank(catalog, courses, survey.Interests, survey.DesiredIncome, ref)

	res.State = StateReady
	res.CourseCount = len(courses)
	for _, sm := range ranked {
		res.Recommendations = append(res.Recommendations, BuildRecommendation(sm, ref))
	}

	metrics.TranscriptCourses.Observe(float64(len(courses)))
	metrics.ObserveRecommendation(metrics.OutcomeRanked, started)
	u.log.Info("recommendations ranked", map[string]interface{}{
		"run_id":  res.RunID,
		"courses": len(courses),
		"majors":  catalog.Len(),
		"top":     topMajor(res.Recommendations),
	})
	return res, nil
}

// BuildRecommendation turns a scored major into its display form. Percentages
// round half to even.
func BuildRecommendation(sm majorfit.ScoredMajor, ref majorfit.ReferenceData) Recommendation {
	career := ref.Career(sm.Major)
	rec := Recommendation{
		Major:             sm.Major,
		MatchedCount:      sm.MatchedCount(),
		TotalCount:        sm.TotalCount(),
		CompletionPercent: Percent(sm.Completion),
		InterestPercent:   Percent(sm.Interest),
		IncomeGap:         sm.IncomeGap,
		Jobs:              career.Jobs,
		Employers:         career.Employers,
		Matched:           append([]string{}, sm.Matched...),
		Remaining:         sm.Remaining(),
	}
	if income, ok := ref.EstimatedIncome(sm.Major); ok {
		rec.EstimatedSalary = &income
	}
	return rec
}

func Percent(fraction float64) int {
	return int(math.RoundToEven(fraction * 100))
}

func topMajor(recs []Recommendation) string {
	if len(recs) == 0 {
		return ""
	}
	return recs[0].Major
}
