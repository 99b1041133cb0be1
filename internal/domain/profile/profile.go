// Package profile contains the validated performance inputs and the
// domain-score normalization shared by every analytics component.
package profile

import (
	"fmt"
	"math"
	"sort"
)

// Bounds for raw performance metrics.
const (
	minScore        = 0.0
	maxScore        = 100.0
	minReactionTime = 0.1
	maxReactionTime = 5.0
	minAge          = 13
	maxAge          = 120

	// reactionTimeScale converts seconds into the 0-100 score space.
	reactionTimeScale = 50.0
)

// Domain identifies one of the four cognitive-skill axes.
type Domain string

// The four cognitive domains, in catalog order. Ordering matters: ties in
// rankings are broken by this order.
const (
	DomainWorkingMemory  Domain = "working_memory"
	DomainAttention      Domain = "attention"
	DomainProcessing     Domain = "processing_speed"
	DomainProblemSolving Domain = "problem_solving"
)

// Domains lists all domains in catalog order.
func Domains() []Domain {
	return []Domain{DomainWorkingMemory, DomainAttention, DomainProcessing, DomainProblemSolving}
}

// DisplayName returns the human-readable form of a domain ("working_memory"
// -> "Working Memory").
func (d Domain) DisplayName() string {
	switch d {
	case DomainWorkingMemory:
		return "Working Memory"
	case DomainAttention:
		return "Attention"
	case DomainProcessing:
		return "Processing Speed"
	case DomainProblemSolving:
		return "Problem Solving"
	}
	return string(d)
}

// Spoken returns the domain name with underscores replaced by spaces,
// used when composing reasoning sentences.
func (d Domain) Spoken() string {
	switch d {
	case DomainWorkingMemory:
		return "working memory"
	case DomainAttention:
		return "attention"
	case DomainProcessing:
		return "processing speed"
	case DomainProblemSolving:
		return "problem solving"
	}
	return string(d)
}

// Metrics holds the four raw performance measurements submitted per request.
type Metrics struct {
	Memory         float64 `json:"memory"`
	Attention      float64 `json:"attention"`
	ReactionTime   float64 `json:"reaction_time"`
	ProblemSolving float64 `json:"problem_solving"`
}

// Validate checks every metric against its documented bounds. The returned
// error names the offending field.
func (m Metrics) Validate() error {
	if m.Memory < minScore || m.Memory > maxScore {
		return fmt.Errorf("%w: memory must be between 0 and 100", ErrOutOfRange)
	}
	if m.Attention < minScore || m.Attention > maxScore {
		return fmt.Errorf("%w: attention must be between 0 and 100", ErrOutOfRange)
	}
	if m.ReactionTime < minReactionTime || m.ReactionTime > maxReactionTime {
		return fmt.Errorf("%w: reaction_time must be between 0.1 and 5.0", ErrOutOfRange)
	}
	if m.ProblemSolving < minScore || m.ProblemSolving > maxScore {
		return fmt.Errorf("%w: problem_solving must be between 0 and 100", ErrOutOfRange)
	}
	return nil
}

// Sample is a full performance sample including age, used by the classifier.
type Sample struct {
	Metrics
	Age int `json:"age"`
}

// Validate checks the metrics plus the age bound.
func (s Sample) Validate() error {
	if err := s.Metrics.Validate(); err != nil {
		return err
	}
	if s.Age < minAge || s.Age > maxAge {
		return fmt.Errorf("%w: age must be between 13 and 120", ErrOutOfRange)
	}
	return nil
}

// FeatureVector returns the classifier feature ordering:
// memory, attention, reaction_time, problem_solving, age.
func (s Sample) FeatureVector() []float64 {
	return []float64{s.Memory, s.Attention, s.ReactionTime, s.ProblemSolving, float64(s.Age)}
}

// Scores is the unified 0-100 domain-score vector derived from raw metrics.
type Scores struct {
	WorkingMemory  float64 `json:"working_memory"`
	Attention      float64 `json:"attention"`
	Processing     float64 `json:"processing_speed"`
	ProblemSolving float64 `json:"problem_solving"`
}

// Normalize maps raw metrics onto the domain-score space. Reaction time is
// inverted so that faster responses score higher; the result is clamped and
// never negative.
func Normalize(m Metrics) Scores {
	return Scores{
		WorkingMemory:  m.Memory,
		Attention:      m.Attention,
		Processing:     ProcessingSpeedScore(m.ReactionTime),
		ProblemSolving: m.ProblemSolving,
	}
}

// ProcessingSpeedScore converts a reaction time in seconds to a 0-100 score.
func ProcessingSpeedScore(reactionTime float64) float64 {
	return math.Max(0, math.Min(maxScore, maxScore-reactionTime*reactionTimeScale))
}

// Get returns the score for a single domain.
func (s Scores) Get(d Domain) float64 {
	switch d {
	case DomainWorkingMemory:
		return s.WorkingMemory
	case DomainAttention:
		return s.Attention
	case DomainProcessing:
		return s.Processing
	case DomainProblemSolving:
		return s.ProblemSolving
	}
	return 0
}

// Mean returns the average of the four domain scores.
func (s Scores) Mean() float64 {
	return (s.WorkingMemory + s.Attention + s.Processing + s.ProblemSolving) / 4
}

// DomainScore pairs a domain with its score.
type DomainScore struct {
	Domain Domain
	Score  float64
}

// Ascending returns the domains ordered from weakest to strongest. Ties keep
// catalog order.
func (s Scores) Ascending() []DomainScore {
	ranked := make([]DomainScore, 0, 4)
	for _, d := range Domains() {
		ranked = append(ranked, DomainScore{Domain: d, Score: s.Get(d)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score < ranked[j].Score })
	return ranked
}

// Descending returns the domains ordered from strongest to weakest. Ties keep
// catalog order.
func (s Scores) Descending() []DomainScore {
	ranked := make([]DomainScore, 0, 4)
	for _, d := range Domains() {
		ranked = append(ranked, DomainScore{Domain: d, Score: s.Get(d)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	return ranked
}
