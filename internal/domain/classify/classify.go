// Package classify maps a performance sample to one of four ordinal skill
// tiers using the trained decision model, and derives the qualitative
// profile text returned alongside the tier.
package classify

import (
	"github.com/mindgrove/cortex/internal/domain/artifact"
	"github.com/mindgrove/cortex/internal/domain/profile"
	"github.com/mindgrove/cortex/internal/domain/stats"
)

// Tier names in ordinal order.
const (
	TierBeginner     = "Beginner"
	TierIntermediate = "Intermediate"
	TierAdvanced     = "Advanced"
	TierExpert       = "Expert"
)

// Result is the full classification outcome.
type Result struct {
	CognitiveType   string   `json:"cognitive_type"`
	Confidence      float64  `json:"confidence"`
	Characteristics []string `json:"characteristics"`
	DomainStrengths []string `json:"domain_strengths"`
	Recommendations []string `json:"recommendations"`
}

// strengthThreshold marks a domain as a strength.
const strengthThreshold = 70.0

// maxRecommendations caps the advice list per profile.
const maxRecommendations = 5

// Classify validates the sample, standardizes its features with the stored
// scaler, evaluates the decision tree and augments the tier with the
// score-derived narrative. The artifact snapshot is read-only; concurrent
// calls with the same snapshot are safe and yield identical output.
func Classify(set *artifact.Set, s profile.Sample) (Result, error) {
	if err := s.Validate(); err != nil {
		return Result{}, err
	}
	if set == nil || set.Classifier == nil || set.Scaler == nil || set.Labels == nil {
		return Result{}, artifact.ErrUnavailable
	}

	scaled := set.Scaler.Transform(s.FeatureVector())
	class, confidence := set.Classifier.Predict(scaled)
	tier, ok := set.Labels.Decode(class)
	if !ok {
		return Result{}, artifact.ErrUnavailable
	}

	return Result{
		CognitiveType:   tier,
		Confidence:      stats.Round3(confidence),
		Characteristics: characteristics(s),
		DomainStrengths: domainStrengths(s.Metrics),
		Recommendations: tierRecommendations(s, tier),
	}, nil
}

// characteristics derives qualitative statements from threshold rules over
// the raw sample.
func characteristics(s profile.Sample) []string {
	var out []string

	switch {
	case s.Memory > 80:
		out = append(out, "Excellent working memory capacity")
	case s.Memory > 65:
		out = append(out, "Good working memory performance")
	case s.Memory < 50:
		out = append(out, "Working memory needs improvement")
	}

	switch {
	case s.Attention > 75:
		out = append(out, "Strong attention control and focus")
	case s.Attention > 60:
		out = append(out, "Adequate attention abilities")
	case s.Attention < 50:
		out = append(out, "Attention skills could be enhanced")
	}

	switch {
	case s.ReactionTime < 0.6:
		out = append(out, "Very fast processing speed")
	case s.ReactionTime < 0.9:
		out = append(out, "Good processing speed")
	case s.ReactionTime > 1.2:
		out = append(out, "Processing speed could be improved")
	}

	switch {
	case s.ProblemSolving > 80:
		out = append(out, "Advanced problem-solving abilities")
	case s.ProblemSolving > 65:
		out = append(out, "Solid problem-solving skills")
	case s.ProblemSolving < 50:
		out = append(out, "Problem-solving skills need development")
	}

	if s.Age < 30 {
		out = append(out, "Young adult cognitive profile")
	} else if s.Age > 60 {
		out = append(out, "Mature adult cognitive profile")
	}

	if len(out) == 0 {
		out = []string{"Balanced cognitive profile with room for improvement"}
	}
	return out
}

// domainStrengths returns up to two domains scoring above the strength
// threshold, strongest first. A profile with no strength still names its
// best domain.
func domainStrengths(m profile.Metrics) []string {
	ranked := profile.Normalize(m).Descending()

	var strengths []string
	for _, ds := range ranked {
		if ds.Score > strengthThreshold {
			strengths = append(strengths, ds.Domain.DisplayName())
		}
	}
	if len(strengths) == 0 {
		return []string{ranked[0].Domain.DisplayName()}
	}
	if len(strengths) > 2 {
		strengths = strengths[:2]
	}
	return strengths
}

// tierRecommendations combines the fixed advice for a tier with extra lines
// for weak domains, capped at maxRecommendations.
func tierRecommendations(s profile.Sample, tier string) []string {
	var out []string

	switch tier {
	case TierExpert:
		out = append(out,
			"Challenge yourself with the hardest difficulty levels",
			"Focus on maintaining consistency across all domains",
			"Consider helping others or teaching cognitive strategies",
		)
	case TierAdvanced:
		out = append(out,
			"Work on your weaker domains to reach expert level",
			"Increase training frequency for faster improvement",
			"Try mixed-domain training sessions",
		)
	case TierIntermediate:
		out = append(out,
			"Focus on consistent daily practice",
			"Gradually increase difficulty as you improve",
			"Set specific improvement goals for each domain",
		)
	default:
		out = append(out,
			"Start with easier activities to build confidence",
			"Focus on one domain at a time for better results",
			"Establish a regular training routine",
		)
	}

	if s.Memory < 60 {
		out = append(out, "Prioritize working memory activities like N-Back")
	}
	if s.Attention < 60 {
		out = append(out, "Practice attention activities like Flanker tasks")
	}
	if s.ReactionTime > 1.0 {
		out = append(out, "Work on processing speed with reaction time activities")
	}
	if s.ProblemSolving < 60 {
		out = append(out, "Challenge yourself with logic puzzles and reasoning tasks")
	}

	if len(out) > maxRecommendations {
		out = out[:maxRecommendations]
	}
	return out
}
