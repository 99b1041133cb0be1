// Package recommend ranks training activities for a performance profile by
// merging four candidate strategies: goal-directed picks, weakest-domain
// improvement, a similarity simulation, and strong-domain maintenance.
//
// The similarity step is a known heuristic rather than a true
// nearest-neighbor search: it generates seeded synthetic neighbor profiles
// but scores each activity against the requesting user's own domain score.
// That behavior is preserved deliberately; changing it would silently alter
// recommendation output.
package recommend

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/mindgrove/cortex/internal/domain/catalog"
	"github.com/mindgrove/cortex/internal/domain/profile"
	"github.com/mindgrove/cortex/internal/domain/stats"
)

// Goal values accepted by the engine. Anything else falls back to the
// overall pairing.
const (
	GoalMemory         = "memory"
	GoalAttention      = "attention"
	GoalProcessing     = "processing_speed"
	GoalProblemSolving = "problem_solving"
	GoalOverall        = "overall"
)

// Engine limits and thresholds.
const (
	maxRecommendations = 3
	neighborCount      = 10
	neighborScoreSigma = 10.0
	neighborRTSigma    = 0.2
	maintainThreshold  = 70.0
)

// Improvement describes the expected gain from one recommended activity.
type Improvement struct {
	Potential    string `json:"potential"`
	CurrentLevel string `json:"current_level"`
	TargetDomain string `json:"target_domain"`
}

// Result is the full recommendation outcome.
type Result struct {
	RecommendedActivities     []string                       `json:"recommended_activities"`
	DifficultyRecommendations map[string]catalog.Difficulty  `json:"difficulty_recommendations"`
	SimilarProfilesFound      int                            `json:"similar_profiles_found"`
	Reasoning                 string                         `json:"reasoning"`
	ExpectedImprovement       map[string]Improvement         `json:"expected_improvement"`
	ActivityDetails           map[string]catalog.Activity    `json:"activity_details"`
	PersonalizationFactors    []string                       `json:"personalization_factors"`
}

// Engine generates recommendations. The neighbor simulation draws from a
// source seeded by the input vector, so identical requests produce
// identical rankings; only the similar-profile count comes from the
// engine's own unseeded source.
type Engine struct {
	mu        sync.Mutex
	countRand *rand.Rand
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithCountSource replaces the unseeded source behind the similar-profile
// count. Intended for tests.
func WithCountSource(src rand.Source) Option {
	return func(e *Engine) {
		if src != nil {
			e.countRand = rand.New(src) //nolint:gosec // non-cryptographic simulation
		}
	}
}

// New creates a recommendation engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		countRand: rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // non-cryptographic simulation
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recommend produces the merged, deduplicated, capped activity list with
// its derived explanations.
func (e *Engine) Recommend(m profile.Metrics, goal string) (Result, error) {
	if err := m.Validate(); err != nil {
		return Result{}, err
	}
	if goal == "" {
		goal = GoalOverall
	}
	scores := profile.Normalize(m)

	// Merge priority: goal picks, improvement picks, similarity picks,
	// maintenance picks. First occurrence wins.
	var candidates []string
	candidates = append(candidates, goalActivities(goal)...)
	candidates = append(candidates, improvementActivities(scores)...)
	candidates = append(candidates, e.similarityActivities(m, scores)...)
	candidates = append(candidates, maintenanceActivities(scores)...)

	selected := dedupe(candidates)
	if len(selected) > maxRecommendations {
		selected = selected[:maxRecommendations]
	}

	difficulties := make(map[string]catalog.Difficulty, len(selected))
	details := make(map[string]catalog.Activity, len(selected))
	improvements := make(map[string]Improvement, len(selected))
	for _, id := range selected {
		activity, ok := catalog.ByID(id)
		if !ok {
			continue
		}
		difficulties[id] = difficultyFor(scores, activity)
		details[id] = activity
		improvements[id] = improvementFor(scores, activity)
	}

	return Result{
		RecommendedActivities:     selected,
		DifficultyRecommendations: difficulties,
		SimilarProfilesFound:      e.similarProfileCount(m),
		Reasoning:                 reasoning(scores, goal, selected),
		ExpectedImprovement:       improvements,
		ActivityDetails:           details,
		PersonalizationFactors:    personalizationFactors(m, scores, goal),
	}, nil
}

// goalActivities maps a stated goal to its fixed activity picks.
func goalActivities(goal string) []string {
	switch goal {
	case GoalMemory:
		return []string{catalog.NBack}
	case GoalAttention:
		return []string{catalog.Flanker}
	case GoalProcessing:
		return []string{catalog.SimpleReaction, catalog.ChoiceReaction}
	case GoalProblemSolving:
		return []string{catalog.RavensMatrices, catalog.TowerHanoi}
	default:
		return []string{catalog.NBack, catalog.Flanker}
	}
}

// improvementActivities picks activities for the two weakest domains.
func improvementActivities(scores profile.Scores) []string {
	var out []string
	for _, ds := range scores.Ascending()[:2] {
		for _, a := range catalog.ByDomain(ds.Domain) {
			out = append(out, a.ID)
		}
	}
	return out
}

// similarityActivities simulates neighbor profiles from a source seeded by
// the input vector, then ranks activities by a preference score computed
// from the user's own domain scores (see package doc) and takes the top 2.
func (e *Engine) similarityActivities(m profile.Metrics, scores profile.Scores) []string {
	rng := rand.New(rand.NewSource(vectorSeed(m))) //nolint:gosec // deterministic simulation seed

	// Neighbors are generated for the simulation but intentionally do not
	// influence the ranking below.
	for i := 0; i < neighborCount; i++ {
		_ = profile.Metrics{
			Memory:         stats.Clamp(m.Memory+rng.NormFloat64()*neighborScoreSigma, 0, 100),
			Attention:      stats.Clamp(m.Attention+rng.NormFloat64()*neighborScoreSigma, 0, 100),
			ReactionTime:   stats.Clamp(m.ReactionTime+rng.NormFloat64()*neighborRTSigma, 0.1, 3.0),
			ProblemSolving: stats.Clamp(m.ProblemSolving+rng.NormFloat64()*neighborScoreSigma, 0, 100),
		}
	}

	all := catalog.All()
	type pref struct {
		id    string
		score float64
	}
	prefs := make([]pref, 0, len(all))
	for _, a := range all {
		prefs = append(prefs, pref{id: a.ID, score: preferenceScore(scores.Get(a.Domain))})
	}
	sort.SliceStable(prefs, func(i, j int) bool { return prefs[i].score > prefs[j].score })

	out := make([]string, 0, 2)
	for _, p := range prefs[:2] {
		out = append(out, p.id)
	}
	return out
}

// preferenceScore is the piecewise activity preference over the user's own
// domain score: weak domains rank highest, strong domains keep a reduced
// maintenance preference.
func preferenceScore(domainScore float64) float64 {
	switch {
	case domainScore < 60:
		return 100 - domainScore
	case domainScore > 80:
		return domainScore * 0.5
	default:
		return 70 - domainScore
	}
}

// maintenanceActivities keeps the strongest domains exercised, but only
// when they are genuinely strong.
func maintenanceActivities(scores profile.Scores) []string {
	var out []string
	for _, ds := range scores.Descending()[:2] {
		if ds.Score <= maintainThreshold {
			continue
		}
		for _, a := range catalog.ByDomain(ds.Domain) {
			out = append(out, a.ID)
		}
	}
	return out
}

// difficultyFor blends overall and matching-domain performance.
func difficultyFor(scores profile.Scores, activity catalog.Activity) catalog.Difficulty {
	combined := 0.4*scores.Mean() + 0.6*scores.Get(activity.Domain)
	switch {
	case combined > 80:
		return catalog.Hard
	case combined > 60:
		return catalog.Medium
	default:
		return catalog.Easy
	}
}

// improvementFor estimates the gain ladder from the current domain level.
func improvementFor(scores profile.Scores, activity catalog.Activity) Improvement {
	current := scores.Get(activity.Domain)

	var potential string
	switch {
	case current < 50:
		potential = "High (15-25% improvement possible)"
	case current < 70:
		potential = "Medium (10-20% improvement possible)"
	case current < 85:
		potential = "Moderate (5-15% improvement possible)"
	default:
		potential = "Maintenance (5-10% improvement possible)"
	}

	return Improvement{
		Potential:    potential,
		CurrentLevel: fmt.Sprintf("%.0f%%", current),
		TargetDomain: activity.Domain.DisplayName(),
	}
}

// similarProfileCount derives a synthetic cohort size from the variance of
// the three directly-scored metrics. The draw is intentionally unseeded.
func (e *Engine) similarProfileCount(m profile.Metrics) int {
	variance := stats.Variance([]float64{m.Memory, m.Attention, m.ProblemSolving})

	e.mu.Lock()
	defer e.mu.Unlock()
	switch {
	case variance < 100: // common pattern
		return 8 + e.countRand.Intn(12)
	case variance < 300:
		return 4 + e.countRand.Intn(8)
	default: // unique pattern
		return 1 + e.countRand.Intn(5)
	}
}

// vectorSeed derives a deterministic seed from the raw input vector.
func vectorSeed(m profile.Metrics) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "[%v %v %v %v]", m.Memory, m.Attention, m.ReactionTime, m.ProblemSolving)
	return int64(h.Sum64()) //nolint:gosec // seed derivation, overflow is fine
}

// dedupe removes duplicates preserving first occurrence.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
