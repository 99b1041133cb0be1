// Package catalog holds the fixed reference catalog of training activities.
// The catalog is immutable, loaded at process start and shared read-only
// across all requests.
package catalog

import "github.com/mindgrove/cortex/internal/domain/profile"

// Difficulty is an ordered activity difficulty level.
type Difficulty string

// Difficulty levels, easiest first.
const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Activity is a catalogued training exercise.
type Activity struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	Domain           profile.Domain     `json:"domain"`
	DifficultyLevels []Difficulty       `json:"difficulty_levels"`
	TargetScores     map[string]float64 `json:"target_scores"`
	Description      string             `json:"description"`
}

// Well-known activity ids.
const (
	NBack          = "n-back"
	Flanker        = "flanker"
	SimpleReaction = "simple-reaction"
	ChoiceReaction = "choice-reaction"
	RavensMatrices = "ravens-matrices"
	TowerHanoi     = "tower-hanoi"
)

// activities is the catalog in declaration order. Order matters: merge
// deduplication and preference-tie breaking both preserve it.
var activities = []Activity{
	{
		ID:               NBack,
		Name:             "N-Back Memory Challenge",
		Domain:           profile.DomainWorkingMemory,
		DifficultyLevels: []Difficulty{Easy, Medium, Hard},
		TargetScores:     map[string]float64{"memory": 60, "attention": 50},
		Description:      "Improve working memory by identifying matching stimuli from N steps back",
	},
	{
		ID:               Flanker,
		Name:             "Flanker Attention Task",
		Domain:           profile.DomainAttention,
		DifficultyLevels: []Difficulty{Easy, Medium, Hard},
		TargetScores:     map[string]float64{"attention": 60, "problem_solving": 40},
		Description:      "Enhance selective attention by responding to target stimuli while ignoring distractors",
	},
	{
		ID:               SimpleReaction,
		Name:             "Simple Reaction Time",
		Domain:           profile.DomainProcessing,
		DifficultyLevels: []Difficulty{Easy, Medium, Hard},
		TargetScores:     map[string]float64{"reaction_time": 0.8},
		Description:      "Improve basic processing speed with simple stimulus-response tasks",
	},
	{
		ID:               ChoiceReaction,
		Name:             "Choice Reaction Time",
		Domain:           profile.DomainProcessing,
		DifficultyLevels: []Difficulty{Easy, Medium, Hard},
		TargetScores:     map[string]float64{"reaction_time": 1.0, "attention": 50},
		Description:      "Enhance complex processing speed with multiple choice responses",
	},
	{
		ID:               RavensMatrices,
		Name:             "Pattern Logic Matrices",
		Domain:           profile.DomainProblemSolving,
		DifficultyLevels: []Difficulty{Easy, Medium, Hard},
		TargetScores:     map[string]float64{"problem_solving": 70, "memory": 50},
		Description:      "Develop fluid intelligence through visual pattern recognition",
	},
	{
		ID:               TowerHanoi,
		Name:             "Tower of Hanoi",
		Domain:           profile.DomainProblemSolving,
		DifficultyLevels: []Difficulty{Easy, Medium, Hard},
		TargetScores:     map[string]float64{"problem_solving": 65, "attention": 55},
		Description:      "Improve planning and problem-solving through strategic puzzle solving",
	},
}

// All returns the catalog in its canonical order.
func All() []Activity {
	out := make([]Activity, len(activities))
	copy(out, activities)
	return out
}

// ByID looks up a single activity.
func ByID(id string) (Activity, bool) {
	for _, a := range activities {
		if a.ID == id {
			return a, true
		}
	}
	return Activity{}, false
}

// ByDomain returns the activities targeting a domain, in catalog order.
func ByDomain(d profile.Domain) []Activity {
	var out []Activity
	for _, a := range activities {
		if a.Domain == d {
			out = append(out, a)
		}
	}
	return out
}
