package recommend

import (
	"fmt"
	"strings"

	"github.com/mindgrove/cortex/internal/domain/catalog"
	"github.com/mindgrove/cortex/internal/domain/profile"
	"github.com/mindgrove/cortex/internal/domain/stats"
)

// shortLabel is the metric-style domain label used in the strength and
// weakness sentences. It differs from Domain.Spoken for working memory,
// which is referred to by its raw metric name there.
func shortLabel(d profile.Domain) string {
	if d == profile.DomainWorkingMemory {
		return "memory"
	}
	return d.Spoken()
}

// reasoning composes the explanation text for a recommendation set: weakest
// and strongest domains, the stated goal, one sentence per picked activity
// and a closing methodology line.
func reasoning(scores profile.Scores, goal string, selected []string) string {
	ranked := scores.Ascending()
	weakest := ranked[0]
	strongest := ranked[len(ranked)-1]

	var parts []string
	parts = append(parts, fmt.Sprintf(
		"Your %s (%.0f) shows the most potential for improvement.",
		shortLabel(weakest.Domain), weakest.Score))

	if strongest.Score > 75 {
		parts = append(parts, fmt.Sprintf(
			"Your %s (%.0f) is already quite strong.",
			shortLabel(strongest.Domain), strongest.Score))
	}

	if goal != GoalOverall {
		parts = append(parts, fmt.Sprintf(
			"Based on your goal to improve %s, we've prioritized relevant training activities.",
			strings.ReplaceAll(goal, "_", " ")))
	}

	for _, id := range selected {
		if a, ok := catalog.ByID(id); ok {
			parts = append(parts, fmt.Sprintf(
				"%s targets %s development.", a.Name, a.Domain.Spoken()))
		}
	}

	parts = append(parts,
		"These recommendations are based on your current performance profile and proven training methodologies.")
	return strings.Join(parts, " ")
}

// personalizationFactors lists the profile traits that shaped the
// recommendation set.
func personalizationFactors(m profile.Metrics, scores profile.Scores, goal string) []string {
	var out []string

	avg := scores.Mean()
	if avg > 80 {
		out = append(out, "High overall performance level")
	} else if avg < 60 {
		out = append(out, "Developing performance level")
	}

	variance := stats.Variance([]float64{
		scores.WorkingMemory, scores.Attention, scores.Processing, scores.ProblemSolving,
	})
	if variance > 300 {
		out = append(out, "Uneven cognitive profile")
	} else if variance < 100 {
		out = append(out, "Balanced cognitive profile")
	}

	if goal != GoalOverall {
		out = append(out, fmt.Sprintf("Specific goal: %s", strings.ReplaceAll(goal, "_", " ")))
	}

	if m.Memory < 60 {
		out = append(out, "Working memory improvement needed")
	}
	if m.Attention < 60 {
		out = append(out, "Attention enhancement needed")
	}
	if m.ReactionTime > 1.0 {
		out = append(out, "Processing speed development needed")
	}
	if m.ProblemSolving < 60 {
		out = append(out, "Problem-solving skills development needed")
	}

	return out
}
