package training

import (
	"math"
	"math/rand"
)

// Synthetic recipe constants. The recipe is deterministic for a given seed
// so absent artifacts can always be regenerated into an equivalent model.
const (
	memoryMean  = 70.0
	memoryStd   = 15.0
	attnMean    = 65.0
	attnStd     = 20.0
	rtMean      = 0.8
	rtStd       = 0.3
	psMean      = 68.0
	psStd       = 18.0
	ageMin      = 18
	ageMax      = 80
	seriesBase  = 40.0
	seriesRange = 50.0
	trendMin    = -0.5
	trendMax    = 1.5
	seriesNoise = 5.0
	seriesLen   = 10
)

// classifierSample is one labeled synthetic training row.
type classifierSample struct {
	features []float64
	label    string
}

// syntheticProfiles draws n samples of the five classifier features and
// labels them with the tier rules used to seed the original model.
func syntheticProfiles(rng *rand.Rand, n int) []classifierSample {
	samples := make([]classifierSample, 0, n)
	for i := 0; i < n; i++ {
		memory := rng.NormFloat64()*memoryStd + memoryMean
		attention := rng.NormFloat64()*attnStd + attnMean
		reaction := rng.NormFloat64()*rtStd + rtMean
		problem := rng.NormFloat64()*psStd + psMean
		age := float64(ageMin + rng.Intn(ageMax-ageMin))

		var label string
		switch {
		case memory > 80 && attention > 70:
			label = "Expert"
		case memory > 70 || attention > 60:
			label = "Advanced"
		case memory > 60 || attention > 50:
			label = "Intermediate"
		default:
			label = "Beginner"
		}

		samples = append(samples, classifierSample{
			features: []float64{memory, attention, reaction, problem, age},
			label:    label,
		})
	}
	return samples
}

// syntheticSeries generates one score series with a random base level, a
// mild improvement trend and per-series noise, clamped to [0, 100].
func syntheticSeries(rng *rand.Rand) []float64 {
	base := seriesBase + rng.Float64()*seriesRange
	trend := trendMin + rng.Float64()*(trendMax-trendMin)
	noise := rng.NormFloat64() * seriesNoise

	scores := make([]float64, 0, seriesLen)
	scores = append(scores, base)
	for day := 1; day < seriesLen; day++ {
		next := scores[len(scores)-1] + trend + noise
		next = math.Max(0, math.Min(100, next))
		scores = append(scores, next)
	}
	return scores
}
