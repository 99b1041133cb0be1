// Package forecast predicts the next training score from a session history
// by blending three predictors, and derives the trend, confidence and
// narrative analysis returned with the prediction.
package forecast

import (
	"math"
	"time"

	"github.com/mindgrove/cortex/internal/domain/artifact"
	"github.com/mindgrove/cortex/internal/domain/stats"
)

// Blend weights for the three predictors.
const (
	weightRegression = 0.4
	weightTrend      = 0.35
	weightMovingAvg  = 0.25
)

// Predictor windows and dampening.
const (
	trendWindow     = 5
	movingAvgWindow = 4
	trendDampening  = 0.7
	avgTrendWeight  = 0.5
)

// Trend directions, strongest improvement first.
const (
	TrendStronglyImproving = "strongly_improving"
	TrendImproving         = "improving"
	TrendStable            = "stable"
	TrendDeclining         = "declining"
	TrendStronglyDeclining = "strongly_declining"
)

// TrendAnalysis describes the fitted overall trend of the series.
type TrendAnalysis struct {
	TrendDirection   string  `json:"trend_direction"`
	TrendStrength    float64 `json:"trend_strength"`
	TrendConsistency float64 `json:"trend_consistency"`
	Slope            float64 `json:"slope"`
}

// Methods reports each predictor's output alongside the blended value.
type Methods struct {
	LinearRegression float64 `json:"linear_regression"`
	TrendBased       float64 `json:"trend_based"`
	MovingAverage    float64 `json:"moving_average"`
	FinalWeighted    float64 `json:"final_weighted"`
}

// DataQuality grades the input series on amount, consistency and recency.
type DataQuality struct {
	DataAmount  string `json:"data_amount"`
	Consistency string `json:"consistency"`
	Recency     string `json:"recency"`
}

// Result is the full forecast outcome.
type Result struct {
	PredictedScoreNextWeek float64       `json:"predicted_score_next_week"`
	Trend                  string        `json:"trend"`
	Confidence             float64       `json:"confidence"`
	Insights               []string      `json:"insights"`
	ImprovementRate        float64       `json:"improvement_rate"`
	ConsistencyScore       float64       `json:"consistency_score"`
	Volatility             float64       `json:"volatility"`
	TrendAnalysis          TrendAnalysis `json:"trend_analysis"`
	PredictionMethods      Methods       `json:"prediction_methods"`
	Recommendations        []string      `json:"recommendations"`
	DataQuality            DataQuality   `json:"data_quality"`
}

// Forecaster produces score forecasts. The clock is injectable so that
// recency grading is testable.
type Forecaster struct {
	now func() time.Time
}

// Option applies a configuration option to the Forecaster.
type Option func(*Forecaster)

// WithClock replaces the wall clock used for recency grading.
func WithClock(now func() time.Time) Option {
	return func(f *Forecaster) {
		if now != nil {
			f.now = now
		}
	}
}

// New creates a forecaster.
func New(opts ...Option) *Forecaster {
	f := &Forecaster{now: time.Now}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Forecast validates the series shape and produces the blended prediction
// with its analysis. The trained predictor in set is optional: when it is
// missing the regression method falls back to a least-squares fit of the
// full series.
func (f *Forecaster) Forecast(set *artifact.Set, scores []float64, dates []time.Time) (Result, error) {
	if len(scores) < 2 {
		return Result{}, ErrTooFewScores
	}
	if len(scores) != len(dates) {
		return Result{}, ErrLengthMismatch
	}

	regression := predictRegression(set, scores)
	trendPred := predictTrend(scores)
	movingAvg := predictMovingAverage(scores)

	blended := weightRegression*regression + weightTrend*trendPred + weightMovingAvg*movingAvg
	predicted := stats.Clamp(blended, 0, 100)

	trend := analyzeTrend(scores)

	return Result{
		PredictedScoreNextWeek: stats.Round1(predicted),
		Trend:                  trend.TrendDirection,
		Confidence:             stats.Round3(confidence(scores, dates)),
		Insights:               insights(scores, predicted, trend),
		ImprovementRate:        improvementRate(scores, dates),
		ConsistencyScore:       consistencyScore(scores),
		Volatility:             stats.Round2(volatility(scores)),
		TrendAnalysis:          trend,
		PredictionMethods: Methods{
			LinearRegression: stats.Round1(regression),
			TrendBased:       stats.Round1(trendPred),
			MovingAverage:    stats.Round1(movingAvg),
			FinalWeighted:    stats.Round1(predicted),
		},
		Recommendations: recommendations(scores, trend, predicted),
		DataQuality:     f.dataQuality(scores, dates),
	}, nil
}

// predictRegression uses the trained window predictor when the series is
// long enough, otherwise extrapolates: a two-point series continues its
// difference, longer series get a least-squares fit evaluated one step past
// the end.
func predictRegression(set *artifact.Set, scores []float64) float64 {
	n := len(scores)
	if n == 2 {
		return scores[1] + (scores[1] - scores[0])
	}

	if set != nil && set.Predictor != nil && n >= set.Predictor.Window() {
		return set.Predictor.Predict(scores[n-set.Predictor.Window():])
	}

	slope, intercept := stats.FitLine(scores)
	return slope*float64(n) + intercept
}

// predictTrend dampens the slope of the recent window and applies it to the
// last score.
func predictTrend(scores []float64) float64 {
	n := len(scores)
	recent := scores[n-min(trendWindow, n):]

	var trend float64
	if len(recent) >= 3 {
		trend, _ = stats.FitLine(recent)
	} else {
		trend = recent[len(recent)-1] - recent[len(recent)-2]
	}
	return scores[n-1] + trend*trendDampening
}

// predictMovingAverage weights recent scores higher and adds a small trend
// component from the window endpoints.
func predictMovingAverage(scores []float64) float64 {
	n := len(scores)
	recent := scores[n-min(movingAvgWindow, n):]
	k := len(recent)

	totalWeight := float64(k*(k+1)) / 2
	weighted := 0.0
	for i, v := range recent {
		weighted += v * float64(i+1) / totalWeight
	}

	trend := (recent[k-1] - recent[0]) / float64(k)
	return weighted + trend*avgTrendWeight
}

// analyzeTrend fits the whole series and grades slope, fit quality and
// direction consistency.
func analyzeTrend(scores []float64) TrendAnalysis {
	slope, intercept := stats.FitLine(scores)

	var direction string
	switch {
	case slope > 1.5:
		direction = TrendStronglyImproving
	case slope > 0.5:
		direction = TrendImproving
	case slope > -0.5:
		direction = TrendStable
	case slope > -1.5:
		direction = TrendDeclining
	default:
		direction = TrendStronglyDeclining
	}

	consistency := 1.0
	if len(scores) >= 3 {
		diffs := stats.Diff(scores)
		positive, negative := 0, 0
		for _, d := range diffs {
			if d > 0 {
				positive++
			} else if d < 0 {
				negative++
			}
		}
		consistency = float64(max(positive, negative)) / float64(len(diffs))
	}

	return TrendAnalysis{
		TrendDirection:   direction,
		TrendStrength:    stats.Round3(stats.RSquared(scores, slope, intercept)),
		TrendConsistency: stats.Round3(consistency),
		Slope:            stats.Round3(slope),
	}
}

// confidence scores the prediction quality from data amount, variance,
// session regularity and trend stability, on top of a 0.5 base.
func confidence(scores []float64, dates []time.Time) float64 {
	amount := math.Min(1.0, float64(len(scores))/10)

	consistency := math.Max(0.3, 1.0-stats.Variance(scores)/1000)

	recency := 0.7
	if len(dates) > 1 {
		gaps := make([]float64, 0, len(dates)-1)
		for i := 1; i < len(dates); i++ {
			gaps = append(gaps, daysBetween(dates[i-1], dates[i]))
		}
		recency = math.Max(0.5, 1.0-stats.Mean(gaps)/30)
	}

	stability := 0.6
	if len(scores) >= 3 {
		slope, _ := stats.FitLine(scores)
		stability = math.Max(0.4, 1.0-math.Abs(slope)/20)
	}

	c := 0.5 + amount*0.2 + consistency*0.2 + recency*0.1 + stability*0.1
	return math.Min(1.0, c)
}

// insights derives the human-readable progress observations.
func insights(scores []float64, predicted float64, trend TrendAnalysis) []string {
	var out []string

	switch trend.TrendDirection {
	case TrendStronglyImproving:
		out = append(out, "Excellent progress! You're on a strong upward trajectory.")
	case TrendImproving:
		out = append(out, "Good progress! You're steadily improving.")
	case TrendStable:
		out = append(out, "Your performance is stable. Consider increasing challenge level.")
	case TrendDeclining:
		out = append(out, "Recent performance shows some decline. Consider adjusting your approach.")
	default:
		out = append(out, "Significant decline detected. Take a break or reduce difficulty.")
	}

	change := predicted - scores[len(scores)-1]
	switch {
	case change > 5:
		out = append(out, "Your next session is predicted to show significant improvement!")
	case change > 2:
		out = append(out, "Expecting modest improvement in your next session.")
	case change < -5:
		out = append(out, "Next session may be challenging. Focus on fundamentals.")
	}

	switch {
	case predicted > 90:
		out = append(out, "You're performing at an expert level!")
	case predicted > 80:
		out = append(out, "Excellent performance - you're in the advanced range.")
	case predicted > 70:
		out = append(out, "Good performance - you're above average.")
	case predicted > 60:
		out = append(out, "Solid progress - consistent practice will help you improve.")
	default:
		out = append(out, "Focus on fundamentals and regular practice for steady improvement.")
	}

	if len(scores) > 3 {
		std := stats.Std(scores)
		if std < 5 {
			out = append(out, "Your performance is very consistent!")
		} else if std > 15 {
			out = append(out, "Your performance varies significantly. Try to maintain consistency.")
		}
	}

	return out
}

// improvementRate is the average score change per day across the series. A
// same-day series falls back to counting sessions instead of days.
func improvementRate(scores []float64, dates []time.Time) float64 {
	totalDays := daysBetween(dates[0], dates[len(dates)-1])
	if totalDays == 0 {
		totalDays = float64(len(scores) - 1)
	}
	perDay := (scores[len(scores)-1] - scores[0]) / math.Max(1, totalDays)
	return stats.Round3(perDay)
}

// consistencyScore converts the coefficient of variation into a 0-100
// score, higher meaning more consistent.
func consistencyScore(scores []float64) float64 {
	mean := stats.Mean(scores)
	if mean == 0 {
		return 0
	}
	cv := stats.Std(scores) / mean
	return stats.Round1(math.Max(0, 100-cv*100))
}

// volatility is the mean absolute change between consecutive sessions.
func volatility(scores []float64) float64 {
	diffs := stats.Diff(scores)
	if len(diffs) == 0 {
		return 0
	}
	sum := 0.0
	for _, d := range diffs {
		sum += math.Abs(d)
	}
	return sum / float64(len(diffs))
}

// recommendations derives at most four pieces of advice from the trend,
// the predicted level and the series stability.
func recommendations(scores []float64, trend TrendAnalysis, predicted float64) []string {
	var out []string
	current := scores[len(scores)-1]

	switch trend.TrendDirection {
	case TrendStronglyImproving, TrendImproving:
		out = append(out, "Keep up the excellent work! Your current approach is working well.")
		if current > 75 {
			out = append(out, "Consider increasing difficulty to maintain challenge.")
		}
	case TrendStable:
		out = append(out,
			"Try varying your training routine to break through the plateau.",
			"Consider focusing on your weakest cognitive domains.")
	default:
		out = append(out,
			"Take a short break to avoid burnout and return refreshed.",
			"Consider reducing difficulty temporarily to rebuild confidence.")
	}

	if predicted > 85 {
		out = append(out, "You're performing excellently! Focus on maintaining consistency.")
	} else if predicted < 60 {
		out = append(out,
			"Focus on regular practice and gradual improvement.",
			"Set small, achievable goals to build momentum.")
	}

	if len(scores) > 3 && volatility(scores) > 15 {
		out = append(out, "Work on consistency - try to maintain regular training schedule.")
	}

	if len(scores) < 5 {
		out = append(out, "Continue training to build a better performance history.")
	}

	if len(out) > 4 {
		out = out[:4]
	}
	return out
}

// dataQuality grades the series for the response's data_quality block.
func (f *Forecaster) dataQuality(scores []float64, dates []time.Time) DataQuality {
	var q DataQuality

	switch {
	case len(scores) >= 10:
		q.DataAmount = "excellent"
	case len(scores) >= 5:
		q.DataAmount = "good"
	case len(scores) >= 3:
		q.DataAmount = "fair"
	default:
		q.DataAmount = "limited"
	}

	q.Consistency = "unknown"
	if len(scores) > 1 {
		cv := 1.0
		if mean := stats.Mean(scores); mean > 0 {
			cv = stats.Std(scores) / mean
		}
		switch {
		case cv < 0.15:
			q.Consistency = "high"
		case cv < 0.25:
			q.Consistency = "moderate"
		default:
			q.Consistency = "low"
		}
	}

	q.Recency = "unknown"
	if len(dates) > 1 {
		since := daysBetween(dates[len(dates)-1], f.now())
		switch {
		case since <= 7:
			q.Recency = "recent"
		case since <= 30:
			q.Recency = "moderate"
		default:
			q.Recency = "outdated"
		}
	}

	return q
}

// daysBetween counts whole days from a to b, truncating partial days
// toward negative infinity.
func daysBetween(a, b time.Time) float64 {
	return math.Floor(b.Sub(a).Hours() / 24)
}
