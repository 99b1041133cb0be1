package classify_test

import (
	"context"
	"testing"

	"github.com/mindgrove/cortex/internal/domain/artifact"
	"github.com/mindgrove/cortex/internal/domain/classify"
	"github.com/mindgrove/cortex/internal/domain/profile"
	"github.com/mindgrove/cortex/internal/domain/training"
	. "github.com/smartystreets/goconvey/convey"
)

func trainedSet(t *testing.T) *artifact.Set {
	t.Helper()
	set, err := training.NewTrainer().Train(context.Background())
	if err != nil {
		t.Fatalf("training failed: %v", err)
	}
	return set
}

func TestClassify(t *testing.T) {
	Convey("Given a trained artifact set", t, func() {
		set := trainedSet(t)

		Convey("When classifying a dominant profile", func() {
			sample := profile.Sample{
				Metrics: profile.Metrics{Memory: 85, Attention: 80, ReactionTime: 0.5, ProblemSolving: 85},
				Age:     25,
			}
			result, err := classify.Classify(set, sample)
			So(err, ShouldBeNil)

			Convey("Then the tier and confidence are valid", func() {
				So(result.CognitiveType, ShouldBeIn, "Beginner", "Intermediate", "Advanced", "Expert")
				So(result.Confidence, ShouldBeGreaterThan, 0)
				So(result.Confidence, ShouldBeLessThanOrEqualTo, 1)
			})

			Convey("Then the characteristics reflect the score thresholds", func() {
				So(result.Characteristics, ShouldContain, "Excellent working memory capacity")
				So(result.Characteristics, ShouldContain, "Strong attention control and focus")
				So(result.Characteristics, ShouldContain, "Very fast processing speed")
				So(result.Characteristics, ShouldContain, "Advanced problem-solving abilities")
				So(result.Characteristics, ShouldContain, "Young adult cognitive profile")
			})

			Convey("Then the strengths name the top two domains", func() {
				So(result.DomainStrengths, ShouldResemble, []string{"Working Memory", "Problem Solving"})
			})

			Convey("Then no weak-domain advice is appended", func() {
				So(result.Recommendations, ShouldHaveLength, 3)
			})
		})

		Convey("When classifying a balanced mid-range profile", func() {
			sample := profile.Sample{
				Metrics: profile.Metrics{Memory: 55, Attention: 55, ReactionTime: 0.95, ProblemSolving: 55},
				Age:     40,
			}
			result, err := classify.Classify(set, sample)
			So(err, ShouldBeNil)

			Convey("Then the fallback characteristic is used", func() {
				So(result.Characteristics, ShouldResemble, []string{"Balanced cognitive profile with room for improvement"})
			})

			Convey("Then the best domain is still named as a strength", func() {
				So(result.DomainStrengths, ShouldResemble, []string{"Working Memory"})
			})

			Convey("Then weak-domain advice is appended up to the cap", func() {
				So(result.Recommendations, ShouldHaveLength, 5)
			})
		})

		Convey("When classifying an older profile", func() {
			sample := profile.Sample{
				Metrics: profile.Metrics{Memory: 70, Attention: 65, ReactionTime: 0.8, ProblemSolving: 70},
				Age:     65,
			}
			result, err := classify.Classify(set, sample)
			So(err, ShouldBeNil)
			So(result.Characteristics, ShouldContain, "Mature adult cognitive profile")
		})

		Convey("When the sample is out of range", func() {
			sample := profile.Sample{
				Metrics: profile.Metrics{Memory: 120, Attention: 60, ReactionTime: 0.8, ProblemSolving: 70},
				Age:     30,
			}
			_, err := classify.Classify(set, sample)
			So(err, ShouldWrap, profile.ErrOutOfRange)
		})
	})

	Convey("Given no artifact set", t, func() {
		sample := profile.Sample{
			Metrics: profile.Metrics{Memory: 75, Attention: 60, ReactionTime: 0.8, ProblemSolving: 70},
			Age:     30,
		}

		Convey("When the snapshot is nil", func() {
			_, err := classify.Classify(nil, sample)
			So(err, ShouldWrap, artifact.ErrUnavailable)
		})

		Convey("When an artifact is missing", func() {
			set := trainedSet(t)
			set.Scaler = nil
			_, err := classify.Classify(set, sample)
			So(err, ShouldWrap, artifact.ErrUnavailable)
		})
	})
}
