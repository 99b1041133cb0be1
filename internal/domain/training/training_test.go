package training_test

import (
	"context"
	"testing"

	"github.com/mindgrove/cortex/internal/adapters/repository"
	"github.com/mindgrove/cortex/internal/domain/training"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTrain(t *testing.T) {
	Convey("Given a trainer with the default recipe", t, func() {
		ctx := context.Background()
		set, err := training.NewTrainer().Train(ctx)
		So(err, ShouldBeNil)

		Convey("Then the artifact set is complete", func() {
			So(set.Complete(), ShouldBeTrue)
			So(set.ID, ShouldNotBeEmpty)
			So(set.TrainedAt.IsZero(), ShouldBeFalse)
		})

		Convey("Then the label codec holds the four tiers sorted alphabetically", func() {
			So(set.Labels.Classes, ShouldResemble, []string{"Advanced", "Beginner", "Expert", "Intermediate"})
		})

		Convey("Then the scaler covers the five features", func() {
			So(set.Scaler.Mean, ShouldHaveLength, 5)
			So(set.Scaler.Scale, ShouldHaveLength, 5)
			for _, s := range set.Scaler.Scale {
				So(s, ShouldBeGreaterThan, 0)
			}
		})

		Convey("Then the predictor consumes a three-score window", func() {
			So(set.Predictor.Window(), ShouldEqual, 3)

			Convey("And predicts inside the score range for typical input", func() {
				pred := set.Predictor.Predict([]float64{60, 62, 64})
				So(pred, ShouldBeGreaterThan, 40)
				So(pred, ShouldBeLessThan, 90)
			})
		})

		Convey("Then a dominant profile classifies into a high tier", func() {
			scaled := set.Scaler.Transform([]float64{95, 90, 0.5, 85, 25})
			class, purity := set.Classifier.Predict(scaled)
			tier, ok := set.Labels.Decode(class)
			So(ok, ShouldBeTrue)
			So(tier, ShouldBeIn, "Expert", "Advanced")
			So(purity, ShouldBeGreaterThan, 0)
			So(purity, ShouldBeLessThanOrEqualTo, 1)
		})

		Convey("When training again with the same seed", func() {
			again, err := training.NewTrainer().Train(ctx)
			So(err, ShouldBeNil)

			Convey("Then the fitted parameters are identical", func() {
				So(again.Scaler.Mean, ShouldResemble, set.Scaler.Mean)
				So(again.Scaler.Scale, ShouldResemble, set.Scaler.Scale)
				So(again.Predictor.Coef, ShouldResemble, set.Predictor.Coef)
				So(again.Predictor.Intercept, ShouldEqual, set.Predictor.Intercept)
			})
		})

		Convey("When training with a different seed", func() {
			other, err := training.NewTrainer(training.WithSeed(7)).Train(ctx)
			So(err, ShouldBeNil)
			So(other.Scaler.Mean, ShouldNotResemble, set.Scaler.Mean)
		})
	})
}

func TestSaveLoadRoundtrip(t *testing.T) {
	Convey("Given an in-memory artifact store", t, func() {
		ctx := context.Background()
		store, err := repository.NewBadgerStore(ctx, repository.WithInMemory())
		So(err, ShouldBeNil)
		defer store.Close()

		set, err := training.NewTrainer(training.WithClassifierSamples(200), training.WithPredictorSeries(100)).Train(ctx)
		So(err, ShouldBeNil)

		Convey("When the set is saved and loaded back", func() {
			So(training.SaveSet(ctx, store, set), ShouldBeNil)

			loaded, err := training.LoadSet(ctx, store)
			So(err, ShouldBeNil)
			So(loaded.Complete(), ShouldBeTrue)
			So(loaded.ID, ShouldEqual, set.ID)
			So(loaded.Labels.Classes, ShouldResemble, set.Labels.Classes)
			So(loaded.Predictor.Coef, ShouldResemble, set.Predictor.Coef)

			Convey("Then loaded artifacts predict like the originals", func() {
				scaled := set.Scaler.Transform([]float64{70, 60, 0.8, 65, 40})
				wantClass, _ := set.Classifier.Predict(scaled)
				gotClass, _ := loaded.Classifier.Predict(loaded.Scaler.Transform([]float64{70, 60, 0.8, 65, 40}))
				So(gotClass, ShouldEqual, wantClass)
			})
		})
	})
}

func TestBootstrap(t *testing.T) {
	Convey("Given an empty artifact store", t, func() {
		ctx := context.Background()
		store, err := repository.NewBadgerStore(ctx, repository.WithInMemory())
		So(err, ShouldBeNil)
		defer store.Close()

		opts := []training.Option{
			training.WithClassifierSamples(200),
			training.WithPredictorSeries(100),
		}

		Convey("When bootstrapping the first time", func() {
			set, trained, err := training.Bootstrap(ctx, store, opts...)
			So(err, ShouldBeNil)
			So(trained, ShouldBeTrue)
			So(set.Complete(), ShouldBeTrue)

			Convey("Then a second bootstrap reuses the stored artifacts", func() {
				again, trained, err := training.Bootstrap(ctx, store, opts...)
				So(err, ShouldBeNil)
				So(trained, ShouldBeFalse)
				So(again.ID, ShouldEqual, set.ID)
			})
		})
	})
}
