package fitter

import (
	"time"

	"github.com/aouyang1/go-alchemy/exogenous"
	"github.com/aouyang1/go-alchemy/sarimax"
	"github.com/aouyang1/go-alchemy/timedataset"
)

// FittedModel is a model fit on a training index. Y is in the transformed scale the model
// was fit in.
type FittedModel struct {
	Order     sarimax.Order
	T         []time.Time
	Y         []float64
	Frequency timedataset.Frequency
	Interval  time.Duration
	Exog      exogenous.Exogenous
	Estimate  Estimate
}

// Score returns the information criterion of the fit
func (m *FittedModel) Score(c sarimax.Criterion) (float64, error) {
	return m.Estimate.InformationCriterion(c)
}

// IndexOf returns the position of t in the training index
func (m *FittedModel) IndexOf(t time.Time) (int, bool) {
	ds := timedataset.TimeDataset{T: m.T, Y: m.Y}
	return ds.IndexOf(t)
}

// FutureIndex returns the steps time points following the training index
func (m *FittedModel) FutureIndex(steps int) []time.Time {
	last := timedataset.TimeSlice(m.T).EndTime()
	t := make([]time.Time, 0, steps)
	for h := 1; h <= steps; h++ {
		t = append(t, m.Frequency.Step(last, h, m.Interval))
	}
	return t
}
