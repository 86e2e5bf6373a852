package predict

import (
	"fmt"
	"time"

	"github.com/aouyang1/go-alchemy/exogenous"
	"github.com/aouyang1/go-alchemy/fitter"
	"github.com/aouyang1/go-alchemy/transform"
)

// Point is a forecast value with its interval in the original scale
type Point struct {
	T     time.Time `json:"time"`
	Value float64   `json:"value"`
	Lower float64   `json:"lower"`
	Upper float64   `json:"upper"`
}

type ForecastResult struct {
	Points    []Point        `json:"points"`
	Alpha     float64        `json:"alpha"`
	Transform transform.Kind `json:"transform"`
}

// Values returns the forecast values in time order
func (f *ForecastResult) Values() []float64 {
	vals := make([]float64, len(f.Points))
	for i, p := range f.Points {
		vals[i] = p.Value
	}
	return vals
}

// Forecast predicts horizon steps past the end of the series the model was fit on. Models fit
// with exogenous regressors cannot be forecast since future covariates are unknown.
func Forecast(model *fitter.FittedModel, horizon int, inverse transform.Kind, alpha float64) (*ForecastResult, error) {
	if model == nil {
		return nil, ErrNoModel
	}
	switch ex := model.Exog.(type) {
	case exogenous.Present:
		return nil, &ExogenousForecastUnsupportedError{Covariates: append([]string(nil), ex.Names...)}
	}

	fc, err := model.Estimate.Forecast(horizon, nil, alpha)
	if err != nil {
		return nil, fmt.Errorf("unable to forecast %d steps, %w", horizon, err)
	}

	t := model.FutureIndex(horizon)
	res := &ForecastResult{
		Points:    make([]Point, horizon),
		Alpha:     alpha,
		Transform: inverse,
	}
	for h := 0; h < horizon; h++ {
		res.Points[h] = Point{
			T:     t[h],
			Value: inverse.InverseValue(fc.Mean[h]),
			Lower: inverse.InverseValue(fc.Lower[h]),
			Upper: inverse.InverseValue(fc.Upper[h]),
		}
	}
	return res, nil
}
