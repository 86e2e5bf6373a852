package predict

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/aouyang1/go-alchemy/exogenous"
	"github.com/aouyang1/go-alchemy/fitter"
	"github.com/aouyang1/go-alchemy/sarimax"
	"github.com/aouyang1/go-alchemy/timedataset"
	"github.com/aouyang1/go-alchemy/transform"
)

var (
	ErrNoModel                      = errors.New("no fitted model")
	ErrNoData                       = errors.New("no observations to predict")
	ErrNotInTrainingIndex           = errors.New("time point is not in the training index")
	ErrNotAfterTraining             = errors.New("forecast must start after the training index")
	ErrForecastGap                  = errors.New("forecast must start at the step following the training index")
	ErrExogenousForecastUnsupported = errors.New("forecasting with exogenous regressors is unsupported")
)

// ExogenousForecastUnsupportedError is returned when a model fit with covariates is asked to
// forecast past the end of the series where no future covariate values exist
type ExogenousForecastUnsupportedError struct {
	Covariates []string
}

func (e *ExogenousForecastUnsupportedError) Error() string {
	return fmt.Sprintf("future values of covariates %v are unknown, %v", e.Covariates, ErrExogenousForecastUnsupported)
}

func (e *ExogenousForecastUnsupportedError) Unwrap() error {
	return ErrExogenousForecastUnsupported
}

// Prediction holds predictions for a slice of the series in the original scale
type Prediction struct {
	T         []time.Time `json:"time"`
	Actual    []float64   `json:"actual"`
	Predicted []float64   `json:"predicted"`
	Lower     []float64   `json:"lower"`
	Upper     []float64   `json:"upper"`
	Forecast  bool        `json:"forecast"`
	Alpha     float64     `json:"alpha"`
	Scores    *Scores     `json:"scores"`
}

// Predict predicts the time points of slice with the fitted model. In sample the one step
// ahead fitted values of the model are used and every time point must be in the training
// index. With isForecast the model forecasts len(slice) steps past the training index using
// exog for those steps when the model was fit with regressors. slice is in the transformed
// scale and everything returned is inverse transformed.
func Predict(
	slice *timedataset.TimeDataset,
	period int,
	inverse transform.Kind,
	model *fitter.FittedModel,
	exog exogenous.Exogenous,
	isForecast bool,
	alpha float64,
) (*Prediction, error) {
	if model == nil {
		return nil, ErrNoModel
	}
	if slice.Len() == 0 {
		return nil, ErrNoData
	}
	if !(alpha > 0 && alpha < 1) {
		return nil, fmt.Errorf("got %g, %w", alpha, sarimax.ErrInvalidAlpha)
	}

	var (
		pred *Prediction
		err  error
	)
	if isForecast {
		pred, err = forecastSlice(slice, model, exog, alpha)
	} else {
		pred, err = inSample(slice, model, alpha)
	}
	if err != nil {
		return nil, err
	}

	pred.Predicted = inverse.Inverse(pred.Predicted)
	pred.Lower = inverse.Inverse(pred.Lower)
	pred.Upper = inverse.Inverse(pred.Upper)
	pred.Actual = inverse.Inverse(slice.Y)

	scores, err := NewScores(pred.Predicted, pred.Actual)
	if err != nil {
		return nil, fmt.Errorf("unable to score predictions, %w", err)
	}
	scores.MASE, err = MASE(pred.Predicted, pred.Actual, inverse.Inverse(model.Y), period)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean absolute scaled error, %w", err)
	}
	pred.Scores = scores
	return pred, nil
}

func inSample(slice *timedataset.TimeDataset, model *fitter.FittedModel, alpha float64) (*Prediction, error) {
	fitted := model.Estimate.FittedValues()
	halfWidth := distuv.UnitNormal.Quantile(1-alpha/2) * math.Sqrt(model.Estimate.Sigma2())

	n := slice.Len()
	pred := &Prediction{
		T:         append([]time.Time(nil), slice.T...),
		Predicted: make([]float64, n),
		Lower:     make([]float64, n),
		Upper:     make([]float64, n),
		Alpha:     alpha,
	}
	for i, t := range slice.T {
		idx, exists := model.IndexOf(t)
		if !exists {
			return nil, fmt.Errorf("%s, %w", t, ErrNotInTrainingIndex)
		}
		pred.Predicted[i] = fitted[idx]
		pred.Lower[i] = fitted[idx] - halfWidth
		pred.Upper[i] = fitted[idx] + halfWidth
	}
	return pred, nil
}

func forecastSlice(slice *timedataset.TimeDataset, model *fitter.FittedModel, exog exogenous.Exogenous, alpha float64) (*Prediction, error) {
	last := timedataset.TimeSlice(model.T).EndTime()
	if !slice.T[0].After(last) {
		return nil, fmt.Errorf("%s is not after %s, %w", slice.T[0], last, ErrNotAfterTraining)
	}
	if next := model.FutureIndex(1)[0]; !slice.T[0].Equal(next) {
		return nil, fmt.Errorf("%s instead of %s, %w", slice.T[0], next, ErrForecastGap)
	}

	if err := exogenous.Align(exog, slice.T); err != nil {
		return nil, fmt.Errorf("unable to align exogenous regressors, %w", err)
	}
	x := exogenous.Matrix(exog)

	fc, err := model.Estimate.Forecast(slice.Len(), x, alpha)
	if err != nil {
		return nil, fmt.Errorf("unable to forecast %d steps, %w", slice.Len(), err)
	}
	return &Prediction{
		T:         append([]time.Time(nil), slice.T...),
		Predicted: fc.Mean,
		Lower:     fc.Lower,
		Upper:     fc.Upper,
		Forecast:  true,
		Alpha:     alpha,
	}, nil
}
