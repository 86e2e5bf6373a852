package alchemy

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"

	"github.com/aouyang1/go-alchemy/autocorr"
	"github.com/aouyang1/go-alchemy/fitter"
	"github.com/aouyang1/go-alchemy/gridsearch"
	"github.com/aouyang1/go-alchemy/predict"
	"github.com/aouyang1/go-alchemy/sarimax"
	"github.com/aouyang1/go-alchemy/stationarity"
	"github.com/aouyang1/go-alchemy/stats"
	"github.com/aouyang1/go-alchemy/timedataset"
)

// Report summarizes a pipeline run
type Report struct {
	Frequency    timedataset.Frequency
	Observations int
	TestSize     int
	Horizon      int
	Exogenous    []string

	Analysis   *stationarity.Result
	Suggestion *autocorr.Suggestion
	Suggested  sarimax.Order
	Search     *gridsearch.Result
	Order      sarimax.Order

	Validation *fitter.FittedModel
	Final      *fitter.FittedModel

	Train    *predict.Prediction
	Test     *predict.Prediction
	Forecast *predict.ForecastResult

	// ForecastErr explains a missing forecast, e.g. a model fit with covariates
	ForecastErr error

	LjungBox *stats.LjungBoxResult
	Outliers []time.Time
	VIF      map[string]float64

	Notes []string
}

func (r *Report) note(format string, args ...any) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}

type adfJSON struct {
	Statistic      Float            `json:"statistic"`
	PValue         Float            `json:"p_value"`
	UsedLag        int              `json:"used_lag"`
	NObs           int              `json:"n_obs"`
	CriticalValues map[string]Float `json:"critical_values"`
}

type analysisJSON struct {
	Transform        string    `json:"transform"`
	D                int       `json:"d"`
	SeasonalD        int       `json:"seasonal_d"`
	Period           int       `json:"period"`
	SeasonalStrength Float     `json:"seasonal_strength"`
	ADF              []adfJSON `json:"adf"`
	Description      []string  `json:"description"`
}

type suggestionJSON struct {
	Order           sarimax.Order `json:"order"`
	MaxLag          int           `json:"max_lag"`
	ACF             []Float       `json:"acf"`
	PACF            []Float       `json:"pacf"`
	ConfidenceBound Float         `json:"confidence_bound"`
}

type searchJSON struct {
	Best      sarimax.Order `json:"best"`
	Criterion string        `json:"criterion"`
	Score     Float         `json:"score"`
	Evaluated int           `json:"evaluated"`
	Failed    int           `json:"failed"`
	Total     int           `json:"total"`
	Truncated bool          `json:"truncated"`
	Elapsed   string        `json:"elapsed"`
}

type modelJSON struct {
	Order      sarimax.Order    `json:"order"`
	TrainStart time.Time        `json:"train_start"`
	TrainEnd   time.Time        `json:"train_end"`
	NumParams  int              `json:"num_params"`
	Sigma2     Float            `json:"sigma2"`
	Criteria   map[string]Float `json:"criteria"`
}

type scoresJSON struct {
	MSE  Float `json:"mean_squared_error"`
	MAPE Float `json:"mean_absolute_percent_error"`
	R2   Float `json:"r_squared"`
	MASE Float `json:"mean_absolute_scaled_error"`
}

type predictionJSON struct {
	T         []time.Time `json:"time"`
	Actual    []Float     `json:"actual"`
	Predicted []Float     `json:"predicted"`
	Lower     []Float     `json:"lower"`
	Upper     []Float     `json:"upper"`
	Forecast  bool        `json:"forecast"`
	Scores    *scoresJSON `json:"scores"`
}

type pointJSON struct {
	T     time.Time `json:"time"`
	Value Float     `json:"value"`
	Lower Float     `json:"lower"`
	Upper Float     `json:"upper"`
}

type forecastJSON struct {
	Alpha       Float       `json:"alpha"`
	Points      []pointJSON `json:"points,omitempty"`
	Unsupported string      `json:"unsupported,omitempty"`
}

type ljungBoxJSON struct {
	Statistic Float `json:"statistic"`
	PValue    Float `json:"p_value"`
	Lags      int   `json:"lags"`
	DOF       int   `json:"dof"`
}

type diagnosticsJSON struct {
	LjungBox *ljungBoxJSON    `json:"ljung_box,omitempty"`
	Outliers []time.Time      `json:"outliers,omitempty"`
	VIF      map[string]Float `json:"vif,omitempty"`
}

type reportJSON struct {
	Frequency    string          `json:"frequency"`
	Observations int             `json:"observations"`
	TestSize     int             `json:"test_size"`
	Horizon      int             `json:"horizon"`
	Exogenous    []string        `json:"exogenous,omitempty"`
	Analysis     *analysisJSON   `json:"analysis"`
	Suggestion   *suggestionJSON `json:"suggestion"`
	Search       *searchJSON     `json:"search,omitempty"`
	Order        sarimax.Order   `json:"order"`
	Validation   *modelJSON      `json:"validation_model"`
	Final        *modelJSON      `json:"final_model"`
	Train        *predictionJSON `json:"train_prediction"`
	Test         *predictionJSON `json:"test_prediction"`
	Forecast     *forecastJSON   `json:"forecast"`
	Diagnostics  diagnosticsJSON `json:"diagnostics"`
	Notes        []string        `json:"notes,omitempty"`
}

// MarshalJSON serializes the report with undefined scores as null
func (r *Report) MarshalJSON() ([]byte, error) {
	out := reportJSON{
		Frequency:    string(r.Frequency),
		Observations: r.Observations,
		TestSize:     r.TestSize,
		Horizon:      r.Horizon,
		Exogenous:    r.Exogenous,
		Order:        r.Order,
		Validation:   newModelJSON(r.Validation),
		Final:        newModelJSON(r.Final),
		Train:        newPredictionJSON(r.Train),
		Test:         newPredictionJSON(r.Test),
		Notes:        r.Notes,
	}

	if a := r.Analysis; a != nil {
		out.Analysis = &analysisJSON{
			Transform:        a.Transform.String(),
			D:                a.D,
			SeasonalD:        a.SeasonalD,
			Period:           a.Period,
			SeasonalStrength: Float(a.SeasonalStrength),
			Description:      a.Description,
		}
		for _, adf := range a.ADF {
			crit := make(map[string]Float, len(adf.CriticalValues))
			for k, v := range adf.CriticalValues {
				crit[k] = Float(v)
			}
			out.Analysis.ADF = append(out.Analysis.ADF, adfJSON{
				Statistic:      Float(adf.Statistic),
				PValue:         Float(adf.PValue),
				UsedLag:        adf.UsedLag,
				NObs:           adf.NObs,
				CriticalValues: crit,
			})
		}
	}

	if s := r.Suggestion; s != nil {
		out.Suggestion = &suggestionJSON{
			Order:           r.Suggested,
			MaxLag:          s.MaxLag,
			ACF:             toFloats(s.ACF),
			PACF:            toFloats(s.PACF),
			ConfidenceBound: Float(s.ConfidenceBound),
		}
	}

	if s := r.Search; s != nil {
		out.Search = &searchJSON{
			Best:      s.Best,
			Criterion: string(s.Criterion),
			Score:     Float(s.Score),
			Evaluated: s.Evaluated,
			Failed:    s.Failed,
			Total:     s.Total,
			Truncated: s.Truncated,
			Elapsed:   s.Elapsed.String(),
		}
	}

	switch {
	case r.Forecast != nil:
		out.Forecast = &forecastJSON{Alpha: Float(r.Forecast.Alpha)}
		for _, pnt := range r.Forecast.Points {
			out.Forecast.Points = append(out.Forecast.Points, pointJSON{
				T:     pnt.T,
				Value: Float(pnt.Value),
				Lower: Float(pnt.Lower),
				Upper: Float(pnt.Upper),
			})
		}
	case r.ForecastErr != nil:
		out.Forecast = &forecastJSON{Unsupported: r.ForecastErr.Error()}
	}

	if lb := r.LjungBox; lb != nil {
		out.Diagnostics.LjungBox = &ljungBoxJSON{
			Statistic: Float(lb.Statistic),
			PValue:    Float(lb.PValue),
			Lags:      lb.Lags,
			DOF:       lb.DOF,
		}
	}
	out.Diagnostics.Outliers = r.Outliers
	if len(r.VIF) > 0 {
		out.Diagnostics.VIF = make(map[string]Float, len(r.VIF))
		for k, v := range r.VIF {
			out.Diagnostics.VIF[k] = Float(v)
		}
	}

	return json.Marshal(out)
}

func newModelJSON(m *fitter.FittedModel) *modelJSON {
	if m == nil {
		return nil
	}
	out := &modelJSON{
		Order:      m.Order,
		TrainStart: timedataset.TimeSlice(m.T).StartTime(),
		TrainEnd:   timedataset.TimeSlice(m.T).EndTime(),
		NumParams:  m.Estimate.NumParams(),
		Sigma2:     Float(m.Estimate.Sigma2()),
		Criteria:   make(map[string]Float),
	}
	for _, c := range []sarimax.Criterion{sarimax.AIC, sarimax.AICc, sarimax.BIC} {
		if score, err := m.Score(c); err == nil {
			out.Criteria[string(c)] = Float(score)
		}
	}
	return out
}

func newPredictionJSON(p *predict.Prediction) *predictionJSON {
	if p == nil {
		return nil
	}
	out := &predictionJSON{
		T:         p.T,
		Actual:    toFloats(p.Actual),
		Predicted: toFloats(p.Predicted),
		Lower:     toFloats(p.Lower),
		Upper:     toFloats(p.Upper),
		Forecast:  p.Forecast,
	}
	if p.Scores != nil {
		out.Scores = &scoresJSON{
			MSE:  Float(p.Scores.MSE),
			MAPE: Float(p.Scores.MAPE),
			R2:   Float(p.Scores.R2),
			MASE: Float(p.Scores.MASE),
		}
	}
	return out
}

// TablePrint writes a human readable summary of the report
func (r *Report) TablePrint(w io.Writer, prefix, indent string) error {
	if _, err := fmt.Fprintf(w, "%s%sSeries:\n", prefix, IndentExpand(indent, 0)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sObservations: %d    Frequency: %s    Test Size: %d    Horizon: %d\n",
		prefix, IndentExpand(indent, 1),
		r.Observations, r.Frequency, r.TestSize, r.Horizon,
	); err != nil {
		return err
	}
	if len(r.Exogenous) > 0 {
		if _, err := fmt.Fprintf(w, "%s%sExogenous: %v\n", prefix, IndentExpand(indent, 1), r.Exogenous); err != nil {
			return err
		}
	}

	if err := r.tablePrintAnalysis(w, prefix, indent); err != nil {
		return err
	}
	if err := r.tablePrintOrder(w, prefix, indent); err != nil {
		return err
	}
	if err := r.tablePrintScores(w, prefix, indent); err != nil {
		return err
	}
	if err := r.tablePrintForecast(w, prefix, indent); err != nil {
		return err
	}
	return r.tablePrintDiagnostics(w, prefix, indent)
}

func (r *Report) tablePrintAnalysis(w io.Writer, prefix, indent string) error {
	a := r.Analysis
	if a == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "%s%sStationarity:\n", prefix, IndentExpand(indent, 0)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sTransform: %s    d: %d    D: %d    Period: %d    Seasonal Strength: %.3f\n",
		prefix, IndentExpand(indent, 1),
		a.Transform, a.D, a.SeasonalD, a.Period, a.SeasonalStrength,
	); err != nil {
		return err
	}
	if len(a.ADF) > 0 {
		tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
		if _, err := fmt.Fprintf(tbl, "%s%sADF\tStatistic\tP-Value\tLags\tObservations\t\n", prefix, IndentExpand(indent, 1)); err != nil {
			return err
		}
		for i, adf := range a.ADF {
			if _, err := fmt.Fprintf(tbl, "%s%s%d\t%.3f\t%.3f\t%d\t%d\t\n",
				prefix, IndentExpand(indent, 1),
				i, adf.Statistic, adf.PValue, adf.UsedLag, adf.NObs,
			); err != nil {
				return err
			}
		}
		if err := tbl.Flush(); err != nil {
			return err
		}
	}
	for _, desc := range a.Description {
		if _, err := fmt.Fprintf(w, "%s%s- %s\n", prefix, IndentExpand(indent, 1), desc); err != nil {
			return err
		}
	}
	return nil
}

func (r *Report) tablePrintOrder(w io.Writer, prefix, indent string) error {
	if _, err := fmt.Fprintf(w, "%s%sOrder:\n", prefix, IndentExpand(indent, 0)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sSuggested: %s\n", prefix, IndentExpand(indent, 1), r.Suggested); err != nil {
		return err
	}
	if s := r.Search; s != nil {
		if _, err := fmt.Fprintf(w, "%s%sSearch: %s    %s: %s    Evaluated: %d/%d    Failed: %d    Elapsed: %s\n",
			prefix, IndentExpand(indent, 1),
			s.Best, s.Criterion, formatFloat(s.Score), s.Evaluated, s.Total, s.Failed, s.Elapsed,
		); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "%s%sSelected: %s\n", prefix, IndentExpand(indent, 1), r.Order); err != nil {
		return err
	}
	if r.Final != nil {
		aic, _ := r.Final.Score(sarimax.AIC)
		bic, _ := r.Final.Score(sarimax.BIC)
		if _, err := fmt.Fprintf(w, "%s%sAIC: %s    BIC: %s    Sigma2: %s\n",
			prefix, IndentExpand(indent, 1),
			formatFloat(aic), formatFloat(bic), formatFloat(r.Final.Estimate.Sigma2()),
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *Report) tablePrintScores(w io.Writer, prefix, indent string) error {
	if r.Train == nil && r.Test == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "%s%sScores:\n", prefix, IndentExpand(indent, 0)); err != nil {
		return err
	}
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "%s%sSet\tPoints\tMAPE\tMSE\tR2\tMASE\t\n", prefix, IndentExpand(indent, 1)); err != nil {
		return err
	}
	sets := []struct {
		name string
		pred *predict.Prediction
	}{
		{"Train", r.Train},
		{"Test", r.Test},
	}
	for _, set := range sets {
		if set.pred == nil || set.pred.Scores == nil {
			continue
		}
		sc := set.pred.Scores
		if _, err := fmt.Fprintf(tbl, "%s%s%s\t%d\t%s\t%s\t%s\t%s\t\n",
			prefix, IndentExpand(indent, 1),
			set.name, len(set.pred.T),
			formatFloat(sc.MAPE), formatFloat(sc.MSE), formatFloat(sc.R2), formatFloat(sc.MASE),
		); err != nil {
			return err
		}
	}
	return tbl.Flush()
}

func (r *Report) tablePrintForecast(w io.Writer, prefix, indent string) error {
	if r.Forecast == nil {
		if r.ForecastErr == nil {
			return nil
		}
		_, err := fmt.Fprintf(w, "%s%sForecast: None, %v\n", prefix, IndentExpand(indent, 0), r.ForecastErr)
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sForecast:\n", prefix, IndentExpand(indent, 0)); err != nil {
		return err
	}
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "%s%sTime\tValue\tLower\tUpper\t\n", prefix, IndentExpand(indent, 1)); err != nil {
		return err
	}
	for _, pnt := range r.Forecast.Points {
		if _, err := fmt.Fprintf(tbl, "%s%s%s\t%s\t%s\t%s\t\n",
			prefix, IndentExpand(indent, 1),
			pnt.T.Format(time.DateOnly), formatFloat(pnt.Value), formatFloat(pnt.Lower), formatFloat(pnt.Upper),
		); err != nil {
			return err
		}
	}
	return tbl.Flush()
}

func (r *Report) tablePrintDiagnostics(w io.Writer, prefix, indent string) error {
	if _, err := fmt.Fprintf(w, "%s%sDiagnostics:\n", prefix, IndentExpand(indent, 0)); err != nil {
		return err
	}
	if lb := r.LjungBox; lb != nil {
		if _, err := fmt.Fprintf(w, "%s%sLjung-Box: Q=%.3f    P-Value: %.3f    Lags: %d\n",
			prefix, IndentExpand(indent, 1), lb.Statistic, lb.PValue, lb.Lags,
		); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "%s%sOutliers: %d\n", prefix, IndentExpand(indent, 1), len(r.Outliers)); err != nil {
		return err
	}
	if len(r.VIF) > 0 {
		names := make([]string, 0, len(r.VIF))
		for name := range r.VIF {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if _, err := fmt.Fprintf(w, "%s%sVIF %s: %s\n", prefix, IndentExpand(indent, 1), name, formatFloat(r.VIF[name])); err != nil {
				return err
			}
		}
	}
	for _, n := range r.Notes {
		if _, err := fmt.Fprintf(w, "%s%sNote: %s\n", prefix, IndentExpand(indent, 1), n); err != nil {
			return err
		}
	}
	return nil
}
