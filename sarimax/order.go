package sarimax

import (
	"fmt"
)

// Order is the (p,d,q)x(P,D,Q,s) orders of a seasonal ARIMA model
type Order struct {
	P         int `json:"p"`
	D         int `json:"d"`
	Q         int `json:"q"`
	SeasonalP int `json:"seasonal_p"`
	SeasonalD int `json:"seasonal_d"`
	SeasonalQ int `json:"seasonal_q"`
	Period    int `json:"period"`
}

func (o Order) Validate() error {
	if o.P < 0 || o.D < 0 || o.Q < 0 || o.SeasonalP < 0 || o.SeasonalD < 0 || o.SeasonalQ < 0 || o.Period < 0 {
		return fmt.Errorf("%s has negative terms, %w", o, ErrInvalidOrder)
	}
	if o.SeasonalP+o.SeasonalD+o.SeasonalQ > 0 && o.Period <= 1 {
		return fmt.Errorf("%s has seasonal terms without a seasonal period, %w", o, ErrInvalidOrder)
	}
	return nil
}

func (o Order) String() string {
	return fmt.Sprintf("(%d,%d,%d)x(%d,%d,%d,%d)", o.P, o.D, o.Q, o.SeasonalP, o.SeasonalD, o.SeasonalQ, o.Period)
}

// Sum is p+q+P+Q
func (o Order) Sum() int {
	return o.P + o.Q + o.SeasonalP + o.SeasonalQ
}

// burnIn is the number of observations consumed by differencing
func (o Order) burnIn() int {
	return o.D + o.SeasonalD*o.Period
}

func (o Order) period() int {
	if o.SeasonalP+o.SeasonalD+o.SeasonalQ == 0 {
		return 0
	}
	return o.Period
}
