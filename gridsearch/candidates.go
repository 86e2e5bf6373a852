package gridsearch

import (
	"errors"
	"fmt"
	"iter"

	"github.com/aouyang1/go-alchemy/sarimax"
)

var (
	ErrEmptyRange   = errors.New("empty search range")
	ErrInvalidRange = errors.New("search range has negative orders")
)

// Ranges are the candidate values of each searched order term
type Ranges struct {
	P         []int `json:"p"`
	Q         []int `json:"q"`
	SeasonalP []int `json:"seasonal_p"`
	SeasonalQ []int `json:"seasonal_q"`
}

// NewRanges searches every term from zero up to and including its max
func NewRanges(maxP, maxQ, maxSeasonalP, maxSeasonalQ int) Ranges {
	return Ranges{
		P:         upTo(maxP),
		Q:         upTo(maxQ),
		SeasonalP: upTo(maxSeasonalP),
		SeasonalQ: upTo(maxSeasonalQ),
	}
}

func upTo(max int) []int {
	if max < 0 {
		return nil
	}
	vals := make([]int, max+1)
	for i := range vals {
		vals[i] = i
	}
	return vals
}

func (r Ranges) Validate() error {
	terms := []struct {
		name string
		vals []int
	}{
		{"p", r.P}, {"q", r.Q}, {"P", r.SeasonalP}, {"Q", r.SeasonalQ},
	}
	for _, term := range terms {
		if len(term.vals) == 0 {
			return fmt.Errorf("%s, %w", term.name, ErrEmptyRange)
		}
		for _, v := range term.vals {
			if v < 0 {
				return fmt.Errorf("%s has %d, %w", term.name, v, ErrInvalidRange)
			}
		}
	}
	return nil
}

// Size is the number of candidates in the cross product
func (r Ranges) Size() int {
	return len(r.P) * len(r.Q) * len(r.SeasonalP) * len(r.SeasonalQ)
}

// Candidate is an order along with its position in the enumeration
type Candidate struct {
	Index int
	Order sarimax.Order
}

// Candidates lazily enumerates the cross product of the ranges with p outermost followed by
// q, P and Q. Seasonal terms are only enumerated when the period is seasonal.
func Candidates(r Ranges, d, bigD, period int) iter.Seq[Candidate] {
	seasonalP, seasonalQ := r.SeasonalP, r.SeasonalQ
	if period <= 1 {
		seasonalP, seasonalQ = []int{0}, []int{0}
		bigD = 0
		period = 0
	}
	return func(yield func(Candidate) bool) {
		idx := 0
		for _, p := range r.P {
			for _, q := range r.Q {
				for _, sp := range seasonalP {
					for _, sq := range seasonalQ {
						cand := Candidate{
							Index: idx,
							Order: sarimax.Order{
								P: p, D: d, Q: q,
								SeasonalP: sp, SeasonalD: bigD, SeasonalQ: sq,
								Period: period,
							},
						}
						if !yield(cand) {
							return
						}
						idx++
					}
				}
			}
		}
	}
}
