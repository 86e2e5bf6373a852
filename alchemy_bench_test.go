package alchemy

import (
	"context"
	"testing"

	"github.com/pkg/profile"

	"github.com/aouyang1/go-alchemy/gridsearch"
)

var benchReport *Report

func BenchmarkRun(b *testing.B) {
	t := monthlyT(72)
	y := trendSeasonSeries(72, 7)

	p, err := New(nil, nil)
	if err != nil {
		panic(err)
	}

	b.ResetTimer()
	for b.Loop() {
		benchReport, err = p.Run(context.Background(), t, y, nil)
		if err != nil {
			panic(err)
		}
	}
}

func BenchmarkRunGridSearch(b *testing.B) {
	t := monthlyT(72)
	y := trendSeasonSeries(72, 7)

	opt := NewDefaultOptions()
	opt.GridSearch = true
	opt.SearchPadding = 1
	opt.Search = gridsearch.NewDefaultOptions()

	p, err := New(opt, nil)
	if err != nil {
		panic(err)
	}

	b.ResetTimer()
	defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	for b.Loop() {
		benchReport, err = p.Run(context.Background(), t, y, nil)
		if err != nil {
			panic(err)
		}
	}
}
