package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/profile"
	"go.uber.org/zap"

	"github.com/aouyang1/go-alchemy"
	"github.com/aouyang1/go-alchemy/exogenous"
	"github.com/aouyang1/go-alchemy/sarimax"
	"github.com/aouyang1/go-alchemy/timedataset"
)

type config struct {
	file       string
	timeCol    string
	target     string
	timeFormat string
	freq       string
	testSize   int
	horizon    int
	alpha      float64
	grid       bool
	padding    int
	criterion  string
	exog       string
	holidays   bool
	parallel   int
	timeout    time.Duration
	out        string
	profile    string
	quiet      bool
}

func parseFlags(args []string) (*config, error) {
	cfg := &config{}
	fs := flag.NewFlagSet("alchemy", flag.ContinueOnError)
	fs.StringVar(&cfg.file, "file", "", "csv file with a header row")
	fs.StringVar(&cfg.timeCol, "time-col", "date", "name of the time column")
	fs.StringVar(&cfg.target, "target", "y", "name of the column to forecast")
	fs.StringVar(&cfg.timeFormat, "time-format", time.DateOnly, "layout of the time column")
	fs.StringVar(&cfg.freq, "freq", "", "sampling frequency, e.g. D, W, MS, Q, Y. inferred when empty")
	fs.IntVar(&cfg.testSize, "test-size", 0, "number of trailing observations held out for validation")
	fs.IntVar(&cfg.horizon, "horizon", 0, "number of periods to forecast")
	fs.Float64Var(&cfg.alpha, "alpha", 0.05, "confidence intervals cover 1-alpha")
	fs.BoolVar(&cfg.grid, "grid", false, "grid search the orders around the suggested order")
	fs.IntVar(&cfg.padding, "padding", 3, "grid search every order from zero to suggested+padding-1")
	fs.StringVar(&cfg.criterion, "criterion", "aic", "information criterion of the grid search, one of aic, aicc or bic")
	fs.StringVar(&cfg.exog, "exog", "", "comma separated columns used as exogenous regressors")
	fs.BoolVar(&cfg.holidays, "holidays", false, "add US holiday indicators as exogenous regressors")
	fs.IntVar(&cfg.parallel, "parallel", 0, "number of concurrent grid search fits. zero uses every cpu")
	fs.DurationVar(&cfg.timeout, "timeout", 0, "grid search time limit")
	fs.StringVar(&cfg.out, "out", "", "write the json report to this path")
	fs.StringVar(&cfg.profile, "profile", "", "write a cpu or mem profile to the working directory")
	fs.BoolVar(&cfg.quiet, "quiet", false, "only log warnings and errors")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.file == "" {
		return nil, fmt.Errorf("-file is required")
	}
	return cfg, nil
}

func (c *config) options() (*alchemy.Options, error) {
	opt := alchemy.NewDefaultOptions()
	if c.freq != "" {
		freq, err := timedataset.ParseFrequency(c.freq)
		if err != nil {
			return nil, err
		}
		opt.Frequency = freq
	}
	criterion, err := sarimax.ParseCriterion(c.criterion)
	if err != nil {
		return nil, err
	}
	opt.TestSize = c.testSize
	opt.Horizon = c.horizon
	opt.Alpha = c.alpha
	opt.GridSearch = c.grid
	opt.SearchPadding = c.padding
	opt.Search.Criterion = criterion
	opt.Search.Timeout = c.timeout
	if c.parallel > 0 {
		opt.Search.Parallelization = c.parallel
	}
	opt.Quiet = c.quiet
	return opt, nil
}

func (c *config) exogColumns() []string {
	var names []string
	for _, name := range strings.Split(c.exog, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// buildExog combines the named columns with the holiday indicators
func buildExog(tbl *Table, names []string, holidays bool, freq timedataset.Frequency) (exogenous.Exogenous, error) {
	if len(names) == 0 && !holidays {
		return exogenous.None{}, nil
	}

	columns := make([][]float64, 0, len(names))
	for _, name := range names {
		col, err := tbl.Column(name)
		if err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}
	allNames := append([]string(nil), names...)

	if holidays {
		inferred, interval, err := timedataset.InferFrequency(tbl.T)
		if err != nil {
			return nil, fmt.Errorf("unable to infer frequency for holidays, %w", err)
		}
		if freq == "" {
			freq = inferred
		}
		hol, err := exogenous.Holidays(tbl.T, freq, interval, exogenous.DefaultUSHolidays()...)
		if err != nil {
			return nil, err
		}
		for _, name := range hol.Names {
			col, err := hol.Column(name)
			if err != nil {
				return nil, err
			}
			allNames = append(allNames, name)
			columns = append(columns, col)
		}
	}
	return exogenous.NewPresent(tbl.T, allNames, columns)
}

func newLogger(quiet bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if quiet {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return cfg.Build()
}

func run(ctx context.Context, cfg *config, logger *zap.Logger) error {
	opt, err := cfg.options()
	if err != nil {
		return fmt.Errorf("invalid flags, %w", err)
	}

	f, err := os.Open(cfg.file)
	if err != nil {
		return err
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	tbl, err := LoadCSV(f, cfg.timeCol, cfg.timeFormat)
	if err != nil {
		return fmt.Errorf("unable to load %s, %w", cfg.file, err)
	}
	exogNames := cfg.exogColumns()
	tbl, dropped, err := tbl.DropMissing(append([]string{cfg.target}, exogNames...)...)
	if err != nil {
		return err
	}
	if dropped > 0 {
		logger.Warn("dropped rows with missing values", zap.Int("rows", dropped))
	}

	y, err := tbl.Column(cfg.target)
	if err != nil {
		return err
	}
	exog, err := buildExog(tbl, exogNames, cfg.holidays, opt.Frequency)
	if err != nil {
		return fmt.Errorf("unable to build exogenous regressors, %w", err)
	}

	p, err := alchemy.New(opt, logger)
	if err != nil {
		return err
	}
	rep, err := p.Run(ctx, tbl.T, y, exog)
	if err != nil {
		return err
	}

	if err := rep.TablePrint(os.Stdout, "", "  "); err != nil {
		return err
	}
	if cfg.out == "" {
		return nil
	}
	out, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to marshal report, %w", err)
	}
	if err := os.WriteFile(cfg.out, out, 0o644); err != nil {
		return err
	}
	logger.Info("wrote report", zap.String("path", cfg.out))
	return nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg.quiet)
	if err != nil {
		panic(err)
	}
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	switch cfg.profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("unable to run pipeline", zap.Error(err))
		cancel()
		_ = logger.Sync()
		os.Exit(1)
	}
}
