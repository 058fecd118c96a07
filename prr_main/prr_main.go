// Copyright (c) 2020, The OTNS Authors.
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the
//    names of its contributors may be used to endorse or promote products
//    derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

package prr_main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pkg/errors"

	"github.com/otns-labs/v2x-prr/analysis"
	"github.com/otns-labs/v2x-prr/cli"
	"github.com/otns-labs/v2x-prr/kpi"
	"github.com/otns-labs/v2x-prr/logger"
	"github.com/otns-labs/v2x-prr/metrics"
	"github.com/otns-labs/v2x-prr/progctx"
	"github.com/otns-labs/v2x-prr/scenario"
)

type MainArgs struct {
	Scenario     string
	Set          string
	OutDir       string
	Format       string
	SimMetrics   string
	PrrThreshold float64
	MetricsFile  string
	LogLevel     string
	LogFile      string
	Workers      int
	Interactive  bool
}

func parseArgs(fs *flag.FlagSet, argv []string) (*MainArgs, error) {
	args := &MainArgs{}
	fs.StringVar(&args.Scenario, "scenario", "", "scenario file (yaml); the default highway scenario is used if empty")
	fs.StringVar(&args.Set, "set", "", "parameter overrides applied to the scenario, e.g. \"beta=0.1, P_s_dB=-87\"")
	fs.StringVar(&args.OutDir, "out", ".", "output directory of the exported tables")
	fs.StringVar(&args.Format, "format", "csv", "table format: csv, yaml")
	fs.StringVar(&args.SimMetrics, "sim", "", "simulation metrics (csv) to compare the analytical results with")
	fs.Float64Var(&args.PrrThreshold, "prr-threshold", 0, "PDR threshold of the communication range (default: scenario value, 0.98)")
	fs.StringVar(&args.MetricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")
	fs.StringVar(&args.LogLevel, "log", "warn", "set logging level: trace, debug, info, warn, error, off.")
	fs.StringVar(&args.LogFile, "log-file", "", "also write the log to this file")
	fs.IntVar(&args.Workers, "workers", 0, "distances evaluated concurrently (default: scenario value)")
	fs.BoolVar(&args.Interactive, "i", false, "start the interactive shell instead of the batch run")

	if err := fs.Parse(argv); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, errors.Errorf("unexpected arguments: %v", fs.Args())
	}
	return args, nil
}

// Main parses the command line and runs v2x-prr until the batch run or the shell finishes.
func Main(ctx *progctx.ProgCtx, cliOptions *cli.CliOptions) {
	args, err := parseArgs(flag.CommandLine, os.Args[1:])
	logger.FatalIfError(err)

	logger.FatalIfError(configureLogging(args))

	handleSignals(ctx)

	err = Run(ctx, args, cliOptions)
	ctx.Cancel(err)
	ctx.Wait()
	logger.FatalIfError(err)
}

func configureLogging(args *MainArgs) error {
	lv, err := logger.ParseLevelString(args.LogLevel)
	if err != nil {
		return err
	}
	logger.SetLevel(lv)
	if args.LogFile != "" {
		return logger.SetOutput([]string{"stderr", args.LogFile})
	}
	return nil
}

// Run executes one batch run, or the interactive shell if args.Interactive is set.
func Run(ctx *progctx.ProgCtx, args *MainArgs, cliOptions *cli.CliOptions) error {
	s, err := loadScenario(args)
	if err != nil {
		return err
	}

	var m *metrics.Collector
	if args.MetricsFile != "" {
		if m, err = metrics.NewCollector(nil); err != nil {
			return err
		}
	}

	if args.Interactive {
		opts := s.Options
		opts.Metrics = m
		if args.Workers > 0 {
			opts.Workers = args.Workers
		}
		rt := cli.NewCmdRunner(ctx, s.Params, opts)
		rt.SetPrrThreshold(s.PrrThreshold)
		ctx.Defer(func() {
			_ = os.Stdin.Close()
		})
		cli.Run(ctx, rt, cliOptions)
	} else if err = runBatch(ctx, args, s, m); err != nil {
		return err
	}

	if m != nil {
		return m.WriteTextfile(args.MetricsFile)
	}
	return nil
}

func loadScenario(args *MainArgs) (*scenario.Scenario, error) {
	s := scenario.Default()
	if args.Scenario != "" {
		var err error
		if s, err = scenario.Load(args.Scenario); err != nil {
			return nil, err
		}
	}

	overrides, err := cli.ParseAssignments(args.Set)
	if err != nil {
		return nil, err
	}
	if err = cli.ApplyAssignments(&s.Params, overrides); err != nil {
		return nil, errors.Wrap(err, "-set")
	}
	if args.PrrThreshold != 0 {
		s.PrrThreshold = args.PrrThreshold
	}
	return s, s.Validate()
}

// table is an exported file, named without extension.
type table struct {
	name string
	data interface{}
}

func runBatch(ctx *progctx.ProgCtx, args *MainArgs, s *scenario.Scenario, m *metrics.Collector) error {
	format, err := kpi.ParseFormat(args.Format)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(args.OutDir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", args.OutDir)
	}

	outcomes, err := s.Execute(ctx, analysis.Options{Metrics: m, Workers: args.Workers})
	if err != nil {
		return err
	}
	for _, o := range outcomes {
		printSummary(os.Stdout, &o)
	}

	rows := scenario.Rows(outcomes)
	tables := []table{
		{"analytical_metrics", rows},
		{"communication_range", kpi.CommunicationRange(rows, s.PrrThreshold)},
	}

	if args.SimMetrics != "" {
		sim, err := kpi.LoadSimMetrics(args.SimMetrics)
		if err != nil {
			return err
		}
		deltas := kpi.Compare(rows, sim)
		if len(deltas) == 0 {
			logger.Warnf("no simulation rows match the analytical runs (protocol, numerology, beta, distance)")
		}
		tables = append(tables,
			table{"simulation_communication_range", kpi.CommunicationRange(sim, s.PrrThreshold)},
			table{"comparison", deltas},
		)
	}

	summary := kpi.NewSummary(s.PrrThreshold)
	for _, o := range outcomes {
		summary.AddRun(o.Run.Name(), o.Result)
	}
	if err = summary.SaveFile(filepath.Join(args.OutDir, "kpi_summary.yaml")); err != nil {
		return err
	}

	for _, t := range tables {
		fn := filepath.Join(args.OutDir, t.name+"."+string(format))
		if err = kpi.Save(fn, format, t.data); err != nil {
			return err
		}
		logger.Infof("wrote %s", fn)
	}
	return nil
}

func printSummary(w io.Writer, o *scenario.Outcome) {
	res := o.Result
	_, _ = fmt.Fprintf(w, "%s: beta=%g P_s=%.1f dB RU=%.3f/%g\n", o.Run.Name(), o.Params.Beta,
		res.Resources.SensingThresholdDb, res.Resources.RU, res.Resources.R)
	for i, d := range res.Distances {
		_, _ = fmt.Fprintf(w, "  %6g m  PRR SPC6G %.6f NRV2X %.6f  PIR SPC6G %.6f NRV2X %.6f\n", d,
			res.PrrSpc6g[i], res.PrrNrv2x[i], res.PirSpc6g[i], res.PirNrv2x[i])
	}
}

func handleSignals(ctx *progctx.ProgCtx) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT, syscall.SIGHUP)

	ctx.WaitAdd("handleSignals", 1)
	go func() {
		defer logger.Debugf("handleSignals exit.")
		defer ctx.WaitDone("handleSignals")

		for {
			select {
			case sig := <-c:
				logger.Infof("signal received: %v", sig)
				ctx.Cancel(nil)
			case <-ctx.Done():
				signal.Stop(c)
				return
			}
		}
	}()
}
