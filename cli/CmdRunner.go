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

package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/otns-labs/v2x-prr/analysis"
	"github.com/otns-labs/v2x-prr/kpi"
	"github.com/otns-labs/v2x-prr/logger"
	"github.com/otns-labs/v2x-prr/metrics"
	"github.com/otns-labs/v2x-prr/progctx"
	. "github.com/otns-labs/v2x-prr/types"
)

const (
	Prompt = "v2x> "
)

type CommandContext struct {
	context.Context
	*Command
	rt     *CmdRunner
	err    error
	output io.Writer
}

func (cc *CommandContext) outputStr(msg string) {
	_, _ = fmt.Fprint(cc.output, msg)
}

func (cc *CommandContext) outputf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(cc.output, format, args...)
}

func (cc *CommandContext) errorf(format string, args ...interface{}) {
	cc.error(errors.Errorf(format, args...))
}

func (cc *CommandContext) error(err error) {
	if err != nil {
		if cc.err != nil { // if previous error, print it now and keep the last.
			cc.outputf("Error: %s\n", cc.err)
		}
		cc.err = err
	}
}

// Err returns the last error that occurred during command execution.
func (cc *CommandContext) Err() error {
	return cc.err
}

func (cc *CommandContext) outputItemsAsYaml(items interface{}) {
	data, err := yaml.Marshal(items)
	logger.PanicIfError(err)

	_, err = cc.output.Write(data)
	logger.PanicIfError(err)
}

// CmdRunner executes shell commands against one evaluation session: the current parameters and
// options, and the result of the last run.
type CmdRunner struct {
	ctx          *progctx.ProgCtx
	params       analysis.Params
	opts         analysis.Options
	prrThreshold float64
	result       *analysis.Result
	help         Help
}

func NewCmdRunner(ctx *progctx.ProgCtx, params analysis.Params, opts analysis.Options) *CmdRunner {
	return &CmdRunner{
		ctx:          ctx,
		params:       params,
		opts:         opts,
		prrThreshold: kpi.DefaultPrrThreshold,
		help:         newHelp(),
	}
}

// SetPrrThreshold sets the default PDR threshold of the range command.
func (rt *CmdRunner) SetPrrThreshold(threshold float64) {
	rt.prrThreshold = threshold
}

// SetMetrics sets the collector evaluations are reported to.
func (rt *CmdRunner) SetMetrics(m *metrics.Collector) {
	rt.opts.Metrics = m
}

// Result returns the result of the last successful run, or nil.
func (rt *CmdRunner) Result() *analysis.Result {
	return rt.result
}

func (rt *CmdRunner) RunCommand(cmdline string, output io.Writer) error {
	if rt.ctx.Err() == nil {
		cmd := Command{}

		if err := parseBytes([]byte(cmdline), &cmd); err != nil {
			if _, err := fmt.Fprintf(output, "Error: %v\n", err); err != nil {
				return err
			}
		} else {
			rt.execute(&cmd, output)
		}
	}
	return rt.ctx.Err()
}

func (rt *CmdRunner) HandleCommand(cmdline string, output io.Writer) error {
	return rt.RunCommand(cmdline, output)
}

func (rt *CmdRunner) GetPrompt() string {
	return Prompt
}

func (rt *CmdRunner) execute(cmd *Command, output io.Writer) {
	cc := &CommandContext{
		Context: rt.ctx,
		Command: cmd,
		rt:      rt,
		output:  output,
	}

	defer func() {
		if cc.Err() != nil {
			cc.outputf("Error: %v\n", cc.Err())
		} else {
			cc.outputf("Done\n")
		}
	}()

	defer func() {
		rerr := recover()

		if rerr != nil {
			if err, ok := rerr.(error); ok {
				cc.err = errors.Wrapf(err, "panic: %v", err)
			} else {
				cc.err = errors.Errorf("panic: %v", rerr)
			}
		}
	}()

	if cmd.Set != nil {
		rt.executeSet(cc, cmd.Set)
	} else if cmd.Show != nil {
		rt.executeShow(cc, cmd.Show)
	} else if cmd.Run != nil {
		rt.executeRun(cc, cmd.Run)
	} else if cmd.Range != nil {
		rt.executeRange(cc, cmd.Range)
	} else if cmd.Export != nil {
		rt.executeExport(cc, cmd.Export)
	} else if cmd.Option != nil {
		rt.executeOption(cc, cmd.Option)
	} else if cmd.Reset != nil {
		rt.executeReset(cc)
	} else if cmd.LogLevel != nil {
		rt.executeLogLevel(cc, cmd.LogLevel)
	} else if cmd.Help != nil {
		rt.executeHelp(cc, cmd.Help)
	} else if cmd.Exit != nil {
		rt.executeExit(cc, cmd.Exit)
	} else {
		logger.Panicf("unimplemented command")
	}
}

func (rt *CmdRunner) executeSet(cc *CommandContext, cmd *SetCmd) {
	params := rt.params
	if err := ApplyAssignments(&params, cmd.Assignments.List); err != nil {
		cc.error(err)
		return
	}
	if err := params.Validate(); err != nil {
		cc.error(err)
		return
	}
	rt.params = params
	rt.result = nil
}

func (rt *CmdRunner) executeShow(cc *CommandContext, cmd *ShowCmd) {
	switch cmd.What {
	case "", "params":
		cc.outputItemsAsYaml(rt.params)
	case "options":
		cc.outputItemsAsYaml(rt.opts)
	case "state":
		if rt.result == nil {
			cc.errorf("no result, use 'run' first")
			return
		}
		cc.outputItemsAsYaml(resourceState(rt.result.Resources))
	case "result":
		if rt.result == nil {
			cc.errorf("no result, use 'run' first")
			return
		}
		rt.outputResult(cc, rt.result)
	}
}

func (rt *CmdRunner) outputResult(cc *CommandContext, res *analysis.Result) {
	cc.outputf("%-10s %-12s %-12s %-12s %-12s %-8s\n", "distance", "PRR_SPC6G", "PRR_NRV2X", "PIR_SPC6G", "PIR_NRV2X", "samples")
	for i, d := range res.Distances {
		cc.outputf("%-10g %-12.8f %-12.8f %-12s %-12s %-8d\n", d, res.PrrSpc6g[i], res.PrrNrv2x[i],
			formatPir(res.PirSpc6g[i]), formatPir(res.PirNrv2x[i]), res.Points[i].Samples)
	}
}

func (rt *CmdRunner) executeRun(cc *CommandContext, cmd *RunCmd) {
	opts := rt.opts
	if cmd.Workers != nil {
		opts.Workers = *cmd.Workers
	}
	if cmd.Policy != nil {
		p, err := analysis.ParseDomainPolicy(*cmd.Policy)
		if err != nil {
			cc.error(err)
			return
		}
		opts.DomainPolicy = p
	}

	res, err := analysis.Evaluate(rt.ctx, rt.params, opts)
	if err != nil {
		cc.error(err)
		return
	}
	rt.result = res
	rs := res.Resources
	cc.outputf("evaluated %d distances, P_s=%.1f dB after %d back-offs, RU=%.3f of R=%g\n",
		len(res.Distances), rs.SensingThresholdDb, rs.Iterations, rs.RU, rs.R)
	for _, pt := range res.Points {
		if pt.Unbounded {
			cc.outputf("distance %g m has no bounded interference region, reported as outage\n", pt.Distance)
		}
	}
}

func (rt *CmdRunner) executeRange(cc *CommandContext, cmd *RangeCmd) {
	if rt.result == nil {
		cc.errorf("no result, use 'run' first")
		return
	}
	threshold := rt.prrThreshold
	if cmd.Threshold != nil {
		threshold = *cmd.Threshold
	}
	if !(threshold > 0 && threshold <= 1) {
		cc.errorf("threshold must be in (0, 1]: %v", threshold)
		return
	}
	for _, p := range Protocols {
		cc.outputf("%-6s %g m\n", p, rt.result.CommunicationRange(p, threshold))
	}
}

func (rt *CmdRunner) executeExport(cc *CommandContext, cmd *ExportCmd) {
	if rt.result == nil {
		cc.errorf("no result, use 'run' first")
		return
	}
	filename := unquote(cmd.File)
	format, err := formatOf(filename, cmd.Format)
	if err != nil {
		cc.error(err)
		return
	}
	rows := kpi.FromResult(rt.result, kpi.RunInfo{NumLanes: int(math.Round(rt.params.Beta * kpi.LaneSpacing))})
	if err = kpi.Save(filename, format, rows); err != nil {
		cc.error(err)
		return
	}
	cc.outputf("exported %d rows to %s\n", len(rows), filename)
}

func (rt *CmdRunner) executeOption(cc *CommandContext, cmd *OptionCmd) {
	opts := rt.opts
	if cmd.Policy != nil {
		p, err := analysis.ParseDomainPolicy(*cmd.Policy)
		if err != nil {
			cc.error(err)
			return
		}
		opts.DomainPolicy = p
	} else if cmd.Occupancy != nil {
		opts.ReuseFromOccupancy = cmd.Occupancy.Bool()
	} else if cmd.Workers != nil {
		opts.Workers = *cmd.Workers
	} else if cmd.MaxIter != nil {
		opts.MaxIterations = *cmd.MaxIter
	} else if cmd.Window != nil {
		opts.Window.HalfWidth = cmd.Window.HalfWidth
		if cmd.Window.Step != nil {
			opts.Window.Step = *cmd.Window.Step
		}
	}
	if err := opts.Validate(); err != nil {
		cc.error(err)
		return
	}
	rt.opts = opts
	rt.result = nil
}

func (rt *CmdRunner) executeReset(cc *CommandContext) {
	rt.params = analysis.DefaultParams()
	m := rt.opts.Metrics
	rt.opts = analysis.DefaultOptions()
	rt.opts.Metrics = m
	rt.result = nil
}

func (rt *CmdRunner) executeLogLevel(cc *CommandContext, cmd *LogLevelCmd) {
	if cmd.Level == "" {
		cc.outputf("%v\n", logger.GetLevelString(logger.GetLevel()))
		return
	}
	lv, err := logger.ParseLevelString(cmd.Level)
	if err != nil {
		cc.error(err)
		return
	}
	logger.SetLevel(lv)
}

func (rt *CmdRunner) executeHelp(cc *CommandContext, cmd *HelpCmd) {
	if len(cmd.HelpTopic) > 0 {
		cc.outputStr(rt.help.outputCommandHelp(cmd.HelpTopic))
	} else {
		cc.outputStr(rt.help.outputGeneralHelp())
	}
}

func (rt *CmdRunner) executeExit(cc *CommandContext, cmd *ExitCmd) {
	rt.ctx.Cancel("exit")
}

func formatPir(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return strings.TrimSuffix(strings.TrimRight(strconv.FormatFloat(v, 'f', 8, 64), "0"), ".")
}
