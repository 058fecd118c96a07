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
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/otns-labs/v2x-prr/analysis"
	"github.com/otns-labs/v2x-prr/kpi"
	"github.com/otns-labs/v2x-prr/logger"
	"github.com/otns-labs/v2x-prr/progctx"
)

func TestParseBytes(t *testing.T) {
	var cmd Command
	err := parseBytes([]byte("wrongcmd"), &cmd)
	assert.NotNil(t, err)

	assert.True(t, parseBytes([]byte("exit"), &cmd) == nil && cmd.Exit != nil)

	assert.True(t, parseBytes([]byte("export \"out.csv\""), &cmd) == nil && cmd.Export != nil)
	assert.Equal(t, "out.csv", unquote(cmd.Export.File))
	assert.True(t, parseBytes([]byte("export \"out.txt\" yaml"), &cmd) == nil && cmd.Export != nil)
	assert.Equal(t, "yaml", cmd.Export.Format)
	assert.NotNil(t, parseBytes([]byte("export"), &cmd))

	assert.True(t, parseBytes([]byte("help"), &cmd) == nil && cmd.Help != nil)
	assert.True(t, parseBytes([]byte("help set"), &cmd) == nil && cmd.Help.HelpTopic == "set")

	assert.True(t, parseBytes([]byte("log"), &cmd) == nil && cmd.LogLevel != nil)
	assert.True(t, parseBytes([]byte("log debug"), &cmd) == nil && cmd.LogLevel.Level == "debug")
	assert.True(t, parseBytes([]byte("log fatal"), &cmd) != nil) // not supported.

	assert.True(t, parseBytes([]byte("option policy outage"), &cmd) == nil && *cmd.Option.Policy == "outage")
	assert.True(t, parseBytes([]byte("option occupancy on"), &cmd) == nil && cmd.Option.Occupancy.Bool())
	assert.True(t, parseBytes([]byte("option workers 4"), &cmd) == nil && *cmd.Option.Workers == 4)
	assert.True(t, parseBytes([]byte("option maxiter 10"), &cmd) == nil && *cmd.Option.MaxIter == 10)
	assert.True(t, parseBytes([]byte("option window 500"), &cmd) == nil && cmd.Option.Window.HalfWidth == 500)
	assert.True(t, parseBytes([]byte("option window 500 0.5"), &cmd) == nil && *cmd.Option.Window.Step == 0.5)
	assert.NotNil(t, parseBytes([]byte("option policy ignore"), &cmd))

	assert.True(t, parseBytes([]byte("range"), &cmd) == nil && cmd.Range != nil && cmd.Range.Threshold == nil)
	assert.True(t, parseBytes([]byte("range 0.95"), &cmd) == nil && *cmd.Range.Threshold == 0.95)
	assert.True(t, parseBytes([]byte("range 1"), &cmd) == nil && *cmd.Range.Threshold == 1)

	assert.True(t, parseBytes([]byte("reset"), &cmd) == nil && cmd.Reset != nil)

	assert.True(t, parseBytes([]byte("run"), &cmd) == nil && cmd.Run != nil)
	assert.True(t, parseBytes([]byte("run workers 2 policy outage"), &cmd) == nil && *cmd.Run.Workers == 2)

	assert.True(t, parseBytes([]byte("set beta 0.1"), &cmd) == nil && cmd.Set != nil)
	assert.Equal(t, []Assignment{{Key: "beta", Value: "0.1"}}, cmd.Set.Assignments.List)
	assert.Nil(t, parseBytes([]byte("set beta=0.1, P_s_dB=-87 max_distance 400"), &cmd))
	assert.Equal(t, []Assignment{
		{Key: "beta", Value: "0.1"},
		{Key: "P_s_dB", Value: "-87"},
		{Key: "max_distance", Value: "400"},
	}, cmd.Set.Assignments.List)
	assert.NotNil(t, parseBytes([]byte("set"), &cmd))
	assert.NotNil(t, parseBytes([]byte("set beta"), &cmd))

	assert.True(t, parseBytes([]byte("show"), &cmd) == nil && cmd.Show != nil && cmd.Show.What == "")
	assert.True(t, parseBytes([]byte("show result"), &cmd) == nil && cmd.Show.What == "result")
	assert.NotNil(t, parseBytes([]byte("show everything"), &cmd))
}

func TestParseAssignments(t *testing.T) {
	as, err := ParseAssignments("beta=0.1, P_s_dB=-87,slot=1e-3")
	assert.Nil(t, err)
	assert.Len(t, as, 3)
	assert.Equal(t, "P_s_dB=-87", as[1].String())

	v, err := as[2].Float()
	assert.Nil(t, err)
	assert.Equal(t, 0.001, v)

	params := analysis.DefaultParams()
	assert.Nil(t, ApplyAssignments(&params, as))
	assert.Equal(t, 0.1, params.Beta)
	assert.Equal(t, -87.0, params.SensingThresholdDb)
	assert.Equal(t, 0.001, params.Slot)

	as, err = ParseAssignments("  ")
	assert.Nil(t, err)
	assert.Nil(t, as)

	_, err = ParseAssignments("beta=")
	assert.NotNil(t, err)

	as, err = ParseAssignments("gamma=1")
	assert.Nil(t, err)
	assert.NotNil(t, ApplyAssignments(&params, as))
}

func newTestRunner() (*CmdRunner, *progctx.ProgCtx) {
	params := analysis.DefaultParams()
	params.MaxDistance = 100
	ctx := progctx.New(context.Background())
	return NewCmdRunner(ctx, params, analysis.DefaultOptions()), ctx
}

func runCommand(t *testing.T, rt *CmdRunner, cmdline string) string {
	var out bytes.Buffer
	assert.Nil(t, rt.RunCommand(cmdline, &out))
	return out.String()
}

func TestCmdRunner(t *testing.T) {
	rt, _ := newTestRunner()

	out := runCommand(t, rt, "show state")
	assert.Contains(t, out, "Error: no result")

	out = runCommand(t, rt, "set beta=0.05, P_s_dB=-90")
	assert.Equal(t, "Done\n", out)

	out = runCommand(t, rt, "run")
	assert.True(t, strings.HasSuffix(out, "Done\n"), out)
	assert.Contains(t, out, "evaluated 3 distances")
	assert.NotNil(t, rt.Result())

	out = runCommand(t, rt, "show result")
	assert.Contains(t, out, "PRR_SPC6G")
	assert.Equal(t, 5, strings.Count(out, "\n"))

	out = runCommand(t, rt, "show state")
	assert.Contains(t, out, "R: 10000")
	assert.Contains(t, out, "iterations: 0")

	out = runCommand(t, rt, "range")
	assert.Contains(t, out, "SPC6G  100 m")
	assert.Contains(t, out, "NRV2X  100 m")

	out = runCommand(t, rt, "range 2")
	assert.Contains(t, out, "Error: threshold")

	out = runCommand(t, rt, "show params")
	assert.Contains(t, out, "max_distance: 100")

	out = runCommand(t, rt, "set beta=-1")
	assert.Contains(t, out, "Error:")
	out = runCommand(t, rt, "set nope=1")
	assert.Contains(t, out, "Error: unknown parameter")
	assert.NotNil(t, rt.Result())

	out = runCommand(t, rt, "set max_distance 50")
	assert.Equal(t, "Done\n", out)
	assert.Nil(t, rt.Result())

	out = runCommand(t, rt, "wrongcmd")
	assert.True(t, strings.HasPrefix(out, "Error:"))
}

func TestCmdRunnerOptions(t *testing.T) {
	rt, _ := newTestRunner()

	assert.Equal(t, "Done\n", runCommand(t, rt, "option policy outage"))
	assert.Equal(t, analysis.DomainOutage, rt.opts.DomainPolicy)
	assert.Equal(t, "Done\n", runCommand(t, rt, "option occupancy on"))
	assert.True(t, rt.opts.ReuseFromOccupancy)
	assert.Equal(t, "Done\n", runCommand(t, rt, "option window 1000 2"))
	assert.Equal(t, 1000.0, rt.opts.Window.HalfWidth)
	assert.Equal(t, 2.0, rt.opts.Window.Step)
	assert.Contains(t, runCommand(t, rt, "option window 1000 5000"), "Error:")
	assert.Contains(t, runCommand(t, rt, "show options"), "domain_policy: outage")

	assert.Equal(t, "Done\n", runCommand(t, rt, "reset"))
	assert.Equal(t, analysis.DefaultParams(), rt.params)
	assert.False(t, rt.opts.ReuseFromOccupancy)

	out := runCommand(t, rt, "set max_distance=450, step_distance=150")
	assert.Equal(t, "Done\n", out)
	out = runCommand(t, rt, "run")
	assert.Contains(t, out, "Error:")
	out = runCommand(t, rt, "run workers 2 policy outage")
	assert.Contains(t, out, "distance 450 m has no bounded interference region")
	assert.True(t, strings.HasSuffix(out, "Done\n"))
	assert.Contains(t, runCommand(t, rt, "show result"), "inf")
}

func TestCmdRunnerExport(t *testing.T) {
	rt, _ := newTestRunner()
	dir := t.TempDir()
	fn := filepath.Join(dir, "analytical_metrics.csv")

	assert.Contains(t, runCommand(t, rt, "export \""+fn+"\""), "Error: no result")
	runCommand(t, rt, "run")
	out := runCommand(t, rt, "export \""+fn+"\"")
	assert.Contains(t, out, "exported 6 rows")

	rows, err := kpi.LoadCSV(fn)
	assert.Nil(t, err)
	assert.Len(t, rows, 6)
	assert.Equal(t, 2, rows[0].NumLanes)

	yfn := filepath.Join(dir, "analytical_metrics.out")
	assert.Contains(t, runCommand(t, rt, "export \""+yfn+"\""), "Error:")
	assert.Contains(t, runCommand(t, rt, "export \""+yfn+"\" yaml"), "Done")
	data, err := os.ReadFile(yfn)
	assert.Nil(t, err)
	assert.Contains(t, string(data), "cumulative_PDR")
}

func TestCmdRunnerLogAndHelp(t *testing.T) {
	rt, _ := newTestRunner()
	lv := logger.GetLevel()
	defer logger.SetLevel(lv)

	assert.Equal(t, "Done\n", runCommand(t, rt, "log debug"))
	assert.Equal(t, logger.DebugLevel, logger.GetLevel())
	assert.Equal(t, "debug\nDone\n", runCommand(t, rt, "log"))

	out := runCommand(t, rt, "help")
	for _, c := range []string{"exit", "export", "help", "log", "option", "range", "reset", "run", "set", "show"} {
		assert.Contains(t, out, c)
	}
	assert.Contains(t, out, "Set one or more parameters.")

	out = runCommand(t, rt, "help range")
	assert.True(t, strings.HasPrefix(out, "range\n"), out)
	assert.Contains(t, out, "range [<threshold>]")
	assert.Contains(t, runCommand(t, rt, "help nothing"), "Non-existent command")
}

func TestCmdRunnerExit(t *testing.T) {
	rt, ctx := newTestRunner()
	var out bytes.Buffer
	err := rt.RunCommand("exit", &out)
	assert.Equal(t, context.Canceled, err)
	assert.Equal(t, "Done\n", out.String())
	assert.NotNil(t, ctx.Err())

	out.Reset()
	assert.NotNil(t, rt.HandleCommand("show", &out))
	assert.Equal(t, "", out.String())
}

func TestFormatOf(t *testing.T) {
	f, err := formatOf("a.yaml", "")
	assert.Nil(t, err)
	assert.Equal(t, kpi.FormatYAML, f)
	f, err = formatOf("a", "")
	assert.Nil(t, err)
	assert.Equal(t, kpi.FormatCSV, f)
	f, err = formatOf("a.txt", "csv")
	assert.Nil(t, err)
	assert.Equal(t, kpi.FormatCSV, f)
	_, err = formatOf("a.txt", "")
	assert.NotNil(t, err)
}

func TestFormatPir(t *testing.T) {
	assert.Equal(t, "0.10001612", formatPir(0.10001612416257526))
	assert.Equal(t, "0.1", formatPir(0.1))
	assert.Equal(t, "1", formatPir(1))
	assert.Equal(t, "2", formatPir(1.999999999))
	assert.Equal(t, "inf", formatPir(math.Inf(1)))
}
