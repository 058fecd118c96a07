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
	"strconv"
	"strings"

	"github.com/alecthomas/participle"
	"github.com/pkg/errors"
)

// noinspection GoStructTag
type Command struct {
	Exit     *ExitCmd     `  @@` //nolint
	Export   *ExportCmd   `| @@` //nolint
	Help     *HelpCmd     `| @@` //nolint
	LogLevel *LogLevelCmd `| @@` //nolint
	Option   *OptionCmd   `| @@` //nolint
	Range    *RangeCmd    `| @@` //nolint
	Reset    *ResetCmd    `| @@` //nolint
	Run      *RunCmd      `| @@` //nolint
	Set      *SetCmd      `| @@` //nolint
	Show     *ShowCmd     `| @@` //nolint
}

// noinspection GoStructTag
type Assignment struct {
	Key   string `@Ident [ "=" ]`                 //nolint
	Value string `@( [ "-" | "+" ] (Int|Float) )` //nolint
}

// Float returns the assigned value.
func (a *Assignment) Float() (float64, error) {
	v, err := strconv.ParseFloat(a.Value, 64)
	return v, errors.Wrapf(err, "value of %s", a.Key)
}

func (a *Assignment) String() string {
	return a.Key + "=" + a.Value
}

// noinspection GoStructTag
type Assignments struct {
	List []Assignment `@@ ( [ "," ] @@ )*` //nolint
}

// noinspection GoStructTag
type SetCmd struct {
	Cmd         struct{}    `"set"` //nolint
	Assignments Assignments `@@`    //nolint
}

// noinspection GoStructTag
type ShowCmd struct {
	Cmd  struct{} `"show"`                                             //nolint
	What string   `[ @( "params" | "options" | "result" | "state" ) ]` //nolint
}

// noinspection GoStructTag
type RunCmd struct {
	Cmd     struct{} `"run"`               //nolint
	Workers *int     `[ "workers" @Int ]`  //nolint
	Policy  *string  `[ "policy" @Ident ]` //nolint
}

// noinspection GoStructTag
type RangeCmd struct {
	Cmd       struct{} `"range"`           //nolint
	Threshold *float64 `[ (@Int|@Float) ]` //nolint
}

// noinspection GoStructTag
type ExportCmd struct {
	Cmd    struct{} `"export"`                //nolint
	File   string   `@String`                 //nolint
	Format string   `[ @( "csv" | "yaml" ) ]` //nolint
}

// noinspection GoStructTag
type OptionCmd struct {
	Cmd       struct{}    `"option" (`                        //nolint
	Policy    *string     `  "policy" @( "fail" | "outage" )` //nolint
	Occupancy *YesOrNo    `| "occupancy" @@`                  //nolint
	Workers   *int        `| "workers" @Int`                  //nolint
	MaxIter   *int        `| "maxiter" @Int`                  //nolint
	Window    *WindowArgs `| "window" @@ )`                   //nolint
}

// noinspection GoStructTag
type YesOrNo struct {
	Val string `@( "on" | "off" | "yes" | "no" | "y" | "n" )` //nolint
}

func (yn *YesOrNo) Bool() bool {
	return yn.Val == "on" || yn.Val == "yes" || yn.Val == "y"
}

// noinspection GoStructTag
type WindowArgs struct {
	HalfWidth float64  `(@Int|@Float)`     //nolint
	Step      *float64 `[ (@Int|@Float) ]` //nolint
}

// noinspection GoStructTag
type ResetCmd struct {
	Cmd struct{} `"reset"` //nolint
}

// noinspection GoStructTag
type LogLevelCmd struct {
	Cmd   struct{} `"log"`                                                       //nolint
	Level string   `[ @( "trace"|"debug"|"info"|"warn"|"error"|"off"|"none" ) ]` //nolint
}

// noinspection GoStructTag
type HelpCmd struct {
	Cmd       struct{} `"help"`       //nolint
	HelpTopic string   `[ (@Ident) ]` //nolint
}

// noinspection GoStructTag
type ExitCmd struct {
	Cmd struct{} `"exit"` //nolint
}

var (
	commandParser    = participle.MustBuild(&Command{})
	assignmentParser = participle.MustBuild(&Assignments{})
)

func parseBytes(b []byte, cmd *Command) error {
	err := commandParser.ParseBytes(b, cmd)
	return err
}

// ParseAssignments parses a list of parameter overrides such as "beta=0.1, P_s_dB=-87".
func ParseAssignments(s string) ([]Assignment, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var as Assignments
	if err := assignmentParser.ParseString(s, &as); err != nil {
		return nil, errors.Wrapf(err, "invalid assignments %q", s)
	}
	return as.List, nil
}
