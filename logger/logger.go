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

// Package logger is the leveled printf-style logger of v2x-prr, backed by zap.
package logger

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// Level is the log-level of the analysis tools. Higher values are more verbose.
type Level int8

const (
	TraceLevel   Level = 6
	DebugLevel   Level = 5
	InfoLevel    Level = 4
	WarnLevel    Level = 2
	ErrorLevel   Level = 1
	PanicLevel   Level = 0
	FatalLevel   Level = -1
	OffLevel     Level = -2
	DefaultLevel       = WarnLevel
)

// StdoutCallback is notified after a log line was written, so that an interactive console can
// redraw its prompt.
type StdoutCallback interface {
	OnStdout()
}

var (
	mu           sync.Mutex
	zaplogger    *zap.Logger
	cbStdout     StdoutCallback
	currentLevel atomic.Int32
	// redrawPrompt is set when stdout is a terminal; log lines then clear and restore the
	// console line.
	redrawPrompt bool
)

func init() {
	redrawPrompt = term.IsTerminal(int(os.Stdout.Fd()))
	currentLevel.Store(int32(DefaultLevel))
	if err := SetOutput([]string{"stderr"}); err != nil {
		panic(err)
	}
}

func newConfig(outputs []string) zap.Config {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = "time"
	enc.MessageKey = "message"
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	enc.EncodeLevel = zapcore.LowercaseLevelEncoder
	enc.CallerKey = zapcore.OmitKey
	enc.NameKey = zapcore.OmitKey
	enc.StacktraceKey = zapcore.OmitKey

	return zap.Config{
		Level:             zap.NewAtomicLevelAt(zapcore.DebugLevel),
		Encoding:          "console",
		EncoderConfig:     enc,
		OutputPaths:       outputs,
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     true,
		DisableStacktrace: true,
	}
}

// SetOutput directs the log to the given zap output paths, e.g. {"stderr", "v2x-prr.log"}.
func SetOutput(outputs []string) error {
	l, err := newConfig(outputs).Build()
	if err != nil {
		return errors.Wrapf(err, "log output %v", outputs)
	}

	mu.Lock()
	defer mu.Unlock()
	if zaplogger != nil {
		_ = zaplogger.Sync()
	}
	zaplogger = l
	return nil
}

func SetLevel(lv Level) {
	currentLevel.Store(int32(lv))
}

func GetLevel() Level {
	return Level(currentLevel.Load())
}

// IsLevelEnabled returns true if messages at level lv are currently output.
func IsLevelEnabled(lv Level) bool {
	return lv <= GetLevel()
}

// SetStdoutCallback sets the callback called after each log line; nil removes it.
func SetStdoutCallback(cb StdoutCallback) {
	mu.Lock()
	cbStdout = cb
	mu.Unlock()
}

func zapLevel(lv Level) zapcore.Level {
	switch {
	case lv >= DebugLevel:
		return zapcore.DebugLevel
	case lv == InfoLevel:
		return zapcore.InfoLevel
	case lv == WarnLevel:
		return zapcore.WarnLevel
	case lv == ErrorLevel:
		return zapcore.ErrorLevel
	case lv == PanicLevel:
		return zapcore.PanicLevel
	default:
		return zapcore.FatalLevel
	}
}

func message(format string, args []interface{}) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

func logf(lv Level, format string, args []interface{}) {
	if !IsLevelEnabled(lv) {
		return
	}
	msg := message(format, args)

	mu.Lock()
	l, cb := zaplogger, cbStdout
	mu.Unlock()

	if redrawPrompt && cb != nil {
		_, _ = fmt.Fprint(os.Stdout, "\033[2K\r")
	}
	if lv == PanicLevel || lv == FatalLevel {
		// zap panics or exits on these levels; the error level keeps the entry in the output.
		l.Error(msg)
	} else {
		l.Log(zapLevel(lv), msg)
	}
	if redrawPrompt && cb != nil {
		cb.OnStdout()
	}
}

func Tracef(format string, args ...interface{}) {
	logf(TraceLevel, format, args)
}

func Debugf(format string, args ...interface{}) {
	logf(DebugLevel, format, args)
}

func Infof(format string, args ...interface{}) {
	logf(InfoLevel, format, args)
}

func Warnf(format string, args ...interface{}) {
	logf(WarnLevel, format, args)
}

func Errorf(format string, args ...interface{}) {
	logf(ErrorLevel, format, args)
}

// Panicf logs the message and panics with it, also when the log is off.
func Panicf(format string, args ...interface{}) {
	logf(PanicLevel, format, args)
	panic(message(format, args))
}

// Fatalf logs the message and exits with status 1.
func Fatalf(format string, args ...interface{}) {
	logf(FatalLevel, format, args)
	mu.Lock()
	_ = zaplogger.Sync()
	mu.Unlock()
	os.Exit(1)
}

func PanicIfError(err error) {
	if err != nil {
		Panicf("%+v", err)
	}
}

func FatalIfError(err error) {
	if err != nil {
		Fatalf("%v", err)
	}
}

type assertLogger struct{}

func (assertLogger) Errorf(format string, args ...interface{}) {
	Panicf(format, args...)
}

// AssertTrue panics with the failure report of testify if value is false.
func AssertTrue(value bool, msgAndArgs ...interface{}) bool {
	return assert.True(assertLogger{}, value, msgAndArgs...)
}
