// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package logger

import (
	"encoding/json"
	"fmt"

	"github.com/mattermost/mattermost/server/public/shared/mlog"
)

// Logger is the key/value logging surface the parser and CLI log through.
// Keys must be strings; a trailing key without a value is ignored.
type Logger interface {
	Debug(msg string, keyValuePairs ...any)
	Info(msg string, keyValuePairs ...any)
	Warn(msg string, keyValuePairs ...any)
	Error(msg string, keyValuePairs ...any)
	Flush() error
}

// Options selects what the logger emits and where.
type Options struct {
	// Debug enables the debug level on every target.
	Debug bool
	// File, when set, receives a JSON copy of every entry.
	File string
}

const targetQueueSize = 1000

type mlogLogger struct {
	*mlog.Logger
}

// New builds a Logger that writes plain text to stderr and, with Options.File,
// JSON lines to that file. The standard log package is redirected through it.
func New(opts Options) (Logger, error) {
	targets, err := targetConfig(opts)
	if err != nil {
		return nil, err
	}

	l, err := mlog.NewLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to create new logger: %w", err)
	}
	if err := l.ConfigureTargets(targets, nil); err != nil {
		return nil, fmt.Errorf("failed to configure logger targets: %w", err)
	}
	l.RedirectStdLog(mlog.LvlStdLog)

	return &mlogLogger{Logger: l}, nil
}

func targetConfig(opts Options) (mlog.LoggerConfiguration, error) {
	levels := []mlog.Level{mlog.LvlInfo, mlog.LvlWarn, mlog.LvlError}
	if opts.Debug {
		levels = append(levels, mlog.LvlDebug)
	}

	cfg := mlog.LoggerConfiguration{
		"console": {
			Type:          "console",
			Levels:        levels,
			Format:        "plain",
			FormatOptions: json.RawMessage(`{"enable_color": false, "delim": " "}`),
			Options:       json.RawMessage(`{"out": "stderr"}`),
			MaxQueueSize:  targetQueueSize,
		},
	}
	if opts.File == "" {
		return cfg, nil
	}

	fileOptions, err := json.Marshal(map[string]any{"filename": opts.File, "compress": false})
	if err != nil {
		return nil, fmt.Errorf("failed to encode file target options: %w", err)
	}
	cfg["file"] = mlog.TargetCfg{
		Type:         "file",
		Levels:       levels,
		Format:       "json",
		Options:      fileOptions,
		MaxQueueSize: targetQueueSize,
	}
	return cfg, nil
}

func (l *mlogLogger) Debug(msg string, keyValuePairs ...any) { l.log(mlog.LvlDebug, msg, keyValuePairs) }
func (l *mlogLogger) Info(msg string, keyValuePairs ...any)  { l.log(mlog.LvlInfo, msg, keyValuePairs) }
func (l *mlogLogger) Warn(msg string, keyValuePairs ...any)  { l.log(mlog.LvlWarn, msg, keyValuePairs) }
func (l *mlogLogger) Error(msg string, keyValuePairs ...any) { l.log(mlog.LvlError, msg, keyValuePairs) }

func (l *mlogLogger) log(level mlog.Level, msg string, keyValuePairs []any) {
	l.Log(level, msg, fields(keyValuePairs)...)
}

func fields(keyValuePairs []any) []mlog.Field {
	out := make([]mlog.Field, 0, len(keyValuePairs)/2)
	for i := 0; i+1 < len(keyValuePairs); i += 2 {
		if key, ok := keyValuePairs[i].(string); ok {
			out = append(out, mlog.Any(key, keyValuePairs[i+1]))
		}
	}
	return out
}

type nopLogger struct{}

// NewNopLogger returns a Logger that discards everything
func NewNopLogger() Logger {
	return nopLogger{}
}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
func (nopLogger) Flush() error         { return nil }
