package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pyfix/internal/trace"
)

// setupTracing builds a tracer from the persistent flags and attaches it to
// the command context. fallbackLevel comes from pyfix.toml or the
// environment and applies when --trace-level is not given. The returned
// function flushes and closes the tracer; with failed set it first dumps
// the ring buffer, if any, to stderr.
func setupTracing(cmd *cobra.Command, fallbackLevel string) (func(failed bool), error) {
	pf := cmd.Root().PersistentFlags()
	path, _ := pf.GetString("trace")
	levelStr, _ := pf.GetString("trace-level")
	modeStr, _ := pf.GetString("trace-mode")
	formatStr, _ := pf.GetString("trace-format")
	ringSize, _ := pf.GetInt("trace-ring-size")
	heartbeat, _ := pf.GetDuration("trace-heartbeat")

	if !pf.Changed("trace-level") {
		levelStr = fallbackLevel
		// --trace без уровня подразумевает phase
		if path != "" && (levelStr == "" || levelStr == "off") {
			levelStr = "phase"
		}
	}
	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, err
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, err
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: path,
		RingSize:   ringSize,
		Heartbeat:  heartbeat,
	})
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	hb := trace.StartHeartbeat(tracer, heartbeat)
	cmd.SetContext(trace.WithHeartbeat(trace.WithTracer(ctx, tracer), hb))

	return func(failed bool) {
		if hb != nil {
			hb.Stop()
		}
		if failed {
			if ring := ringOf(tracer); ring != nil {
				_ = ring.Dump(os.Stderr, trace.FormatText)
			}
		}
		_ = tracer.Flush()
		_ = tracer.Close()
	}, nil
}

func ringOf(t trace.Tracer) *trace.RingTracer {
	switch t := t.(type) {
	case *trace.RingTracer:
		return t
	case *trace.MultiTracer:
		return t.Ring()
	}
	return nil
}
