package cmd

import (
	"fmt"

	"github.com/graphcore-research/gwr/sim"
	"github.com/graphcore-research/gwr/sim/trace"
)

// scenarioResult is what every scenario reports once its engine has run to
// quiescence.
type scenarioResult struct {
	NumSunk   int
	EndTimeNs float64
}

// buildAndRun constructs the named scenario (overridden by cfg) against a
// fresh Engine backed by a trace.RecordingTracker, runs it to quiescence,
// and reports the outcome.
func buildAndRun(name string, cfg *ScenarioConfig) (*scenarioResult, *trace.RecordingTracker, error) {
	rt := trace.NewRecordingTracker()
	engine, err := sim.NewEngine(rt)
	if err != nil {
		return nil, nil, fmt.Errorf("scenario %s: %w", name, err)
	}

	numItems := 10
	if cfg != nil && cfg.NumItems > 0 {
		numItems = cfg.NumItems
	}

	var sunk func() int

	switch name {
	case "s1":
		source, err := sim.NewSource[int](engine.Root, "source", sim.Repeat(0x123, numItems))
		if err != nil {
			return nil, nil, err
		}
		sink, err := sim.NewSink[int](engine.Root, "sink")
		if err != nil {
			return nil, nil, err
		}
		if err := source.Tx().Connect(sink.Rx()); err != nil {
			return nil, nil, err
		}
		engine.Register(source)
		engine.Register(sink)
		sunk = sink.NumSunk

	case "s2":
		clock := engine.DefaultClock()
		ticks := int64(3)
		if cfg != nil && cfg.DelayTicks > 0 {
			ticks = cfg.DelayTicks
		}
		source, err := sim.NewSource[int](engine.Root, "source", sim.Repeat(1, numItems))
		if err != nil {
			return nil, nil, err
		}
		delay, err := sim.NewDelay[int](engine.Root, "delay", clock, ticks)
		if err != nil {
			return nil, nil, err
		}
		sink, err := sim.NewSink[int](engine.Root, "sink")
		if err != nil {
			return nil, nil, err
		}
		if err := source.Tx().Connect(delay.Rx()); err != nil {
			return nil, nil, err
		}
		if err := delay.Tx().Connect(sink.Rx()); err != nil {
			return nil, nil, err
		}
		engine.Register(source)
		engine.Register(delay)
		engine.Register(sink)
		sunk = sink.NumSunk

	case "s3":
		clock := engine.DefaultClock()
		bitsPerTick := 16.0
		if cfg != nil && cfg.BitsPerTick > 0 {
			bitsPerTick = cfg.BitsPerTick
		}
		rate, err := sim.NewRateLimiter(clock, bitsPerTick)
		if err != nil {
			return nil, nil, err
		}
		source, err := sim.NewSource[sim.Bytes](engine.Root, "source", sim.Repeat[sim.Bytes](4, numItems))
		if err != nil {
			return nil, nil, err
		}
		limiter, err := sim.NewLimiter[sim.Bytes](engine.Root, "limiter", rate)
		if err != nil {
			return nil, nil, err
		}
		sink, err := sim.NewSink[sim.Bytes](engine.Root, "sink")
		if err != nil {
			return nil, nil, err
		}
		if err := source.Tx().Connect(limiter.Rx()); err != nil {
			return nil, nil, err
		}
		if err := limiter.Tx().Connect(sink.Rx()); err != nil {
			return nil, nil, err
		}
		engine.Register(source)
		engine.Register(limiter)
		engine.Register(sink)
		sunk = sink.NumSunk

	case "s4":
		clock := engine.DefaultClock()
		bufSize, fwd, credit := 1, int64(10), int64(1)
		if cfg != nil {
			if cfg.FcBufferSize > 0 {
				bufSize = cfg.FcBufferSize
			}
			if cfg.FcForwardTicks > 0 {
				fwd = cfg.FcForwardTicks
			}
			if cfg.FcCreditTicks > 0 {
				credit = cfg.FcCreditTicks
			}
		}
		source, err := sim.NewSource[int](engine.Root, "source", sim.Repeat(1, numItems))
		if err != nil {
			return nil, nil, err
		}
		pipe, err := sim.NewFcPipeline[int](engine.Root, "pipe", clock, bufSize, fwd, credit)
		if err != nil {
			return nil, nil, err
		}
		sink, err := sim.NewSink[int](engine.Root, "sink")
		if err != nil {
			return nil, nil, err
		}
		if err := source.Tx().Connect(pipe.Rx()); err != nil {
			return nil, nil, err
		}
		if err := pipe.Tx().Connect(sink.Rx()); err != nil {
			return nil, nil, err
		}
		engine.Register(source)
		engine.Register(pipe)
		engine.Register(sink)
		sunk = sink.NumSunk

	default:
		return nil, nil, fmt.Errorf("unknown scenario %q; valid scenarios: [s1, s2, s3, s4]", name)
	}

	if err := engine.Run(); err != nil {
		return nil, nil, fmt.Errorf("scenario %s: %w", name, err)
	}
	return &scenarioResult{NumSunk: sunk(), EndTimeNs: engine.TimeNowNs()}, rt, nil
}
