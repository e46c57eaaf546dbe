package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newFcScenario(t *testing.T, bufCap int, fwdTicks, creditTicks int64, n int) (*Engine, *Sink[int]) {
	t.Helper()
	e := newTestEngine(t)
	clock := e.DefaultClock()
	source, err := NewSource[int](e.Root, "source", Repeat(1, n))
	require.NoError(t, err)
	pipe, err := NewFcPipeline[int](e.Root, "pipe", clock, bufCap, fwdTicks, creditTicks)
	require.NoError(t, err)
	sink, err := NewSink[int](e.Root, "sink")
	require.NoError(t, err)
	require.NoError(t, source.Tx().Connect(pipe.Rx()))
	require.NoError(t, pipe.Tx().Connect(sink.Rx()))
	e.Register(source)
	e.Register(pipe)
	e.Register(sink)
	return e, sink
}

// With B=1, every value must round-trip (forward delay + credit delay)
// before the next is admitted, so end-to-end time for N values settles at
// N*(Df+Dc): the admission ticks form the arithmetic sequence
// (Df+Dc)*(n-1), and the last value's credit lands Df+Dc ticks later.
func TestFcPipeline_B1_EndToEndTimeIsN_Times_DfPlusDc(t *testing.T) {
	// GIVEN a flow-controlled pipeline with buffer 1, forward latency 1,
	// credit latency 1, and 5 values in flight
	e, sink := newFcScenario(t, 1, 1, 1, 5)

	// WHEN the engine runs to quiescence
	require.NoError(t, e.Run())

	// THEN all 5 values are sunk at N*(Df+Dc) = 10 ns
	require.Equal(t, 5, sink.NumSunk())
	require.Equal(t, 10.0, e.TimeNowNs())
}

func TestFcPipeline_B1_LongerCreditLatency_ScalesEndToEndTime(t *testing.T) {
	// GIVEN a pipeline with buffer 1, forward latency 1, credit latency 2
	e, sink := newFcScenario(t, 1, 1, 2, 5)

	// WHEN the engine runs to quiescence
	require.NoError(t, e.Run())

	// THEN the round trip lengthens proportionally: N*(Df+Dc) = 15 ns
	require.Equal(t, 5, sink.NumSunk())
	require.Equal(t, 15.0, e.TimeNowNs())
}

// With a buffer of exactly 2, two values are admitted together whenever
// credit is available, so 20 values move in 10 admitted pairs, each pair
// separated by one full Df+Dc round trip: ceil(N/B)*(Df+Dc).
func TestFcPipeline_B2_PipelinedPairs_ScaleWithCeilNOverB(t *testing.T) {
	// GIVEN a pipeline with buffer 2, forward latency 1, credit latency 1
	e, sink := newFcScenario(t, 2, 1, 1, 20)

	// WHEN the engine runs to quiescence
	require.NoError(t, e.Run())

	// THEN it finishes at ceil(20/2)*(1+1) = 20 ns
	require.Equal(t, 20, sink.NumSunk())
	require.Equal(t, 20.0, e.TimeNowNs())
}

// This is the canonical worked example: buffer 1, forward latency 10,
// credit latency 1, 10 values. The buffer can hold exactly one value in
// flight at a time, so every admission must wait a full Df+Dc round trip
// behind the previous one.
func TestFcPipeline_CanonicalExample_B1_Df10_Dc1(t *testing.T) {
	// GIVEN a pipeline with buffer 1, forward latency 10, credit latency 1,
	// and 10 values
	e, sink := newFcScenario(t, 1, 10, 1, 10)

	// WHEN the engine runs to quiescence
	require.NoError(t, e.Run())

	// THEN all 10 values are sunk, finishing at N*(Df+Dc) = 110 ns
	require.Equal(t, 10, sink.NumSunk())
	require.Equal(t, 110.0, e.TimeNowNs())
}

// newPacedFcScenario wires a Source through a 1-tick-per-item Limiter into
// an FcPipeline, mirroring the throughput harness the flow-control
// primitives were originally validated against: a Limiter paces admission
// so the pipeline's own latencies, rather than an infinitely-fast Source,
// determine the throughput.
func newPacedFcScenario(t *testing.T, bufCap int, fwdTicks, creditTicks int64, n int) (*Engine, *Sink[Bytes]) {
	t.Helper()
	e := newTestEngine(t)
	clock := e.DefaultClock()
	rate, err := NewRateLimiter(clock, 8)
	require.NoError(t, err)
	source, err := NewSource[Bytes](e.Root, "source", Repeat[Bytes](1, n))
	require.NoError(t, err)
	limiter, err := NewLimiter[Bytes](e.Root, "limiter", rate)
	require.NoError(t, err)
	pipe, err := NewFcPipeline[Bytes](e.Root, "pipe", clock, bufCap, fwdTicks, creditTicks)
	require.NoError(t, err)
	sink, err := NewSink[Bytes](e.Root, "sink")
	require.NoError(t, err)
	require.NoError(t, source.Tx().Connect(limiter.Rx()))
	require.NoError(t, limiter.Tx().Connect(pipe.Rx()))
	require.NoError(t, pipe.Tx().Connect(sink.Rx()))
	e.Register(source)
	e.Register(limiter)
	e.Register(pipe)
	e.Register(sink)
	return e, sink
}

func TestFcPipeline_Paced_B1_NoLatency_ScalesWithN(t *testing.T) {
	// GIVEN a 1-tick-per-item paced source feeding a pipeline with no
	// forward or credit latency
	e, sink := newPacedFcScenario(t, 1, 0, 0, 10)

	// WHEN the engine runs to quiescence
	require.NoError(t, e.Run())

	// THEN the pacing alone determines throughput: N ticks
	require.Equal(t, 10, sink.NumSunk())
	require.Equal(t, 10.0, e.TimeNowNs())
}

func TestFcPipeline_Paced_B1_MatchingLatencies_DoublesEndTime(t *testing.T) {
	// GIVEN a paced source feeding a pipeline with buffer 1, forward
	// latency 1, credit latency 1
	e, sink := newPacedFcScenario(t, 1, 1, 1, 10)

	// WHEN the engine runs to quiescence
	require.NoError(t, e.Run())

	// THEN the single in-flight credit round trip doubles the pacing time
	require.Equal(t, 10, sink.NumSunk())
	require.Equal(t, 20.0, e.TimeNowNs())
}

func TestFcPipeline_Paced_B2_OutrunsPacingByForwardLatency(t *testing.T) {
	// GIVEN a paced source feeding a pipeline with buffer 2, forward
	// latency 1, credit latency 1
	e, sink := newPacedFcScenario(t, 2, 1, 1, 10)

	// WHEN the engine runs to quiescence
	require.NoError(t, e.Run())

	// THEN a buffer of 2 keeps pace with the 1-tick-per-item source, so the
	// pipeline only adds its forward latency once, at the end: N + Df
	require.Equal(t, 10, sink.NumSunk())
	require.Equal(t, 11.0, e.TimeNowNs())
}

func TestFcPipeline_Paced_B1_LongerCreditLatency_TriplesEndTime(t *testing.T) {
	// GIVEN a paced source feeding a pipeline with buffer 1, forward
	// latency 1, credit latency 2
	e, sink := newPacedFcScenario(t, 1, 1, 2, 10)

	// WHEN the engine runs to quiescence
	require.NoError(t, e.Run())

	// THEN the round trip (Df+Dc=3) dominates the 1-tick pacing: N*3
	require.Equal(t, 10, sink.NumSunk())
	require.Equal(t, 30.0, e.TimeNowNs())
}

func TestFcPipeline_FillLevel_NeverExceedsBufferCapacity(t *testing.T) {
	// GIVEN a pipeline with buffer capacity 1
	e := newTestEngine(t)
	clock := e.DefaultClock()
	pipe, err := NewFcPipeline[int](e.Root, "pipe", clock, 1, 2, 1)
	require.NoError(t, err)
	source, err := NewSource[int](e.Root, "source", Repeat(1, 3))
	require.NoError(t, err)
	sink, err := NewSink[int](e.Root, "sink")
	require.NoError(t, err)
	require.NoError(t, source.Tx().Connect(pipe.Rx()))
	require.NoError(t, pipe.Tx().Connect(sink.Rx()))
	e.Register(source)
	e.Register(pipe)
	e.Register(sink)

	// WHEN the engine runs to quiescence
	require.NoError(t, e.Run())

	// THEN by the time the run settles the buffer has drained back to empty
	require.LessOrEqual(t, pipe.FillLevel(), 1)
}
