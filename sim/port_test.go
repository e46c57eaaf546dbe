package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOutPort_Put_UnconnectedPort_Errors(t *testing.T) {
	// GIVEN an unconnected OutPort
	e := newTestEngine(t)
	out := NewOutPort[int](e.Root, "tx")

	// WHEN Put is attempted from within a task
	var putErr error
	e.Spawner().Spawn(func(tc *TaskCtx) error {
		putErr = out.Put(tc, 1)
		return nil
	})
	require.NoError(t, e.Run())

	// THEN it reports the port is not connected
	require.Error(t, putErr)
}

func TestOutPort_Connect_AlreadyConnected_Errors(t *testing.T) {
	// GIVEN an OutPort already connected to one InPort
	e := newTestEngine(t)
	out := NewOutPort[int](e.Root, "tx")
	in1 := NewInPort[int](e.Root, "rx1")
	in2 := NewInPort[int](e.Root, "rx2")
	require.NoError(t, out.Connect(in1))

	// WHEN Connect is attempted again to a different InPort
	err := out.Connect(in2)

	// THEN it fails
	require.Error(t, err)
}

func TestPort_PutThenGet_TransfersExactValue(t *testing.T) {
	// GIVEN a connected port pair
	e := newTestEngine(t)
	out := NewOutPort[string](e.Root, "tx")
	in := NewInPort[string](e.Root, "rx")
	require.NoError(t, out.Connect(in))

	var got string
	e.Spawner().Spawn(func(tc *TaskCtx) error { return out.Put(tc, "hello") })
	e.Spawner().Spawn(func(tc *TaskCtx) error {
		v, err := in.Get(tc)
		got = v
		return err
	})

	// WHEN the engine runs to quiescence
	require.NoError(t, e.Run())

	// THEN the consumer observed exactly the produced value
	require.Equal(t, "hello", got)
}

func TestOutPort_PutIfReady_NoWaitingConsumer_ReturnsFalse(t *testing.T) {
	// GIVEN a connected port pair with no consumer currently waiting
	e := newTestEngine(t)
	out := NewOutPort[int](e.Root, "tx")
	in := NewInPort[int](e.Root, "rx")
	require.NoError(t, out.Connect(in))

	var ready bool
	var err error
	e.Spawner().Spawn(func(tc *TaskCtx) error {
		ready, err = out.PutIfReady(tc, 1)
		return nil
	})

	// WHEN the engine runs to quiescence (nobody ever calls Get)
	require.NoError(t, e.Run())

	// THEN PutIfReady reports nobody was listening, without blocking forever
	require.NoError(t, err)
	require.False(t, ready)
}

func TestOutPort_PutIfReady_WaitingConsumer_Succeeds(t *testing.T) {
	// GIVEN a connected port pair where the consumer is already parked on Get
	e := newTestEngine(t)
	out := NewOutPort[int](e.Root, "tx")
	in := NewInPort[int](e.Root, "rx")
	require.NoError(t, out.Connect(in))

	var ready bool
	var got int
	e.Spawner().Spawn(func(tc *TaskCtx) error {
		v, err := in.Get(tc)
		got = v
		return err
	})
	e.Spawner().Spawn(func(tc *TaskCtx) error {
		clk := e.DefaultClock()
		clk.WaitTicks(tc, 1) // let the consumer register its Get first
		var err error
		ready, err = out.PutIfReady(tc, 42)
		return err
	})

	// WHEN the engine runs to quiescence
	require.NoError(t, e.Run())

	// THEN the value is delivered
	require.True(t, ready)
	require.Equal(t, 42, got)
}

func TestOutPort_TryPut_WaitingConsumer_CompletesWithoutParking(t *testing.T) {
	// GIVEN a connected port pair where the consumer is already parked on Get
	e := newTestEngine(t)
	out := NewOutPort[int](e.Root, "tx")
	in := NewInPort[int](e.Root, "rx")
	require.NoError(t, out.Connect(in))

	var tryPutDoneAt float64 = -1
	e.Spawner().Spawn(func(tc *TaskCtx) error {
		_, err := in.Get(tc)
		return err
	})
	e.Spawner().Spawn(func(tc *TaskCtx) error {
		if err := out.TryPut(tc); err != nil {
			return err
		}
		tryPutDoneAt = e.TimeNowNs()
		return nil
	})

	// WHEN the engine runs to quiescence (the consumer never receives a
	// value, since TryPut never places one)
	require.NoError(t, e.Run())

	// THEN TryPut completed at tick 0, alongside the consumer's Get, without
	// ever parking
	require.Equal(t, 0.0, tryPutDoneAt)
}

func TestOutPort_TryPut_NoConsumerYet_ParksUntilOneArrives(t *testing.T) {
	// GIVEN a connected port pair with no consumer waiting yet
	e := newTestEngine(t)
	out := NewOutPort[int](e.Root, "tx")
	in := NewInPort[int](e.Root, "rx")
	require.NoError(t, out.Connect(in))
	clock := e.DefaultClock()

	var tryPutDoneAt float64 = -1
	e.Spawner().Spawn(func(tc *TaskCtx) error {
		if err := out.TryPut(tc); err != nil {
			return err
		}
		tryPutDoneAt = e.TimeNowNs()
		return nil
	})
	e.Spawner().Spawn(func(tc *TaskCtx) error {
		clock.WaitTicks(tc, 5)
		_, err := in.Get(tc)
		return err
	})

	// WHEN the engine runs to quiescence
	require.NoError(t, e.Run())

	// THEN TryPut stayed parked until the consumer showed up at tick 5
	require.Equal(t, 5.0, tryPutDoneAt)
}

func TestInPort_StartGetFinishGet_HoldsProducerUntilFinish(t *testing.T) {
	// GIVEN a connected port pair where the consumer uses StartGet/FinishGet
	e := newTestEngine(t)
	out := NewOutPort[int](e.Root, "tx")
	in := NewInPort[int](e.Root, "rx")
	require.NoError(t, out.Connect(in))
	clock := e.DefaultClock()

	var producerDoneAt, consumerFinishedAt float64
	e.Spawner().Spawn(func(tc *TaskCtx) error {
		if err := out.Put(tc, 1); err != nil {
			return err
		}
		producerDoneAt = e.TimeNowNs()
		return nil
	})
	e.Spawner().Spawn(func(tc *TaskCtx) error {
		v, err := in.StartGet(tc)
		if err != nil || v != 1 {
			return err
		}
		clock.WaitTicks(tc, 4)
		in.FinishGet()
		consumerFinishedAt = e.TimeNowNs()
		return nil
	})

	// WHEN the engine runs to quiescence
	require.NoError(t, e.Run())

	// THEN the producer stays parked until FinishGet releases it
	require.Equal(t, 4.0, consumerFinishedAt)
	require.Equal(t, 4.0, producerDoneAt)
}
