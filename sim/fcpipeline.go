package sim

// FcPipeline composes a CreditLimiter, a forward Delay, a buffering Store,
// and a CreditIssuer into a single flow-controlled link: the limiter holds
// back new sends until credit is available, the delay models link latency,
// the store models the receiver's buffer, and the issuer returns one credit
// per value drained from the buffer. Returned credits travel back to the
// limiter through their own Delay, modeling the latency of the return path.
type FcPipeline[T any] struct {
	entity      *Entity
	limiter     *CreditLimiter[T]
	fwdDelay    *Delay[T]
	buffer      *Store[T]
	issuer      *CreditIssuer[T]
	creditDelay *Delay[struct{}]
}

// NewFcPipeline wires a flow-controlled pipeline under parent:
//   - bufCap (B): receiver buffer capacity, and so also the number of
//     credits outstanding at once — the limiter never admits more values
//     than the buffer can structurally hold.
//   - fwdTicks (Df): forward link latency, in ticks of clock
//   - creditTicks (Dc): credit return latency, in ticks of clock
func NewFcPipeline[T any](parent *Entity, name string, clock *Clock, bufCap int, fwdTicks int64, creditTicks int64) (*FcPipeline[T], error) {
	e, err := parent.Child(name, nil)
	if err != nil {
		return nil, err
	}
	limiter, err := NewCreditLimiter[T](e, "limiter", bufCap)
	if err != nil {
		return nil, err
	}
	fwdDelay, err := NewDelay[T](e, "fwd_delay", clock, fwdTicks)
	if err != nil {
		return nil, err
	}
	buffer, err := NewStore[T](e, "buffer", bufCap, false)
	if err != nil {
		return nil, err
	}
	issuer, err := NewCreditIssuer[T](e, "issuer")
	if err != nil {
		return nil, err
	}
	creditDelay, err := NewDelay[struct{}](e, "credit_delay", clock, creditTicks)
	if err != nil {
		return nil, err
	}

	if err := limiter.Tx().Connect(fwdDelay.Rx()); err != nil {
		return nil, err
	}
	if err := fwdDelay.Tx().Connect(buffer.Rx()); err != nil {
		return nil, err
	}
	if err := buffer.Tx().Connect(issuer.Rx()); err != nil {
		return nil, err
	}
	if err := issuer.CreditTx().Connect(creditDelay.Rx()); err != nil {
		return nil, err
	}
	if err := creditDelay.Tx().Connect(limiter.CreditRx()); err != nil {
		return nil, err
	}

	return &FcPipeline[T]{
		entity:      e,
		limiter:     limiter,
		fwdDelay:    fwdDelay,
		buffer:      buffer,
		issuer:      issuer,
		creditDelay: creditDelay,
	}, nil
}

// Rx returns the pipeline's external data input port.
func (p *FcPipeline[T]) Rx() *InPort[T] { return p.limiter.Rx() }

// Tx returns the pipeline's external data output port.
func (p *FcPipeline[T]) Tx() *OutPort[T] { return p.issuer.Tx() }

// FillLevel returns the number of values currently buffered in the
// receiver-side Store.
func (p *FcPipeline[T]) FillLevel() int { return p.buffer.FillLevel() }

// Run implements Component: it spawns every sub-component and returns once
// they are all launched; the sub-components' own Run loops never return on
// their own, mirroring Sink's "abandoned at quiescence" behavior.
func (p *FcPipeline[T]) Run(tc *TaskCtx) error {
	sp := NewSpawner(tc.exec)
	sp.Spawn(func(ctc *TaskCtx) error { return p.limiter.Run(ctc) })
	sp.Spawn(func(ctc *TaskCtx) error { return p.fwdDelay.Run(ctc) })
	sp.Spawn(func(ctc *TaskCtx) error { return p.buffer.Run(ctc) })
	sp.Spawn(func(ctc *TaskCtx) error { return p.issuer.Run(ctc) })
	sp.Spawn(func(ctc *TaskCtx) error { return p.creditDelay.Run(ctc) })
	return nil
}
