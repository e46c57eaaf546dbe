package sim

import "fmt"

// CreditLimiter withholds forwarding rx to tx until a credit is available: N
// credits are usable at once, one is consumed per forwarded value, and each
// arrival on its credit input returns one credit to the pool.
type CreditLimiter[T any] struct {
	entity   *Entity
	rx       *InPort[T]
	tx       *OutPort[T]
	creditRx *InPort[struct{}]
	credits  *Resource
}

// NewCreditLimiter creates a CreditLimiter with numCredits (>= 1) credits
// outstanding at once.
func NewCreditLimiter[T any](parent *Entity, name string, numCredits int) (*CreditLimiter[T], error) {
	if numCredits < 1 {
		return nil, fmt.Errorf("CreditLimiter requires numCredits >= 1")
	}
	e, err := parent.Child(name, nil)
	if err != nil {
		return nil, err
	}
	return &CreditLimiter[T]{
		entity:   e,
		rx:       NewInPort[T](e, "rx"),
		tx:       NewOutPort[T](e, "tx"),
		creditRx: NewInPort[struct{}](e, "credit_rx"),
		credits:  NewResource(numCredits),
	}, nil
}

// Rx returns the CreditLimiter's data input port.
func (c *CreditLimiter[T]) Rx() *InPort[T] { return c.rx }

// Tx returns the CreditLimiter's data output port.
func (c *CreditLimiter[T]) Tx() *OutPort[T] { return c.tx }

// CreditRx returns the port that returned credits arrive on.
func (c *CreditLimiter[T]) CreditRx() *InPort[struct{}] { return c.creditRx }

// Run implements Component: it spawns the credit-return loop and runs the
// forwarding loop itself.
func (c *CreditLimiter[T]) Run(tc *TaskCtx) error {
	sp := NewSpawner(tc.exec)
	sp.Spawn(func(ctc *TaskCtx) error { return c.runCreditIntake(ctc) })
	return c.runForward(tc)
}

func (c *CreditLimiter[T]) runCreditIntake(tc *TaskCtx) error {
	for {
		if _, err := c.creditRx.Get(tc); err != nil {
			return err
		}
		if err := c.credits.Release(); err != nil {
			return err
		}
	}
}

func (c *CreditLimiter[T]) runForward(tc *TaskCtx) error {
	for {
		v, err := c.rx.Get(tc)
		if err != nil {
			return err
		}
		c.credits.Request(tc)
		if err := c.tx.Put(tc, v); err != nil {
			return err
		}
	}
}

// CreditIssuer forwards rx to tx and emits one credit on creditTx for every
// value forwarded, the counterpart to a CreditLimiter on the other end of a
// flow-controlled link.
type CreditIssuer[T any] struct {
	entity   *Entity
	rx       *InPort[T]
	tx       *OutPort[T]
	creditTx *OutPort[struct{}]
}

// NewCreditIssuer creates a CreditIssuer named name under parent.
func NewCreditIssuer[T any](parent *Entity, name string) (*CreditIssuer[T], error) {
	e, err := parent.Child(name, nil)
	if err != nil {
		return nil, err
	}
	return &CreditIssuer[T]{
		entity:   e,
		rx:       NewInPort[T](e, "rx"),
		tx:       NewOutPort[T](e, "tx"),
		creditTx: NewOutPort[struct{}](e, "credit_tx"),
	}, nil
}

// Rx returns the CreditIssuer's data input port.
func (c *CreditIssuer[T]) Rx() *InPort[T] { return c.rx }

// Tx returns the CreditIssuer's data output port.
func (c *CreditIssuer[T]) Tx() *OutPort[T] { return c.tx }

// CreditTx returns the port that issued credits are sent on.
func (c *CreditIssuer[T]) CreditTx() *OutPort[struct{}] { return c.creditTx }

// Run implements Component.
func (c *CreditIssuer[T]) Run(tc *TaskCtx) error {
	for {
		v, err := c.rx.Get(tc)
		if err != nil {
			return err
		}
		if err := c.tx.Put(tc, v); err != nil {
			return err
		}
		if err := c.creditTx.Put(tc, struct{}{}); err != nil {
			return err
		}
	}
}
