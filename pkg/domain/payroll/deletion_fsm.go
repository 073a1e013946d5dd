package payroll

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Deletion gate states.
const (
	GateIdle      = "idle"
	GateAwaiting  = "awaiting_confirmation"
	GateDeleted   = "deleted"
	GateCancelled = "cancelled"
)

// Deletion gate events.
const (
	EventRequest = "request"
	EventConfirm = "confirm"
	EventDecline = "decline"
	EventReset   = "reset"
)

// GateContext carries the record under deletion.
type GateContext struct {
	RecordID string
}

// DeletionGate is the yes/no confirmation step that must be passed before a
// record leaves the store.
type DeletionGate struct {
	interpreter *statekit.Interpreter[GateContext]
}

func NewDeletionGate(recordID string) (*DeletionGate, error) {
	builder := statekit.NewMachine[GateContext]("deletion-gate").
		WithInitial(statekit.StateID(GateIdle)).
		WithContext(GateContext{RecordID: recordID})

	builder.State(GateIdle).
		On(EventRequest).Target(GateAwaiting).
		Done()

	builder.State(GateAwaiting).
		On(EventConfirm).Target(GateDeleted).
		On(EventDecline).Target(GateCancelled).
		Done()

	builder.State(GateDeleted).
		On(EventReset).Target(GateIdle).
		Done()

	builder.State(GateCancelled).
		On(EventReset).Target(GateIdle).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build deletion gate: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &DeletionGate{interpreter: interpreter}, nil
}

// Request opens the gate and waits for an answer.
func (g *DeletionGate) Request() error {
	return g.send(EventRequest)
}

// Answer closes the gate. Only an affirmative answer allows deletion.
func (g *DeletionGate) Answer(affirmative bool) error {
	if affirmative {
		return g.send(EventConfirm)
	}
	return g.send(EventDecline)
}

// Reset returns a closed gate to idle so it can be asked again.
func (g *DeletionGate) Reset() error {
	return g.send(EventReset)
}

func (g *DeletionGate) Approved() bool {
	return g.Current() == GateDeleted
}

func (g *DeletionGate) Current() string {
	return string(g.interpreter.State().Value)
}

func (g *DeletionGate) send(event string) error {
	before := g.Current()
	g.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	if g.Current() != before {
		return nil
	}
	return fmt.Errorf("event %q is not allowed while the deletion gate is %q", event, before)
}
