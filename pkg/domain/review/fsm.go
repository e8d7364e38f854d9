package review

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Events accepted by the review state machine.
const (
	EventApprove         = "approve"
	EventReject          = "reject"
	EventRequestRevision = "request_revision"
)

// machineContext carries no data; transitions are unconditional because any
// state may be re-reviewed by a later operator action.
type machineContext struct{}

// StateMachine validates review transitions. There is no terminal lock:
// every state accepts every event, including self-transitions, so repeated
// approvals are idempotent in final state.
type StateMachine struct {
	interpreter *statekit.Interpreter[machineContext]
}

// NewStateMachine builds a machine starting from the given status.
func NewStateMachine(initial Status) (*StateMachine, error) {
	builder := statekit.NewMachine[machineContext]("review").
		WithInitial(statekit.StateID(initial)).
		WithContext(machineContext{})

	for _, state := range []Status{StatusPending, StatusApproved, StatusRejected, StatusNeedsRevision} {
		builder.State(statekit.StateID(state)).
			On(EventApprove).Target(statekit.StateID(StatusApproved)).
			On(EventReject).Target(statekit.StateID(StatusRejected)).
			On(EventRequestRevision).Target(statekit.StateID(StatusNeedsRevision)).
			Done()
	}

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build review state machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()
	return &StateMachine{interpreter: interpreter}, nil
}

// Transition applies an event and returns the resulting status.
func (sm *StateMachine) Transition(event string) (Status, error) {
	switch event {
	case EventApprove, EventReject, EventRequestRevision:
	default:
		return sm.Current(), fmt.Errorf("unknown review event %q", event)
	}
	sm.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	return sm.Current(), nil
}

// Current returns the machine's current status.
func (sm *StateMachine) Current() Status {
	return Status(sm.interpreter.State().Value)
}
