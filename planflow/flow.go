// Package planflow drives the preview, adjust, confirm protocol against the
// generation service and the persistence backend. A flow is the sole owner of
// the last raw payload the service issued; the display Plan handed to callers
// is a lossy derivation and is never sent back over the wire.
package planflow

import (
	"encoding/json"

	"github.com/weightfit/engine/errs"
)

// State is the position of a flow in the plan lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StatePreviewing State = "previewing"
	StateReady      State = "ready"
	StateAdjusting  State = "adjusting"
	StateConfirming State = "confirming"
	StateConfirmed  State = "confirmed"
)

// rawHolder carries the lifecycle state shared by the workout and diet flows:
// the current state plus the last service-issued raw payload. A flow instance
// is driven by one caller at a time; protocol ordering is enforced by state
// checks, not locks. The raw value is replaced whole on each successful
// adjust, never edited in place.
type rawHolder struct {
	state State
	raw   json.RawMessage
}

func newRawHolder() rawHolder {
	return rawHolder{state: StateIdle}
}

// State reports the flow's current lifecycle state.
func (h *rawHolder) State() State { return h.state }

// Raw returns a copy of the stored raw payload, or nil when none is held.
// Exposed for persistence of drafts; the copy keeps the stored value
// immutable.
func (h *rawHolder) Raw() json.RawMessage {
	if len(h.raw) == 0 {
		return nil
	}
	return append(json.RawMessage(nil), h.raw...)
}

// store replaces the held payload with a private copy of raw.
func (h *rawHolder) store(raw json.RawMessage) {
	h.raw = append(json.RawMessage(nil), raw...)
	h.state = StateReady
}

// Restore seeds the flow with a previously saved raw payload, putting it in
// the ready state as if a preview had just completed.
func (h *rawHolder) Restore(raw json.RawMessage) error {
	if len(raw) == 0 {
		return errs.ErrNoRawPlan
	}
	h.store(raw)
	return nil
}

// take validates that a raw payload is available for confirm and hands it out.
// Confirming twice, or before any preview, is a protocol-ordering violation.
func (h *rawHolder) take() (json.RawMessage, error) {
	if len(h.raw) == 0 {
		return nil, errs.ErrNoRawPlan
	}
	return h.raw, nil
}

// settle moves the flow back to the state implied by the held payload after a
// failed round trip. Errors never corrupt the stored raw value.
func (h *rawHolder) settle() {
	if len(h.raw) == 0 {
		h.state = StateIdle
		return
	}
	h.state = StateReady
}

// confirmed clears the payload once the backend has durably persisted it; a
// later confirm must fail with ErrNoRawPlan rather than double-submit.
func (h *rawHolder) confirmed() {
	h.raw = nil
	h.state = StateConfirmed
}
