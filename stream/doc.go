// Package stream contains the orchestrator that owns one run end-to-end: it
// pulls fragments from a generation source, interleaves polling of the stop
// signal store, decides when to stop early and emits the normalized event
// sequence consumed by the protocol bridge.
//
// The orchestrator decides WHETHER generation keeps going; how the outcome is
// represented on the wire is the bridge's concern (package agui). The split
// lets the cancellation policy be tested without any protocol-encoding
// concerns and lets the wire format evolve independently.
package stream
