// Package agui implements the outward wire protocol of AgentStream: an
// ag-ui style envelope sequence (RUN_STARTED, TEXT_MESSAGE_CHUNK,
// RUN_FINISHED, RUN_ERROR) derived from the normalized event sequence of one
// run.
//
// The Bridge guarantees a well-formed sequence - exactly one RUN_STARTED
// first, exactly one terminal envelope last - regardless of how the
// underlying run terminated, and absorbs internal failures as RUN_ERROR so a
// client stream never hangs open without a terminal event.
//
// Envelopes are the primary, un-encoded contract; EventEncoder turns them
// into a framed byte representation (SSE or NDJSON) negotiated from the
// caller's Accept preference.
package agui
