package agui

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Framing names the supported wire framings for envelope streams.
type Framing string

const (
	// FramingSSE frames each envelope as one server-sent event.
	FramingSSE Framing = "sse"
	// FramingNDJSON frames each envelope as one JSON line.
	FramingNDJSON Framing = "ndjson"
)

const (
	sseContentType    = "text/event-stream"
	ndjsonContentType = "application/x-ndjson"
)

// EventEncoder frames envelopes for an HTTP-streamed response. The framing is
// negotiated from the caller's Accept preference: NDJSON when explicitly
// requested, SSE otherwise. Encoding is kept out of the Bridge so the
// un-encoded envelope sequence remains the primary contract.
type EventEncoder struct {
	framing Framing
}

// NewEventEncoder negotiates a framing from an Accept header value.
func NewEventEncoder(accept string) *EventEncoder {
	framing := FramingSSE
	if strings.Contains(accept, ndjsonContentType) {
		framing = FramingNDJSON
	}
	return &EventEncoder{framing: framing}
}

// Framing returns the negotiated framing.
func (e *EventEncoder) Framing() Framing { return e.framing }

// ContentType returns the response content type for the negotiated framing.
func (e *EventEncoder) ContentType() string {
	if e.framing == FramingNDJSON {
		return ndjsonContentType
	}
	return sseContentType + "; charset=utf-8"
}

// Encode frames one envelope as bytes, independently flushable so clients
// can render partial output incrementally.
func (e *EventEncoder) Encode(env Envelope) ([]byte, error) {
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to encode envelope: %w", err)
	}
	if e.framing == FramingNDJSON {
		return append(data, '\n'), nil
	}
	var sb strings.Builder
	sb.Grow(len(data) + 8)
	sb.WriteString("data: ")
	sb.Write(data)
	sb.WriteString("\n\n")
	return []byte(sb.String()), nil
}
