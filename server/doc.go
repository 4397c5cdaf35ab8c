// Package server exposes the HTTP transport of agentstream: the streamed
// chat endpoint, the out-of-band stop endpoint, session management and a
// health probe. It is a thin layer - run semantics live in the stream and
// agui packages; handlers only bind requests, negotiate the envelope
// encoding and flush frames.
package server
