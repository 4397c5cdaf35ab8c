// Package source houses implementations of the core.GenerationSource
// contract. The interface itself lives in the core package; only concrete
// producers of fragment sequences live here.
//
//   - ScriptedSource: deterministic in-memory source for tests, examples and
//     local development without provider credentials.
//   - source/anthropic: streaming adapter over the Anthropic Messages API.
//   - source/openai: streaming adapter over the OpenAI Chat Completions API.
//
// All sources share the channel contract documented on
// core.GenerationSource: the fragment channel closes when the sequence ends,
// the error channel carries at most one terminal error and closes afterwards,
// and Abort is a best-effort hint that a source may ignore.
package source
