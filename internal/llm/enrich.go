// Package llm provides the optional remote-enrichment adapters. Both
// operating modes — calling the chat-completion API directly, or going
// through an automation endpoint that mediates the call — implement the
// same Enricher contract. Enrichment is strictly best-effort: callers
// treat any error or empty result as "no enrichment".
package llm

import "context"

// Enricher produces a short natural-language elaboration for a symptom
// report. The scope hint tells the remote side what the local analysis
// concluded (e.g. "triage-cita").
type Enricher interface {
	Enrich(ctx context.Context, symptoms, scope string) (string, error)
}
