// Package insight holds the keyword and pattern heuristics behind the
// dashboard's "AI" panels: summaries, sentiment, task extraction, idea
// prompts and the chat echo. Every function is pure and deterministic; none
// of them performs any language understanding.
package insight
