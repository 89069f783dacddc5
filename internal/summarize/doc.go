// Package summarize wires repository discovery, history extraction, digest formatting, and
// summarization into the summarize command.
package summarize
