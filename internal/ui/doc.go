// Package ui renders command lifecycle events for human-readable console logging.
package ui
