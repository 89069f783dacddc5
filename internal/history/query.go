package history

import (
	"context"
	"strings"
	"time"
)

const (
	recordSeparatorConstant      = "\x1e"
	recordFieldSeparatorConstant = "\x00"
	recordFieldCountConstant     = 5
	recordTimestampLayout        = time.RFC3339
)

// HistoryQuery returns raw commit records for a repository within a date window.
// Each record carries hash, author name, author email, committer timestamp (RFC 3339)
// and the raw commit message, separated by NUL bytes. Parsing keeps the first line of the message.
type HistoryQuery interface {
	EnsureAvailable(executionContext context.Context) error
	Query(executionContext context.Context, repositoryPath string, dateRange DateRange) ([]string, error)
}

// FormatRawRecord renders record fields in the raw layout returned by HistoryQuery implementations.
func FormatRawRecord(hash string, author string, authorEmail string, timestamp time.Time, message string) string {
	return strings.Join([]string{hash, author, authorEmail, timestamp.Format(recordTimestampLayout), message}, recordFieldSeparatorConstant)
}

func splitRawRecords(output string) []string {
	rawRecords := make([]string, 0)
	for _, chunk := range strings.Split(output, recordSeparatorConstant) {
		trimmedChunk := strings.Trim(chunk, "\r\n")
		if len(trimmedChunk) == 0 {
			continue
		}
		rawRecords = append(rawRecords, trimmedChunk)
	}
	return rawRecords
}

func subjectLine(message string) string {
	trimmedMessage := strings.TrimSpace(message)
	if newlineIndex := strings.IndexAny(trimmedMessage, "\r\n"); newlineIndex >= 0 {
		return strings.TrimSpace(trimmedMessage[:newlineIndex])
	}
	return trimmedMessage
}
