// Package history extracts commit records from git repositories.
//
// A HistoryQuery returns raw, line-oriented records for a repository and date
// window; CommitExtractor owns parsing, client-side author filtering, and
// chronological ordering so that the behaviour is testable with injected output.
//
// Commit messages are reduced to their first line on every backend. Date windows are inclusive
// on both ends and evaluated against the committer timestamp in the window's
// location (local time unless configured otherwise).
package history
