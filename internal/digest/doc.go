// Package digest renders extracted commits into the text block sent for summarization.
package digest
