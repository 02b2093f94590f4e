// Package progress renders crawl progress for an operator. Bar draws a
// terminal progress bar, Log writes the same updates as structured log lines,
// and Tee fans updates out to several renderers.
package progress
