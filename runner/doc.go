// Package runner orchestrates one carbon run: it checks the warehouse and
// the transfer sink, streams the feed into the sink (or a local file) and
// announces the outcome.
package runner
