// Package pipeline turns one document into narrated audio through a fixed
// four-stage sequence: acquire the PDF, extract a structured summary,
// generate a two-speaker script, and synthesize speech. Stages share state
// through a Job and stop the document at the first failure; persistence and
// publication happen outside this package.
package pipeline
