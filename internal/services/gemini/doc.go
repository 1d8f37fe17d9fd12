// Package gemini wraps the Gemini generateContent API for the three
// provider calls the pipeline makes: structured extraction from a PDF,
// dialogue script generation, and multi-speaker speech synthesis.
//
// Every call is a single attempt. A failed request surfaces immediately so
// the caller can fail the document; nothing in this package sleeps or
// retries.
package gemini
