// Package textutil provides text processing utilities for title
// fingerprinting, similarity scoring, and filename sanitization.
//
// Fingerprints are term-frequency vectors built by lowercasing, splitting on
// non-alphanumeric runs, and dropping tokens shorter than 3 characters. The
// deduplication gate compares candidate titles against recent record titles
// with cosine similarity to warn about near-duplicates.
package textutil
