// Package dedup decides whether a discovered candidate still needs
// processing. The gate fails open: when the record store cannot answer,
// the candidate proceeds and the unique index on published records
// backstops true duplicates.
package dedup
