// Package services provides shared plumbing for the external service
// clients: sentinel error markers with contextual wrapping, and context
// carriers for correlation metadata (document, stage, request) that the
// logging package lifts into structured attributes.
package services
