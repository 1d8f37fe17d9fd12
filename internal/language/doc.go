// Package language normalizes narration language codes and renders display
// names for prompts and output surfaces.
package language
