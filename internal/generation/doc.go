// Package generation defines the boundary between the catalog and external
// LLM services that write product descriptions. The Gemini implementation
// lives in internal/platform/gemini.
package generation
