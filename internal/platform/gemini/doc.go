// Package gemini implements generation.DescriptionGenerator on top of
// Google's Gemini API.
//
// Key components:
//
// 1. GeminiGenerator:
//   - Builds a short prompt from the product name
//   - Calls the model with exponential backoff for transient errors
//   - Treats safety blocks and empty responses as permanent failures
//
// 2. Response sanitizing:
//   - Keeps only Cyrillic letters, whitespace and basic punctuation
//   - Extracts the first quoted span when the model wraps its answer
//   - Drops a stray leading period
package gemini
