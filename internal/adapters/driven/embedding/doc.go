// Package embedding holds helpers shared by the embedding provider adapters:
// sub-batching, bounded concurrency and request pacing.
//
// Provider adapters live in the gemini, openai and ollama subpackages.
package embedding
