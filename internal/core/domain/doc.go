// Package domain defines the core business entities for Testcraft.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An uploaded document tracked by the registry
//   - Chunk: The atomic unit of embedding and retrieval
//   - RetrievalResult: Scored chunks returned for a query
//   - GenerationResult: An answer or test case with source attribution
//   - ExecutionResult: The outcome of a sandboxed script run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
