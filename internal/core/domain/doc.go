// Package domain defines the core business entities for GitMiner.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SearchResultItem: One code-search hit for a dork
//   - RateLimitResource: A named quota bucket and its reset instant
//   - RawContent: Bytes retrieved for a repository path
//   - Finding: A sensitive-looking occurrence with its severity tier
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
