// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - QuotaSource: Fresh rate limit snapshots
//   - CodeSearcher: One page of code search results
//   - ContentSource: Content resolution and raw download
//   - Clock: Time source and interruptible sleeps
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - SearchRunStore, FileStore, FindingStore: Persistence. Failures are never fatal.
//   - RawFileStore: Local copies of downloaded files.
//   - ReportSink: Consumer of the ordered report row stream.
//   - EventSink: Structured diagnostics. A nil sink drops events.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
