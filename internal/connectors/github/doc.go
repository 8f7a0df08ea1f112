// Package github adapts the GitHub REST API to the search, content and
// quota ports of the core.
//
// # Components
//
//   - Client: lazily builds an authenticated go-github client and exposes
//     the port implementations (QuotaSource, CodeSearcher, ContentSource)
//   - Config: API location, user agent, timeout and download throttle
//   - error mapping: go-github errors become domain errors
//
// # Authentication
//
// Requests carry a personal access token through an oauth2 static token
// source. Providers reporting [domain.AuthMethodNone] get an unauthenticated
// client, which GitHub limits to 60 requests per hour and which cannot use
// code search.
//
// # Rate limits
//
// Search quota is not enforced here. The core's guard consults Snapshot
// before every search and handles rejected requests. Raw downloads do not
// count against the API quota and are only throttled locally with a token
// bucket (golang.org/x/time/rate).
package github
