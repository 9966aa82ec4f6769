// Package github provides read-only access to the GitHub REST API for ghbrowse.
// It wraps go-github with the handful of endpoints needed to browse users and
// their repositories and maps API payloads to small value types.
//
// The package includes:
// - APIClient interface consumed by the browse controllers
// - Client, the go-github backed implementation with rate limit tracking
// - Page and the page size heuristic used to decide whether more data exists
// - Structured errors classifying transport, decode and HTTP failures
package github
