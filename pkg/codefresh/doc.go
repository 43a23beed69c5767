// Package codefresh is a minimal client of the Codefresh control plane API.
//
// It covers the two endpoints the script builder needs:
//
//   - /api/clusters/{aks|aks-sp}/helm/repos/{service}/token exchanges the API
//     key (and optionally service principal credentials) for a repository token
//   - /api/contexts/{name}?decrypt=true returns a Helm repository context
//
// Every request carries the API key in the Authorization header, waits on a
// rate limiter and runs under its own deadline. Nothing is retried.
package codefresh
