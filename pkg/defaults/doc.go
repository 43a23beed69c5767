// Package defaults provides centralized configuration constants for cfstep-helm.
//
// This package defines timeout values, rate limits, and fixed filesystem
// locations used across the codebase.
//
// # Timeout Categories
//
//   - Control plane timeouts: token exchange and repository context lookup
//   - Probe timeouts: artifact repository type detection
//   - Kubernetes timeouts: ConfigMap output writes
//
// # Usage
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.APITimeout)
//	defer cancel()
package defaults
