// Package builder assembles the Helm entrypoint script.
//
// A build runs in one pass:
//
//  1. derive and validate the configuration from the environment
//  2. apply HELM_REPOSITORY_CONTEXT, if any, from the control plane
//  3. write an inline CHART_JSON payload to /opt/chart
//  4. normalize repository URLs and exchange Azure scheme URLs for tokens
//  5. render the prologue, repository registration and the action commands
//
// Network calls (context lookup, token exchange, artifact repository probe)
// happen before any line is returned, so a failing build never yields a
// partial script. Dry-run builds make no token or probe calls.
//
// Usage:
//
//	b := builder.New(builder.WithTimeout(30 * time.Second))
//	script, err := b.Build(ctx, env.FromOS())
package builder
