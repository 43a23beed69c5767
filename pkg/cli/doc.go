// Package cli implements the command-line interface of cfstep-helm.
//
// # Overview
//
// cfstep-helm runs as a pipeline step. It reads its configuration from the
// process environment and writes a bash script that performs the Helm
// operation selected by ACTION (install, push, promotion or auth).
//
// # Commands
//
// Root command - generate the script:
//
//	cfstep-helm                                   # script to stdout
//	cfstep-helm --output /tmp/entrypoint.sh       # script to a file
//	cfstep-helm -o cm://ci/helm-step              # script to a ConfigMap
//	cfstep-helm --env-file step.env               # merge a dotenv file, OS values win
//	cfstep-helm --metrics-file /tmp/step.prom     # write build metrics
//
// vars - list the recognized environment variables:
//
//	cfstep-helm vars --format table
//
// version - print the version:
//
//	cfstep-helm version
//
// # Global Flags
//
//	--debug       Enable debug logging
//	--log-json    Emit logs as JSON
//	--log-level   Log level (debug, info, warn, error)
//
// Logs always go to stderr so that stdout carries only the script.
package cli
