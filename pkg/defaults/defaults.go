package defaults

import "time"

// Control plane.
const (
	// APITimeout bounds every control plane request. Expiry is fatal.
	APITimeout = 30 * time.Second

	// APIRateLimit is the sustained request rate towards the control plane.
	APIRateLimit = 5

	// APIRateBurst is the limiter burst size.
	APIRateBurst = 2

	// APIBaseURL is used when no base URL can be derived from the environment.
	APIBaseURL = "https://g.codefresh.io"

	// APIMaxResponseBytes caps decoded control plane responses.
	APIMaxResponseBytes = 1 << 20
)

// Repository probe.
const (
	// ProbeTimeout bounds the artifact repository detection request.
	ProbeTimeout = 30 * time.Second
)

// Kubernetes.
const (
	// K8sWriteTimeout bounds ConfigMap create/update calls.
	K8sWriteTimeout = 30 * time.Second
)

// Script locations.
const (
	// ChartDir is where inline chart payloads are materialized and where
	// promotion expects the chart.
	ChartDir = "/opt/chart"

	// FetchDir is the untar target of remote charts that need a commit message.
	FetchDir = "/tmp/fetched-chart"

	// PackageDir is the destination of helm package.
	PackageDir = "/tmp"

	// GoogleCredentialsPath is where the service account blob is written.
	GoogleCredentialsPath = "/tmp/google-creds.json"

	// DryRunToken replaces every exchanged token in dry-run mode.
	DryRunToken = "dry-run-token" // #nosec G101 -- placeholder, not a credential

	// DryRunPackage replaces the packaged chart file name in dry-run mode.
	DryRunPackage = "dryrun-0.0.1.tgz"
)
