package env

// Fixed variable names understood by the script builder.
const (
	Action       = "ACTION"
	KubeContext  = "KUBE_CONTEXT"
	ChartName    = "CHART_NAME"
	ChartRef     = "CHART_REF"
	ChartRepoURL = "CHART_REPO_URL"
	ChartVersion = "CHART_VERSION"
	ChartSubdir  = "CHART_SUBDIR"
	ChartJSON    = "CHART_JSON"
	ChartJSONGz  = "CHART_JSON_GZIP"
	ReleaseName  = "RELEASE_NAME"
	Namespace    = "NAMESPACE"
	TillerNS     = "TILLER_NAMESPACE"
	HelmVersion  = "HELM_VERSION"

	DryRun        = "DRY_RUN"
	RecreatePods  = "RECREATE_PODS"
	Wait          = "WAIT"
	Timeout       = "TIMEOUT"
	CmdPS         = "CMD_PS"
	CommitMessage = "COMMIT_MESSAGE"

	RepoUsername           = "HELMREPO_USERNAME"
	RepoPassword           = "HELMREPO_PASSWORD" // #nosec G101 -- variable name, not a credential
	CredentialsInArguments = "CREDENTIALS_IN_ARGUMENTS"
	SkipRepoValidation     = "SKIP_REPO_CREDENTIALS_VALIDATION"
	RepositoryContext      = "HELM_REPOSITORY_CONTEXT"

	HelmRepoToken = "HELM_REPO_TOKEN" // #nosec G101 -- variable name, not a credential
	ClientID      = "CLIENT_ID"
	ClientSecret  = "CLIENT_SECRET" // #nosec G101 -- variable name, not a credential
	Tenant        = "TENANT"

	GoogleCredentialsJSON = "GOOGLE_APPLICATION_CREDENTIALS_JSON"

	APIKey   = "CF_API_KEY"
	APIURL   = "CF_URL"
	BuildURL = "CF_BUILD_URL"
	HostIP   = "CF_HOST_IP"
)

// Prefix rules. Matching is case-insensitive.
const (
	PrefixCustomFile  = "CUSTOMFILE_"
	PrefixValuesFile  = "VALUESFILE_"
	PrefixCustom      = "CUSTOM_"
	PrefixValue       = "VALUE_"
	PrefixValueString = "VALUESTRING_"
	PrefixSetFile     = "SETFILE_"
	PrefixRepoContext = "CF_CTX_"
	SuffixRepoURL     = "_URL"
)

// VarInfo documents one recognized variable or prefix rule.
type VarInfo struct {
	Category    string `json:"category" yaml:"category"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Dynamic     bool   `json:"dynamic,omitempty" yaml:"dynamic,omitempty"`
}

// Catalog returns every variable the builder reads, in display order.
func Catalog() []VarInfo {
	return []VarInfo{
		{Category: "Action", Name: Action, Description: "One of install, push, promotion, auth (default install, case-insensitive)."},
		{Category: "Action", Name: HelmVersion, Description: "Helm CLI generation. Values starting with 2 select Helm 2 syntax, anything else Helm 3 (default 3)."},
		{Category: "Action", Name: DryRun, Description: "Print every command with echo instead of running it."},

		{Category: "Cluster", Name: KubeContext, Description: "Kubernetes context to switch to. Required for install and promotion."},
		{Category: "Cluster", Name: Namespace, Description: "Target namespace of the release."},
		{Category: "Cluster", Name: TillerNS, Description: "Tiller namespace (Helm 2 only)."},
		{Category: "Cluster", Name: GoogleCredentialsJSON, Description: "Service account JSON written to /tmp/google-creds.json and exported as GOOGLE_APPLICATION_CREDENTIALS."},

		{Category: "Chart", Name: ChartName, Description: "Chart name. Used as chart reference when CHART_REF is unset."},
		{Category: "Chart", Name: ChartRef, Description: "Chart reference as the Helm CLI expects it."},
		{Category: "Chart", Name: ChartVersion, Description: "Chart version."},
		{Category: "Chart", Name: ChartSubdir, Description: "Sub path of the repository URL the package is uploaded to (artifact repositories)."},
		{Category: "Chart", Name: ChartJSON, Description: "Inline chart: JSON array of {name, data} file records, materialized to /opt/chart."},
		{Category: "Chart", Name: ChartJSONGz, Description: "CHART_JSON is base64 encoded gzip."},
		{Category: "Chart", Name: ReleaseName, Description: "Release name. Required for install and promotion."},

		{Category: "Release", Name: RecreatePods, Description: "Add --recreate-pods to the upgrade."},
		{Category: "Release", Name: Wait, Description: "Add --wait to the upgrade."},
		{Category: "Release", Name: Timeout, Description: "Add --timeout to the upgrade (seconds or Helm 3 duration)."},
		{Category: "Release", Name: CmdPS, Description: "Free form fragment appended to the upgrade command."},
		{Category: "Release", Name: CommitMessage, Description: "Message recorded as commit_message: in the chart NOTES.txt."},

		{Category: "Values", Name: PrefixCustomFile + "<NAME>", Dynamic: true, Description: "Values file passed with --values. Alias: " + PrefixValuesFile + "<NAME>."},
		{Category: "Values", Name: PrefixCustom + "<KEY>", Dynamic: true, Description: "--set override. '_' becomes '.', '__' becomes a literal '_'. Alias: " + PrefixValue + "<KEY>."},
		{Category: "Values", Name: PrefixValueString + "<KEY>", Dynamic: true, Description: "--set-string override with the same key rules."},
		{Category: "Values", Name: PrefixSetFile + "<KEY>", Dynamic: true, Description: "--set-file override with the same key rules."},

		{Category: "Repository", Name: ChartRepoURL, Description: "Chart repository URL (http, https, cm, s3, gs, oci, az, azsp, azmi)."},
		{Category: "Repository", Name: PrefixRepoContext + "<NAME>" + SuffixRepoURL, Dynamic: true, Description: "Named repository registered with helm repo add. The name is lower-cased, '_' becomes '-'."},
		{Category: "Repository", Name: RepoUsername, Description: "Repository username."},
		{Category: "Repository", Name: RepoPassword, Description: "Repository password."},
		{Category: "Repository", Name: CredentialsInArguments, Description: "Pass credentials as --username/--password instead of embedding them in the URL."},
		{Category: "Repository", Name: SkipRepoValidation, Description: "Do not probe http(s) push targets; assume an artifact repository."},
		{Category: "Repository", Name: RepositoryContext, Description: "Control plane repository context supplying the repository URL and service principal variables."},

		{Category: "Azure", Name: HelmRepoToken, Description: "Pre-supplied repository token for azsp:// and azmi:// URLs."},
		{Category: "Azure", Name: ClientID, Description: "Service principal client id (azsp://)."},
		{Category: "Azure", Name: ClientSecret, Description: "Service principal client secret (azsp://)."},
		{Category: "Azure", Name: Tenant, Description: "Service principal tenant (azsp://)."},

		{Category: "Control plane", Name: APIKey, Description: "API key sent as Authorization header on token and context requests."},
		{Category: "Control plane", Name: APIURL, Description: "Explicit control plane base URL."},
		{Category: "Control plane", Name: BuildURL, Description: "Build URL used to derive the control plane base URL."},
		{Category: "Control plane", Name: HostIP, Description: "Control plane host for local installations."},
	}
}
