// Package helm renders Helm CLI command lines.
//
// Helm 2 and Helm 3 differ in a handful of places: the --force flag of
// upgrade, tiller, the pull subcommand, timeout syntax and the ChartMuseum
// plugin name. Those differences live behind CommandBuilder; everything else
// (flag order, value quoting, the commit message block) is shared.
//
//	b := helm.New(config.Helm3)
//	line := helm.InstallCommand(b, helm.Upgrade{Release: "web", Chart: "stable/tomcat"})
//
// Flag fragments end with a single space, so a rendered upgrade command keeps
// a trailing space unless the extra fragment removes it.
package helm
