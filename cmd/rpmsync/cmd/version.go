package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

// Build information, set with -ldflags "-X github.com/oneconcern/rpmsync/cmd/rpmsync/cmd.Version=..."
var (
	Version   string
	BuildDate string
	GitCommit string
	GitState  string
)

const devVersion = "dev"

// buildInfo describes the rpmsync binary.
//
// Linker flags take precedence. Otherwise, the VCS settings recorded by the
// go tool are used when present.
type buildInfo struct {
	Version   string `yaml:"version"`
	Commit    string `yaml:"commit,omitempty"`
	Modified  string `yaml:"tree,omitempty"`
	BuildDate string `yaml:"built,omitempty"`
	GoVersion string `yaml:"go"`
	Platform  string `yaml:"platform"`
	Store     string `yaml:"store"`
}

func currentBuild(read func() (*debug.BuildInfo, bool)) buildInfo {
	b := buildInfo{
		Version:   Version,
		Commit:    GitCommit,
		Modified:  GitState,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Store:     "badger",
	}
	if settings != nil && settings.PostgresDSN != "" {
		b.Store = "postgres"
	}

	if info, ok := read(); ok {
		for _, s := range info.Settings {
			switch {
			case s.Key == "vcs.revision" && b.Commit == "":
				b.Commit = s.Value
			case s.Key == "vcs.time" && b.BuildDate == "":
				b.BuildDate = s.Value
			case s.Key == "vcs.modified" && b.Modified == "":
				if s.Value == "true" {
					b.Modified = "dirty"
				} else {
					b.Modified = "clean"
				}
			}
		}
		if b.Version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			b.Version = info.Main.Version
		}
	}
	if b.Version == "" {
		b.Version = devVersion
	}
	return b
}

func (b buildInfo) text() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Version: %s\n", b.Version)
	if b.Commit != "" {
		fmt.Fprintf(&sb, "Commit: %s (%s)\n", b.Commit, orUnknown(b.Modified))
	}
	if b.BuildDate != "" {
		fmt.Fprintf(&sb, "Built: %s\n", b.BuildDate)
	}
	fmt.Fprintf(&sb, "Go: %s %s\n", b.GoVersion, b.Platform)
	fmt.Fprintf(&sb, "Store: %s\n", b.Store)
	return sb.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the rpmsync build information",
	Long: `Print the version of rpmsync, the commit it was built from and the store
backend selected by the current settings.`,
	Example: `% rpmsync version
Version: v0.3.0
Commit: 3f5f724cb5b1 (clean)
Go: go1.24.2 linux/amd64
Store: badger`,
	Run: func(cmd *cobra.Command, args []string) {
		b := currentBuild(debug.ReadBuildInfo)
		if !rpmsyncFlags.version.yaml {
			logStdOut("%s", b.text())
			return
		}
		out, err := yaml.Marshal(b)
		if err != nil {
			wrapFatalln("render build information", err)
			return
		}
		logStdOut("%s", out)
	},
}

func init() {
	addVersionYAMLFlag(versionCmd)
	rootCmd.AddCommand(versionCmd)
}
