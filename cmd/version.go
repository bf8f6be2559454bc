package cmd

import (
	"fmt"
	"runtime"
)

var (
	version   = "dev"
	commit    = ""
	buildDate = ""
)

func init() {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionText())
}

func versionText() string {
	return fmt.Sprintf("Version:    %s\n", version) +
		fmt.Sprintf("Commit:     %s\n", emptyAsNA(commit)) +
		fmt.Sprintf("Build Date: %s\n", emptyAsNA(buildDate)) +
		fmt.Sprintf("Go Version: %s\n", runtime.Version()) +
		fmt.Sprintf("OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

func emptyAsNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}
