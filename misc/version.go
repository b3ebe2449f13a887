// Package misc keeps build time information, values are set by linker:
//
//	go build -ldflags "-X cssfmt/misc.version=1.2.3 -X cssfmt/misc.gitHash=abcdef"
package misc

import (
	"os"
	"path/filepath"
	"strings"
)

var (
	appName = ""
	version = "dev"
	gitHash = "unknown"
)

// GetAppName returns program name without extension.
func GetAppName() string {
	if len(appName) == 0 {
		appName = strings.TrimSuffix(filepath.Base(os.Args[0]), filepath.Ext(os.Args[0]))
	}
	return appName
}

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns commit the program was built from.
func GetGitHash() string {
	return gitHash
}
