// Package version reports build information stamped in by the linker.
package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Populated with -ldflags "-X github.com/grovetools/surround/version.Version=..." at build time.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// Info holds the build information of a binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// GetInfo returns the build information of the running binary.
func GetInfo() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String renders the information as aligned "Key: value" lines.
func (i Info) String() string {
	rows := [][2]string{
		{"Version", i.Version},
		{"Commit", i.Commit},
		{"Build Date", i.BuildDate},
		{"Go Version", i.GoVersion},
		{"Platform", i.Platform},
	}
	var b strings.Builder
	for n, row := range rows {
		if n > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%-11s %s", row[0]+":", row[1])
	}
	return b.String()
}
