// Package buildinfo holds version details stamped in at link time:
//
//	go build -ldflags "-X github.com/matzehuels/racktower/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/racktower/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/racktower/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build stamp as reported by the CLI and the health endpoint.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the current build stamp with the commit shortened to 7
// characters.
func Get() Info {
	commit := Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return Info{Version: Version, Commit: commit, Date: Date}
}

func (i Info) String() string {
	return fmt.Sprintf("racktower %s (%s, %s)", i.Version, i.Commit, i.Date)
}

// Template returns the cobra --version template.
func Template() string {
	return Get().String() + "\n"
}
