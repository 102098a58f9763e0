// Package buildinfo holds build-time metadata injected through -ldflags.
package buildinfo

import "runtime/debug"

// UnknownValue is reported for metadata the build did not set.
const UnknownValue = "unknown"

// Context contains build-time metadata that is not user-configurable.
type Context struct {
	// Version holds the Git version tag from build
	Version string

	// BuildDate is the time when the binary was built
	BuildDate string

	// Commit is the VCS revision, read from the binary when not injected
	Commit string
}

// NewContext returns a Context, filling Commit from the embedded VCS info when empty.
func NewContext(version, buildDate, commit string) *Context {
	if commit == "" {
		commit = vcsRevision()
	}
	return &Context{Version: version, BuildDate: buildDate, Commit: commit}
}

// GetVersion returns the version or UnknownValue.
func (c *Context) GetVersion() string {
	if c == nil || c.Version == "" {
		return UnknownValue
	}
	return c.Version
}

// GetBuildDate returns the build date or UnknownValue.
func (c *Context) GetBuildDate() string {
	if c == nil || c.BuildDate == "" {
		return UnknownValue
	}
	return c.BuildDate
}

// GetCommit returns the short commit hash or UnknownValue.
func (c *Context) GetCommit() string {
	if c == nil || c.Commit == "" {
		return UnknownValue
	}
	if len(c.Commit) > 12 {
		return c.Commit[:12]
	}
	return c.Commit
}

// UserAgent appends the version to product, e.g. "astral-forecast/1.4.0".
func (c *Context) UserAgent(product string) string {
	v := c.GetVersion()
	if v == UnknownValue {
		return product
	}
	return product + "/" + v
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}
