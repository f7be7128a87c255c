package domain

import (
	"fmt"
	"strings"
	"time"
)

// Receipt records what was installed and how it was built.
type Receipt struct {
	Formula     string
	Target      Platform
	Builder     string
	Timestamp   time.Time
	Build       SystemInfo
	Fingerprint string
}

// Render returns the receipt file content: the formula text followed by the provenance block.
func (r Receipt) Render() []byte {
	var b strings.Builder
	b.WriteString(strings.TrimRight(r.Formula, "\n"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "target: %s\n", r.Target)
	fmt.Fprintf(&b, "builder: %s\n", r.Builder)
	fmt.Fprintf(&b, "timestamp: %d\n", r.Timestamp.Unix())
	b.WriteString("build-on:\n")
	fmt.Fprintf(&b, "  arch: %s\n", r.Build.Arch)
	fmt.Fprintf(&b, "  os: %s\n", r.Build.OS)
	fmt.Fprintf(&b, "  os-version: %s\n", r.Build.OSVersion)
	fmt.Fprintf(&b, "  ncpu: %d\n", r.Build.NCPU)
	fmt.Fprintf(&b, "  uid: %d\n", r.Build.UID)
	fmt.Fprintf(&b, "  gid: %d\n", r.Build.GID)
	if r.Fingerprint != "" {
		fmt.Fprintf(&b, "  fingerprint: %s\n", r.Fingerprint)
	}
	return []byte(b.String())
}

// SystemInfo is a snapshot of the build machine.
type SystemInfo struct {
	OS        string
	Arch      string
	OSVersion string
	NCPU      int
	UID       int
	GID       int
}

// NativePlatform returns the platform describing the build machine itself.
func (s SystemInfo) NativePlatform() Platform {
	name := "Linux"
	if s.OS == "darwin" {
		name = "MacOSX"
	}
	version, _, _ := strings.Cut(s.OSVersion, "-")
	if version == "" {
		version = "0"
	}
	return Platform{Name: name, Version: version, Arch: NormalizeArch(s.Arch)}
}
