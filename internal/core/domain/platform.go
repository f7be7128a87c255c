package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

type platformTraits struct {
	sdk     string
	minFlag string
	goos    string
	rustOS  string
	cmake   string
	apple   bool
	sim     bool
}

var platformCatalog = map[string]platformTraits{
	"MacOSX":           {sdk: "macosx", minFlag: "-mmacosx-version-min=", goos: "darwin", rustOS: "apple-darwin", cmake: "Darwin", apple: true},
	"iPhoneOS":         {sdk: "iphoneos", minFlag: "-miphoneos-version-min=", goos: "ios", rustOS: "apple-ios", cmake: "iOS", apple: true},
	"iPhoneSimulator":  {sdk: "iphonesimulator", minFlag: "-mios-simulator-version-min=", goos: "ios", rustOS: "apple-ios", cmake: "iOS", apple: true, sim: true},
	"AppleTVOS":        {sdk: "appletvos", minFlag: "-mtvos-version-min=", goos: "ios", rustOS: "apple-tvos", cmake: "tvOS", apple: true},
	"AppleTVSimulator": {sdk: "appletvsimulator", minFlag: "-mtvos-simulator-version-min=", goos: "ios", rustOS: "apple-tvos", cmake: "tvOS", apple: true, sim: true},
	"WatchOS":          {sdk: "watchos", minFlag: "-mwatchos-version-min=", goos: "ios", rustOS: "apple-watchos", cmake: "watchOS", apple: true},
	"WatchSimulator":   {sdk: "watchsimulator", minFlag: "-mwatchos-simulator-version-min=", goos: "ios", rustOS: "apple-watchos", cmake: "watchOS", apple: true, sim: true},
	"XROS":             {sdk: "xros", minFlag: "-mxros-version-min=", goos: "ios", rustOS: "apple-visionos", cmake: "visionOS", apple: true},
	"XRSimulator":      {sdk: "xrsimulator", minFlag: "-mxros-simulator-version-min=", goos: "ios", rustOS: "apple-visionos", cmake: "visionOS", apple: true, sim: true},
	"Linux":            {goos: "linux", rustOS: "unknown-linux-gnu", cmake: "Linux"},
}

// Platform identifies a build destination: <os>-<version>-<arch>.
type Platform struct {
	Name    string
	Version string
	Arch    string
}

// ParsePlatform parses a target platform specification such as iPhoneOS-12.0-arm64.
func ParsePlatform(spec string) (Platform, error) {
	parts := strings.Split(spec, "-")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Platform{}, zerr.With(zerr.Wrap(ErrInvalidPlatform, "malformed target"), "target", spec)
	}
	if _, ok := platformCatalog[parts[0]]; !ok {
		return Platform{}, zerr.With(zerr.Wrap(ErrInvalidPlatform, "unknown platform name"), "target", spec)
	}
	return Platform{Name: parts[0], Version: parts[1], Arch: parts[2]}, nil
}

// String returns the canonical <os>-<version>-<arch> form.
func (p Platform) String() string {
	return p.Name + "-" + p.Version + "-" + p.Arch
}

// IsZero reports whether the platform is unset.
func (p Platform) IsZero() bool {
	return p.Name == ""
}

// IsApple reports whether the platform is built against an Xcode SDK.
func (p Platform) IsApple() bool {
	return platformCatalog[p.Name].apple
}

// IsSimulator reports whether the platform is a simulator.
func (p Platform) IsSimulator() bool {
	return platformCatalog[p.Name].sim
}

// SDKName returns the lowercased SDK name used with xcrun, or "" when no SDK applies.
func (p Platform) SDKName() string {
	return platformCatalog[p.Name].sdk
}

// MinVersionFlag returns the compiler flag selecting the minimum OS version.
func (p Platform) MinVersionFlag() string {
	t := platformCatalog[p.Name]
	if t.minFlag == "" {
		return ""
	}
	return t.minFlag + p.Version
}

// CMakeSystemName returns the CMAKE_SYSTEM_NAME of the platform.
func (p Platform) CMakeSystemName() string {
	return platformCatalog[p.Name].cmake
}

// GOOS returns the Go operating system name for the platform.
func (p Platform) GOOS() string {
	return platformCatalog[p.Name].goos
}

// GOARCH returns the Go architecture name for the platform.
func (p Platform) GOARCH() string {
	return GoArch(p.Arch)
}

// RustTarget returns the Rust target triple for the platform.
func (p Platform) RustTarget() string {
	t := platformCatalog[p.Name]
	triple := RustArch(p.Arch) + "-" + t.rustOS
	if t.sim && p.Arch != "x86_64" {
		triple += "-sim"
	}
	return triple
}

// ClangTarget returns the LLVM target triple for the platform.
func (p Platform) ClangTarget() string {
	t := platformCatalog[p.Name]
	if !t.apple {
		return RustArch(p.Arch) + "-" + t.rustOS
	}
	osName := strings.TrimPrefix(t.rustOS, "apple-")
	if osName == "darwin" {
		osName = "macos"
	}
	triple := p.Arch + "-apple-" + osName + p.Version
	if t.sim {
		triple += "-simulator"
	}
	return triple
}

// GoArch translates an architecture name to its Go spelling.
func GoArch(arch string) string {
	switch arch {
	case "x86_64":
		return "amd64"
	case "aarch64":
		return "arm64"
	case "i386", "i686":
		return "386"
	}
	return arch
}

// RustArch translates an architecture name to its Rust/LLVM spelling.
func RustArch(arch string) string {
	switch arch {
	case "arm64":
		return "aarch64"
	case "amd64":
		return "x86_64"
	}
	return arch
}

// NormalizeArch maps kernel architecture names to the names used in platform specs.
func NormalizeArch(arch string) string {
	switch arch {
	case "aarch64":
		return "arm64"
	case "amd64":
		return "x86_64"
	}
	return arch
}
