package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Profile selects compiler optimisation and debug settings.
type Profile string

const (
	// ProfileRelease optimises for size and omits debug info.
	ProfileRelease Profile = "release"
	// ProfileDebug disables optimisation and keeps debug info.
	ProfileDebug Profile = "debug"
)

// ParseProfile validates a profile name.
func ParseProfile(s string) (Profile, error) {
	switch Profile(strings.ToLower(s)) {
	case ProfileRelease, "":
		return ProfileRelease, nil
	case ProfileDebug:
		return ProfileDebug, nil
	}
	return "", zerr.With(zerr.Wrap(ErrArgument, "unknown profile, expected debug or release"), "profile", s)
}

// CMakeBuildType returns the CMAKE_BUILD_TYPE value of the profile.
func (p Profile) CMakeBuildType() string {
	if p == ProfileDebug {
		return "Debug"
	}
	return "Release"
}

// Verbosity controls how much is logged.
type Verbosity int

const (
	// VerbosityNormal logs progress and warnings.
	VerbosityNormal Verbosity = iota
	// VerbosityQuiet logs warnings and errors only.
	VerbosityQuiet
	// VerbosityDebug also logs subprocess output and diagnostics.
	VerbosityDebug
)

// InstallOptions are the user-selected settings of an install invocation.
type InstallOptions struct {
	Target                Platform
	Force                 bool
	DryRun                bool
	Jobs                  int
	Profile               Profile
	Static                bool
	KeepSession           bool
	ExportCompileCommands bool
	Verbosity             Verbosity
}

// BuildRequest is everything the pipeline needs to build one package.
type BuildRequest struct {
	Formula *Formula
	// Closure is the recursive dependent closure of the package.
	Closure []string
	Set     *PackageSet
	Options InstallOptions
	// SessionDir is the scratch directory of the invocation.
	SessionDir string
}
