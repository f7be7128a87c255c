package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/xcpkg/internal/core/domain"
)

func TestParsePlatform(t *testing.T) {
	p, err := domain.ParsePlatform("iPhoneOS-12.0-arm64")
	require.NoError(t, err)
	assert.Equal(t, domain.Platform{Name: "iPhoneOS", Version: "12.0", Arch: "arm64"}, p)
	assert.Equal(t, "iPhoneOS-12.0-arm64", p.String())

	for _, spec := range []string{"", "iPhoneOS-12.0", "iPhoneOS--arm64", "Android-14-arm64", "MacOSX-1-2-3"} {
		_, err := domain.ParsePlatform(spec)
		assert.ErrorIs(t, err, domain.ErrInvalidPlatform, spec)
		assert.Equal(t, domain.KindArgument, domain.KindOf(err), spec)
	}
}

func TestPlatform_Traits(t *testing.T) {
	tests := []struct {
		spec      string
		apple     bool
		simulator bool
		sdk       string
		minFlag   string
		cmake     string
		goos      string
		goarch    string
		rust      string
		clang     string
	}{
		{
			spec: "MacOSX-11.0-arm64", apple: true, sdk: "macosx", minFlag: "-mmacosx-version-min=11.0",
			cmake: "Darwin", goos: "darwin", goarch: "arm64", rust: "aarch64-apple-darwin", clang: "arm64-apple-macos11.0",
		},
		{
			spec: "iPhoneOS-12.0-arm64", apple: true, sdk: "iphoneos", minFlag: "-miphoneos-version-min=12.0",
			cmake: "iOS", goos: "ios", goarch: "arm64", rust: "aarch64-apple-ios", clang: "arm64-apple-ios12.0",
		},
		{
			spec: "iPhoneSimulator-14.0-arm64", apple: true, simulator: true, sdk: "iphonesimulator",
			minFlag: "-mios-simulator-version-min=14.0", cmake: "iOS", goos: "ios", goarch: "arm64",
			rust: "aarch64-apple-ios-sim", clang: "arm64-apple-ios14.0-simulator",
		},
		{
			spec: "iPhoneSimulator-14.0-x86_64", apple: true, simulator: true, sdk: "iphonesimulator",
			minFlag: "-mios-simulator-version-min=14.0", cmake: "iOS", goos: "ios", goarch: "amd64",
			rust: "x86_64-apple-ios", clang: "x86_64-apple-ios14.0-simulator",
		},
		{
			spec: "AppleTVOS-15.0-arm64", apple: true, sdk: "appletvos", minFlag: "-mtvos-version-min=15.0",
			cmake: "tvOS", goos: "ios", goarch: "arm64", rust: "aarch64-apple-tvos", clang: "arm64-apple-tvos15.0",
		},
		{
			spec: "Linux-6-x86_64", cmake: "Linux", goos: "linux", goarch: "amd64",
			rust: "x86_64-unknown-linux-gnu", clang: "x86_64-unknown-linux-gnu",
		},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			p, err := domain.ParsePlatform(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.apple, p.IsApple())
			assert.Equal(t, tt.simulator, p.IsSimulator())
			assert.Equal(t, tt.sdk, p.SDKName())
			assert.Equal(t, tt.minFlag, p.MinVersionFlag())
			assert.Equal(t, tt.cmake, p.CMakeSystemName())
			assert.Equal(t, tt.goos, p.GOOS())
			assert.Equal(t, tt.goarch, p.GOARCH())
			assert.Equal(t, tt.rust, p.RustTarget())
			assert.Equal(t, tt.clang, p.ClangTarget())
		})
	}
}

func TestArchNames(t *testing.T) {
	assert.Equal(t, "386", domain.GoArch("i686"))
	assert.Equal(t, "arm64", domain.GoArch("aarch64"))
	assert.Equal(t, "x86_64", domain.RustArch("amd64"))
	assert.Equal(t, "armv7", domain.RustArch("armv7"))
	assert.Equal(t, "arm64", domain.NormalizeArch("aarch64"))
	assert.Equal(t, "x86_64", domain.NormalizeArch("amd64"))
}

func TestSystemInfo_NativePlatform(t *testing.T) {
	linux := domain.SystemInfo{OS: "linux", Arch: "aarch64", OSVersion: "6.1.0-13-amd64"}
	assert.Equal(t, "Linux-6.1.0-arm64", linux.NativePlatform().String())

	mac := domain.SystemInfo{OS: "darwin", Arch: "x86_64", OSVersion: "23.1.0"}
	assert.Equal(t, "MacOSX-23.1.0-x86_64", mac.NativePlatform().String())

	assert.Equal(t, "0", domain.SystemInfo{OS: "linux", Arch: "x86_64"}.NativePlatform().Version)
}

func TestLayout(t *testing.T) {
	l := domain.NewLayout("/h")
	p := domain.Platform{Name: "iPhoneOS", Version: "12.0", Arch: "arm64"}

	assert.Equal(t, "/h/installed/iPhoneOS-12.0-arm64", l.InstalledRoot(p))
	assert.Equal(t, "/h/installed/iPhoneOS-12.0-arm64/zlib", l.InstalledLink(p, "zlib"))
	assert.Equal(t, "/h/native/m4", l.NativeLink("m4"))
	assert.Equal(t, "/h/run/abc", l.SessionDir("abc"))
	assert.Equal(t, "/h/core/xcpkg-runner.sh", l.RunnerScript())
	assert.Equal(t, "/h/installed/x/.xcpkg", domain.MetaDir("/h/installed/x"))
}
