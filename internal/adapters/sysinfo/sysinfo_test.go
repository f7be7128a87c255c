package sysinfo_test

import (
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/xcpkg/internal/adapters/sysinfo"
)

func TestProvider_Snapshot(t *testing.T) {
	p := sysinfo.NewProvider()

	info, err := p.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, runtime.GOOS, info.OS)
	assert.NotEmpty(t, info.Arch)
	assert.NotEmpty(t, info.OSVersion)
	assert.Equal(t, runtime.NumCPU(), info.NCPU)
	assert.Equal(t, os.Geteuid(), info.UID)

	again, err := p.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, info, again)
}
