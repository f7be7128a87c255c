package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/xcpkg/internal/core/domain"
)

func TestReceipt_Render(t *testing.T) {
	r := domain.Receipt{
		Formula:   "src_url: https://zlib.net/zlib-1.3.1.tar.gz\ninstall: cmakew\n\n\n",
		Target:    domain.Platform{Name: "iPhoneOS", Version: "12.0", Arch: "arm64"},
		Builder:   "xcpkg 1.0.0",
		Timestamp: time.Unix(1700000000, 0),
		Build: domain.SystemInfo{
			OS: "linux", Arch: "x86_64", OSVersion: "6.1.0", NCPU: 8, UID: 1000, GID: 1001,
		},
		Fingerprint: "5f0e",
	}

	want := `src_url: https://zlib.net/zlib-1.3.1.tar.gz
install: cmakew

target: iPhoneOS-12.0-arm64
builder: xcpkg 1.0.0
timestamp: 1700000000
build-on:
  arch: x86_64
  os: linux
  os-version: 6.1.0
  ncpu: 8
  uid: 1000
  gid: 1001
  fingerprint: 5f0e
`
	assert.Equal(t, want, string(r.Render()))

	r.Fingerprint = ""
	assert.NotContains(t, string(r.Render()), "fingerprint")
}
