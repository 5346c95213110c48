package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	tests := []struct {
		name     string
		info     Info
		expected string
	}{
		{
			name:     "tagged",
			info:     Info{Version: "v1.2.0", CommitHash: "0123456789abcdef", BuildTime: "2026-01-02"},
			expected: "dtdl2md v1.2.0 (commit 0123456, built 2026-01-02)",
		},
		{
			name:     "dev",
			info:     Info{Version: "dev", CommitHash: "dev", BuildTime: "unknown"},
			expected: "dtdl2md dev (commit dev, built unknown)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.info.String())
		})
	}
}

func TestGet(t *testing.T) {
	info := Get()
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
	assert.Nil(t, Info{Version: "dev"}.Semver())
}
