package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLatest(t *testing.T) {
	tests := []struct {
		name     string
		versions []string
		want     string
	}{
		{
			name:     "empty",
			versions: nil,
			want:     "",
		},
		{
			name:     "single",
			versions: []string{"1.0.0"},
			want:     "1.0.0",
		},
		{
			name:     "semantic order beats lexicographic",
			versions: []string{"1.2.0", "1.10.0", "1.9.0"},
			want:     "1.10.0",
		},
		{
			name:     "v prefix normalized",
			versions: []string{"v1.2.0", "1.10.0"},
			want:     "1.10.0",
		},
		{
			name:     "prerelease sorts before release",
			versions: []string{"2.0.0-rc.1", "2.0.0"},
			want:     "2.0.0",
		},
		{
			name:     "non-semver falls back to string comparison",
			versions: []string{"build-a", "build-c", "build-b"},
			want:     "build-c",
		},
		{
			name:     "mixed semver and non-semver",
			versions: []string{"1.2.0", "nightly"},
			want:     "nightly",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Latest(tt.versions))
		})
	}
}
