package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectBestServer(t *testing.T) {
	t.Parallel()

	tc := []struct {
		name    string
		servers []Server
		want    string
		wantOK  bool
	}{
		{
			name:    "empty input",
			servers: nil,
		},
		{
			name:    "single candidate",
			servers: []Server{{QualifiedName: "a"}},
			want:    "a",
			wantOK:  true,
		},
		{
			name: "remote beats verified",
			servers: []Server{
				{QualifiedName: "verified", IsVerified: true, UseCount: 10000},
				{QualifiedName: "remote", IsRemote: true},
			},
			want:   "remote",
			wantOK: true,
		},
		{
			name: "verified breaks remote tie",
			servers: []Server{
				{QualifiedName: "plain", IsRemote: true, UseCount: 10000},
				{QualifiedName: "verified", IsRemote: true, IsVerified: true},
			},
			want:   "verified",
			wantOK: true,
		},
		{
			name: "security scan breaks verified tie",
			servers: []Server{
				{QualifiedName: "unscanned", IsVerified: true, UseCount: 10000},
				{QualifiedName: "scanned", IsVerified: true, Security: &SecurityScan{Passed: true}},
			},
			want:   "scanned",
			wantOK: true,
		},
		{
			name: "failed scan counts as unscanned",
			servers: []Server{
				{QualifiedName: "failed", Security: &SecurityScan{Passed: false}, UseCount: 5},
				{QualifiedName: "popular", UseCount: 10},
			},
			want:   "popular",
			wantOK: true,
		},
		{
			name: "use count is the final tie-break",
			servers: []Server{
				{QualifiedName: "quiet", UseCount: 10},
				{QualifiedName: "busy", UseCount: 500},
			},
			want:   "busy",
			wantOK: true,
		},
		{
			name: "full tie keeps first candidate",
			servers: []Server{
				{QualifiedName: "first", UseCount: 5},
				{QualifiedName: "second", UseCount: 5},
			},
			want:   "first",
			wantOK: true,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			best, ok := SelectBestServer(tt.servers)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, best.QualifiedName)
		})
	}
}

func TestSelectBestServer_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	servers := []Server{
		{QualifiedName: "b", UseCount: 1},
		{QualifiedName: "a", UseCount: 2},
	}

	_, ok := SelectBestServer(servers)
	require.True(t, ok)
	require.Equal(t, "b", servers[0].QualifiedName)
	require.Equal(t, "a", servers[1].QualifiedName)
}
