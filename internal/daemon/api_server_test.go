package daemon

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/scoutmcp/scout/internal/errors"
	"github.com/scoutmcp/scout/internal/recommend"
	"github.com/scoutmcp/scout/internal/tracker"
)

// stubRecommender satisfies api.Recommender.
type stubRecommender struct{}

func (stubRecommender) Recommend(_ context.Context, query string) recommend.Result {
	return recommend.Result{Query: query}
}

// stubStore satisfies api.InstalledStore.
type stubStore struct{}

func (stubStore) List() []tracker.InstalledServer { return nil }

func (stubStore) Get(string) (tracker.InstalledServer, bool) {
	return tracker.InstalledServer{}, false
}

func (stubStore) RecordUsage(string) error { return nil }

func (stubStore) Stats() tracker.Stats { return tracker.Stats{} }

func TestNewAPIServer(t *testing.T) {
	t.Parallel()

	logger := hclog.NewNullLogger()

	tc := []struct {
		name    string
		opts    []Option
		wantErr string
	}{
		{
			name: "defaults",
		},
		{
			name: "custom address",
			opts: []Option{WithAddr("127.0.0.1:9999")},
		},
		{
			name:    "empty address",
			opts:    []Option{WithAddr("")},
			wantErr: "address cannot be empty",
		},
		{
			name:    "non-positive shutdown timeout",
			opts:    []Option{WithShutdownTimeout(0)},
			wantErr: "shutdown timeout must be positive",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv, err := NewAPIServer(logger, stubRecommender{}, stubStore{}, tt.opts...)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, srv)
		})
	}
}

func TestNewAPIServer_RequiredDependencies(t *testing.T) {
	t.Parallel()

	logger := hclog.NewNullLogger()

	_, err := NewAPIServer(logger, nil, stubStore{})
	require.ErrorContains(t, err, "recommendation engine is required")

	_, err = NewAPIServer(logger, stubRecommender{}, nil)
	require.ErrorContains(t, err, "installed-server store is required")
}

func TestMapError(t *testing.T) {
	t.Parallel()

	logger := hclog.NewNullLogger()

	tc := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "bad request",
			err:        fmt.Errorf("%w: empty name", errors.ErrBadRequest),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "server not found",
			err:        fmt.Errorf("%w: owner/ghost", errors.ErrServerNotFound),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "no recommendations",
			err:        errors.ErrNoRecommendations,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "indexer failure",
			err:        fmt.Errorf("%w: exit status 2", errors.ErrIndexerFailed),
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "unknown error",
			err:        stdErrors.New("boom"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			statusErr := mapError(logger, tt.err)
			require.Equal(t, tt.wantStatus, statusErr.GetStatus())
		})
	}
}

func TestAPIServer_StartStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv, err := NewAPIServer(
		hclog.NewNullLogger(),
		stubRecommender{},
		stubStore{},
		WithAddr("localhost:0"),
		WithShutdownTimeout(time.Second),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())

	done := make(chan error, 1)
	go func() {
		done <- srv.Start(ctx)
	}()

	// Give the listener a moment, then cancel; Start must return promptly.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down after context cancellation")
	}
}
