package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/scoutmcp/scout/internal/errors"
	"github.com/scoutmcp/scout/internal/tracker"
)

// mockStore implements InstalledStore for testing.
type mockStore struct {
	servers []tracker.InstalledServer
	usage   []string
}

func (m *mockStore) List() []tracker.InstalledServer {
	return m.servers
}

func (m *mockStore) Get(qualifiedName string) (tracker.InstalledServer, bool) {
	for _, s := range m.servers {
		if s.QualifiedName == qualifiedName {
			return s, true
		}
	}
	return tracker.InstalledServer{}, false
}

func (m *mockStore) RecordUsage(qualifiedName string) error {
	if _, ok := m.Get(qualifiedName); !ok {
		return fmt.Errorf("%w: %s", errors.ErrServerNotFound, qualifiedName)
	}
	m.usage = append(m.usage, qualifiedName)
	return nil
}

func (m *mockStore) Stats() tracker.Stats {
	return tracker.Stats{Total: len(m.servers)}
}

func TestServerRoutes_List(t *testing.T) {
	t.Parallel()

	store := &mockStore{servers: []tracker.InstalledServer{
		{QualifiedName: "github", Status: tracker.StatusConnected},
		{QualifiedName: "slack", Status: tracker.StatusDisconnected},
	}}

	_, testAPI := humatest.New(t)
	RegisterServerRoutes(testAPI, store, "/servers")

	resp := testAPI.Get("/servers")
	require.Equal(t, http.StatusOK, resp.Code)

	var servers []tracker.InstalledServer
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &servers))
	require.Len(t, servers, 2)
	require.Equal(t, "github", servers[0].QualifiedName)
}

func TestServerRoutes_Get(t *testing.T) {
	t.Parallel()

	store := &mockStore{servers: []tracker.InstalledServer{
		{QualifiedName: "github"},
	}}

	_, testAPI := humatest.New(t)
	RegisterServerRoutes(testAPI, store, "/servers")

	resp := testAPI.Get("/servers/github")
	require.Equal(t, http.StatusOK, resp.Code)

	var server tracker.InstalledServer
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &server))
	require.Equal(t, "github", server.QualifiedName)
}

func TestServerRoutes_Stats(t *testing.T) {
	t.Parallel()

	store := &mockStore{servers: []tracker.InstalledServer{{QualifiedName: "github"}}}

	_, testAPI := humatest.New(t)
	RegisterServerRoutes(testAPI, store, "/servers")

	resp := testAPI.Get("/servers/stats")
	require.Equal(t, http.StatusOK, resp.Code)

	var stats tracker.Stats
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &stats))
	require.Equal(t, 1, stats.Total)
}

func TestServerRoutes_RecordUsage(t *testing.T) {
	t.Parallel()

	store := &mockStore{servers: []tracker.InstalledServer{{QualifiedName: "github"}}}

	_, testAPI := humatest.New(t)
	RegisterServerRoutes(testAPI, store, "/servers")

	resp := testAPI.Post("/servers/github/usage")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, []string{"github"}, store.usage)
}
