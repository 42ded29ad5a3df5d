// Package tracker maintains the durable record of MCP servers the operator
// has installed: a small per-server state machine persisted as a JSON store,
// with relevant entries mirrored into the external config file read by the
// agent runtime.
package tracker

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/scoutmcp/scout/internal/catalog"
	"github.com/scoutmcp/scout/internal/errors"
	"github.com/scoutmcp/scout/internal/filter"
)

const trackerName = "tracker"

// Tracker owns the installed-server store. All mutations are serialized by a
// single in-process mutex; this assumes one writer process, not multi-process
// coordination.
//
// Every mutation rewrites the durable store. Persistence failures are logged
// and never fail the triggering operation: the in-memory state remains
// authoritative and is written out again on the next mutation.
type Tracker struct {
	mu         sync.Mutex
	servers    []InstalledServer
	storePath  string
	mirrorFile *mirror
	logger     hclog.Logger
	now        func() time.Time
}

// Option defines a functional option for configuring the Tracker.
type Option func(*Tracker) error

// WithMirrorFile enables mirroring of local server entries into the external
// config file at path.
func WithMirrorFile(path string) Option {
	return func(t *Tracker) error {
		path = strings.TrimSpace(path)
		if path == "" {
			return fmt.Errorf("mirror file path cannot be empty")
		}
		t.mirrorFile = &mirror{path: path}
		return nil
	}
}

// NewTracker creates a tracker backed by the durable store at storePath,
// loading any existing entries. A missing store file starts empty.
func NewTracker(logger hclog.Logger, storePath string, opts ...Option) (*Tracker, error) {
	storePath = strings.TrimSpace(storePath)
	if storePath == "" {
		return nil, fmt.Errorf("store path cannot be empty")
	}

	servers, err := loadStore(storePath)
	if err != nil {
		return nil, err
	}

	t := &Tracker{
		servers:   servers,
		storePath: storePath,
		logger:    logger.Named(trackerName),
		now:       time.Now,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(t); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Register records a server as installed. The upsert is idempotent: an
// already-present qualified name is overwritten in place, never duplicated.
// Status is always reset to connected and InstalledAt to the current time;
// re-registration represents a fresh install action, not a resume.
func (t *Tracker) Register(server catalog.Server, connType ConnectionType, config *ServerConfig) (InstalledServer, error) {
	name := strings.TrimSpace(server.QualifiedName)
	if name == "" {
		return InstalledServer{}, fmt.Errorf("%w: qualified name cannot be empty", errors.ErrBadRequest)
	}

	entry := InstalledServer{
		QualifiedName:  name,
		DisplayName:    server.DisplayName,
		ConnectionType: connType,
		Status:         StatusConnected,
		InstalledAt:    t.now().UTC(),
		Config:         config,
	}
	if entry.DisplayName == "" {
		entry.DisplayName = name
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if i := t.indexOf(name); i >= 0 {
		t.servers[i] = entry
	} else {
		t.servers = append(t.servers, entry)
	}
	t.persist()

	if connType == ConnectionLocal {
		t.mirrorSet(name, config)
	}

	t.logger.Info("Registered server", "qualifiedName", name, "connectionType", connType)

	return entry, nil
}

// Unregister removes the entry entirely. Terminal and non-reversible,
// distinct from marking a server disconnected.
func (t *Tracker) Unregister(qualifiedName string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(qualifiedName)
	if i < 0 {
		return fmt.Errorf("%w: %s", errors.ErrServerNotFound, qualifiedName)
	}

	t.servers = append(t.servers[:i], t.servers[i+1:]...)
	t.persist()
	t.mirrorRemove(qualifiedName)

	t.logger.Info("Unregistered server", "qualifiedName", qualifiedName)

	return nil
}

// UpdateStatus transitions the server to status unconditionally. Moving to
// connected stamps LastUsed. The error message is recorded only for the
// error status and cleared otherwise.
func (t *Tracker) UpdateStatus(qualifiedName string, status Status, errMsg string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(qualifiedName)
	if i < 0 {
		return fmt.Errorf("%w: %s", errors.ErrServerNotFound, qualifiedName)
	}

	t.servers[i].Status = status
	if status == StatusError {
		t.servers[i].Error = errMsg
	} else {
		t.servers[i].Error = ""
	}
	if status == StatusConnected {
		now := t.now().UTC()
		t.servers[i].LastUsed = &now
	}
	t.persist()

	return nil
}

// RecordUsage stamps LastUsed without changing status.
func (t *Tracker) RecordUsage(qualifiedName string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(qualifiedName)
	if i < 0 {
		return fmt.Errorf("%w: %s", errors.ErrServerNotFound, qualifiedName)
	}

	now := t.now().UTC()
	t.servers[i].LastUsed = &now
	t.persist()

	return nil
}

// SetTools records the capability names a server exposes.
func (t *Tracker) SetTools(qualifiedName string, tools []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(qualifiedName)
	if i < 0 {
		return fmt.Errorf("%w: %s", errors.ErrServerNotFound, qualifiedName)
	}

	t.servers[i].Tools = append([]string(nil), tools...)
	t.persist()

	return nil
}

// Get returns the entry for qualifiedName.
func (t *Tracker) Get(qualifiedName string) (InstalledServer, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(qualifiedName)
	if i < 0 {
		return InstalledServer{}, false
	}

	return t.servers[i], true
}

// List returns a copy of all installed servers in registration order.
func (t *Tracker) List() []InstalledServer {
	t.mu.Lock()
	defer t.mu.Unlock()

	return append([]InstalledServer(nil), t.servers...)
}

// FindByCapability returns the first installed server whose qualified or
// display name contains the substring, case-insensitively. Used for "do I
// already have something that can do X" checks before recommending a new
// install.
func (t *Tracker) FindByCapability(substring string) (InstalledServer, bool) {
	substring = filter.NormalizeString(substring)
	if substring == "" {
		return InstalledServer{}, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, s := range t.servers {
		if filter.ContainsFold(s.QualifiedName, substring) || filter.ContainsFold(s.DisplayName, substring) {
			return s, true
		}
	}

	return InstalledServer{}, false
}

// Stats summarizes the store by status and connection type.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	stats := Stats{
		Total:        len(t.servers),
		ByStatus:     make(map[Status]int),
		ByConnection: make(map[ConnectionType]int),
	}
	for _, s := range t.servers {
		stats.ByStatus[s.Status]++
		stats.ByConnection[s.ConnectionType]++
	}

	return stats
}

// indexOf returns the position of qualifiedName in the store, or -1.
// Caller must hold mu.
func (t *Tracker) indexOf(qualifiedName string) int {
	for i, s := range t.servers {
		if s.QualifiedName == qualifiedName {
			return i
		}
	}
	return -1
}

// persist rewrites the durable store. Failures are logged only; the next
// mutation retries the write. Caller must hold mu.
func (t *Tracker) persist() {
	if err := saveStore(t.storePath, t.servers); err != nil {
		t.logger.Error("Failed to persist server store, in-memory state remains authoritative", "path", t.storePath, "error", err)
	}
}

// mirrorSet projects a local server entry into the external config file.
// Best-effort: failures are logged and never roll back the durable store.
func (t *Tracker) mirrorSet(name string, cfg *ServerConfig) {
	if t.mirrorFile == nil {
		return
	}
	if err := t.mirrorFile.set(name, cfg); err != nil {
		t.logger.Warn("Failed to mirror server into external config", "qualifiedName", name, "error", err)
	}
}

// mirrorRemove removes a server entry from the external config file.
func (t *Tracker) mirrorRemove(name string) {
	if t.mirrorFile == nil {
		return
	}
	if err := t.mirrorFile.remove(name); err != nil {
		t.logger.Warn("Failed to remove server from external config", "qualifiedName", name, "error", err)
	}
}
