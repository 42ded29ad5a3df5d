package tracker

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/scoutmcp/scout/internal/files"
	"github.com/scoutmcp/scout/internal/perms"
)

// storeDocument is the durable store's on-disk shape. The store is small, so
// every mutation rewrites the whole document; partial writes can never leave
// it corrupted.
type storeDocument struct {
	UpdatedAt time.Time         `json:"updatedAt"`
	Servers   []InstalledServer `json:"servers"`
}

// loadStore reads the durable store from path. A missing file yields an empty
// store, not an error.
func loadStore(path string) ([]InstalledServer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read server store %s: %w", path, err)
	}

	var doc storeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode server store %s: %w", path, err)
	}

	return doc.Servers, nil
}

// saveStore rewrites the durable store atomically.
func saveStore(path string, servers []InstalledServer) error {
	doc := storeDocument{
		UpdatedAt: time.Now().UTC(),
		Servers:   servers,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode server store: %w", err)
	}

	return files.WriteAtomic(path, data, perms.RegularFile)
}
