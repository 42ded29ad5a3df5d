package catalog

import (
	"time"
)

// Connection types declared by catalog entries.
const (
	// ConnectionStdio is a local subprocess connection (requires local install).
	ConnectionStdio = "stdio"

	// ConnectionHTTP is a remotely hosted streamable HTTP connection.
	ConnectionHTTP = "http"

	// ConnectionSSE is a remotely hosted server-sent-events connection.
	ConnectionSSE = "sse"
)

// Server represents a canonical, normalized view of a discoverable MCP server
// as returned by the remote catalog. Instances are ephemeral: they are created
// per catalog query and discarded when the enclosing cache entry expires.
type Server struct {
	// QualifiedName is the globally unique identifier for the server,
	// stable across fetches. It is the join key with the installed-server store.
	QualifiedName string `json:"qualifiedName"`

	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Homepage    string `json:"homepage,omitempty"`

	// UseCount is a non-negative popularity signal.
	UseCount int `json:"useCount"`

	// IsVerified indicates the catalog has verified the server's publisher.
	IsVerified bool `json:"isVerified"`

	// IsRemote indicates the server can be reached without a local install.
	IsRemote bool `json:"isRemote"`

	CreatedAt time.Time `json:"createdAt,omitempty"`

	// Security holds the result of the catalog's security scan, when one ran.
	Security *SecurityScan `json:"security,omitempty"`

	// Connections lists the ways the server can be reached, in the order the
	// catalog declares them.
	Connections []Connection `json:"connections,omitempty"`
}

// SecurityScan records the outcome of the catalog's security scan for a server.
type SecurityScan struct {
	Passed    bool      `json:"passed"`
	ScannedAt time.Time `json:"scannedAt,omitempty"`
}

// Connection describes one way of reaching a server, optionally carrying a
// JSON-Schema-like description of the configuration fields it needs.
type Connection struct {
	Type         string         `json:"type"`
	URL          string         `json:"url,omitempty"`
	ConfigSchema map[string]any `json:"configSchema,omitempty"`
}

// SearchResult is one page of catalog search results.
type SearchResult struct {
	Servers    []Server `json:"servers"`
	TotalCount int      `json:"totalCount"`
	Page       int      `json:"page"`
	PageSize   int      `json:"pageSize"`
}

// searchResponse is the raw catalog search payload. Optional fields are
// tolerated and defaulted during normalization.
type searchResponse struct {
	Servers    []serverPayload `json:"servers"`
	Pagination pagination      `json:"pagination"`
}

type pagination struct {
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalCount  int `json:"totalCount"`
}

// serverPayload is a raw catalog entry. The catalog's entries are
// heterogeneous: every field other than qualifiedName may be absent.
type serverPayload struct {
	QualifiedName string               `json:"qualifiedName"`
	DisplayName   string               `json:"displayName"`
	Description   string               `json:"description"`
	Homepage      string               `json:"homepage"`
	UseCount      int                  `json:"useCount"`
	IsVerified    bool                 `json:"isVerified"`
	Remote        bool                 `json:"remote"`
	CreatedAt     time.Time            `json:"createdAt"`
	Security      *securityScanPayload `json:"security"`
	Connections   []connectionPayload  `json:"connections"`
}

type securityScanPayload struct {
	ScanPassed bool      `json:"scanPassed"`
	ScannedAt  time.Time `json:"scannedAt"`
}

type connectionPayload struct {
	Type         string         `json:"type"`
	URL          string         `json:"url"`
	ConfigSchema map[string]any `json:"configSchema"`
}

// normalize converts a raw catalog entry into the canonical Server record,
// applying the documented defaults for absent optional fields: useCount 0,
// isVerified false, remote false, description "".
func (p serverPayload) normalize() Server {
	s := Server{
		QualifiedName: p.QualifiedName,
		DisplayName:   p.DisplayName,
		Description:   p.Description,
		Homepage:      p.Homepage,
		UseCount:      p.UseCount,
		IsVerified:    p.IsVerified,
		IsRemote:      p.Remote,
		CreatedAt:     p.CreatedAt,
	}

	if p.DisplayName == "" {
		s.DisplayName = p.QualifiedName
	}
	if p.UseCount < 0 {
		s.UseCount = 0
	}
	if p.Security != nil {
		s.Security = &SecurityScan{
			Passed:    p.Security.ScanPassed,
			ScannedAt: p.Security.ScannedAt,
		}
	}

	for _, conn := range p.Connections {
		c := Connection{
			Type:         conn.Type,
			URL:          conn.URL,
			ConfigSchema: conn.ConfigSchema,
		}
		if c.Type == "" {
			c.Type = ConnectionStdio
		}
		s.Connections = append(s.Connections, c)
	}

	return s
}
