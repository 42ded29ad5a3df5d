package tracker

import (
	"time"
)

// Status is the connection state of an installed server. Any state may move
// to any other; there are no illegal transitions.
type Status string

const (
	// StatusConnected is the initial state on registration.
	StatusConnected Status = "connected"

	StatusDisconnected Status = "disconnected"
	StatusError        Status = "error"
)

// ConnectionType describes how an installed server is reached.
type ConnectionType string

const (
	// ConnectionRemote servers are reached over the network without a local install.
	ConnectionRemote ConnectionType = "remote"

	// ConnectionLocal servers run as a local subprocess.
	ConnectionLocal ConnectionType = "local"
)

// ServerConfig holds the launch or connection configuration for an installed
// server. Local servers populate Command/Args/Env; remote servers populate URL.
type ServerConfig struct {
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	URL     string            `json:"url,omitempty"`
}

// InstalledServer is the durable record of a server the operator has
// installed. QualifiedName is the unique key within the store and shares the
// identifier space with catalog entries.
type InstalledServer struct {
	QualifiedName  string         `json:"qualifiedName"`
	DisplayName    string         `json:"displayName"`
	ConnectionType ConnectionType `json:"connectionType"`
	Status         Status         `json:"status"`
	InstalledAt    time.Time      `json:"installedAt"`
	LastUsed       *time.Time     `json:"lastUsed,omitempty"`
	Config         *ServerConfig  `json:"config,omitempty"`
	Tools          []string       `json:"tools,omitempty"`

	// Error carries the failure message, present only when Status is error.
	Error string `json:"error,omitempty"`
}

// Stats summarizes the installed-server store.
type Stats struct {
	Total        int                    `json:"total"`
	ByStatus     map[Status]int         `json:"byStatus"`
	ByConnection map[ConnectionType]int `json:"byConnection"`
}
