// Package domain defines payment terminal configuration and the status contract
// exposed by a terminal for a transaction it processed.
package domain

import (
	"encoding/json"
	"net"
	"slices"
	"strconv"
	"time"
)

// CapabilityTLS marks a terminal whose local API is served over HTTPS.
const CapabilityTLS = "tls"

// Terminal is the live configuration of a networked payment terminal.
//
// APIKey only lives in memory after decryption; persistence stores EncryptedAPIKey.
type Terminal struct {
	ID              string
	Name            string
	Address         string
	Port            int
	Capabilities    []string
	APIKey          string
	EncryptedAPIKey []byte
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Info returns the secret-free connection snapshot of the terminal.
func (t *Terminal) Info() Info {
	return Info{
		ID:           t.ID,
		Address:      t.Address,
		Port:         t.Port,
		Capabilities: slices.Clone(t.Capabilities),
	}
}

// Info is a snapshot of terminal connection details captured when a payment starts.
// It never carries credentials.
type Info struct {
	ID           string   `json:"id"`
	Address      string   `json:"address"`
	Port         int      `json:"port"`
	Capabilities []string `json:"capabilities,omitempty"`
}

// HasCapability reports whether the terminal advertises capability.
func (i Info) HasCapability(capability string) bool {
	return slices.Contains(i.Capabilities, capability)
}

// BaseURL returns the root URL of the terminal's local API.
func (i Info) BaseURL() string {
	scheme := "http"
	if i.HasCapability(CapabilityTLS) {
		scheme = "https"
	}
	return scheme + "://" + net.JoinHostPort(i.Address, strconv.Itoa(i.Port))
}

// Connection is everything needed to talk to a terminal right now: the current
// connection details plus the decrypted API key.
type Connection struct {
	Info
	Name   string
	APIKey string
}

// StatusResponse is a terminal's answer to a transaction status query.
// Raw holds the full response body for ledger reconciliation.
type StatusResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Raw     json.RawMessage `json:"-"`
}
