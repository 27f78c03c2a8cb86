// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	terminalDomain "github.com/allisson/posrecovery/internal/terminal/domain"
)

// RegisterTerminalRequest contains the parameters for registering a terminal.
type RegisterTerminalRequest struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	Port         int      `json:"port"`
	Capabilities []string `json:"capabilities"`
	APIKey       string   `json:"api_key"`
}

// ToInput converts the request into the domain registration input. Validation happens there.
func (r *RegisterTerminalRequest) ToInput() *terminalDomain.RegisterTerminalInput {
	return &terminalDomain.RegisterTerminalInput{
		ID:           r.ID,
		Name:         r.Name,
		Address:      r.Address,
		Port:         r.Port,
		Capabilities: r.Capabilities,
		APIKey:       r.APIKey,
	}
}
