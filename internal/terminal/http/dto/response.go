package dto

import (
	"time"

	terminalDomain "github.com/allisson/posrecovery/internal/terminal/domain"
)

// TerminalResponse represents a terminal in API responses. The API key is never returned.
type TerminalResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	Port         int       `json:"port"`
	Capabilities []string  `json:"capabilities"`
	BaseURL      string    `json:"base_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MapTerminalToResponse converts a domain terminal to an API response.
func MapTerminalToResponse(term *terminalDomain.Terminal) TerminalResponse {
	info := term.Info()
	capabilities := info.Capabilities
	if capabilities == nil {
		capabilities = []string{}
	}
	return TerminalResponse{
		ID:           term.ID,
		Name:         term.Name,
		Address:      term.Address,
		Port:         term.Port,
		Capabilities: capabilities,
		BaseURL:      info.BaseURL(),
		CreatedAt:    term.CreatedAt,
		UpdatedAt:    term.UpdatedAt,
	}
}

// ListTerminalsResponse represents the terminal list in API responses.
type ListTerminalsResponse struct {
	Data []TerminalResponse `json:"data"`
}

// MapTerminalsToListResponse converts domain terminals to a list response.
func MapTerminalsToListResponse(terms []*terminalDomain.Terminal) ListTerminalsResponse {
	data := make([]TerminalResponse, 0, len(terms))
	for _, term := range terms {
		data = append(data, MapTerminalToResponse(term))
	}
	return ListTerminalsResponse{Data: data}
}
