package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
	}{
		{"pending", StatusPending},
		{"processing", StatusProcessing},
		{"completed", StatusCompleted},
		{"failed", StatusFailed},
		{"cancelled", StatusCancelled},
		{"canceled", StatusCancelled},
		{" Completed ", StatusCompleted},
		{"PENDING", StatusPending},
		{"refunded", StatusUnknown},
		{"", StatusUnknown},
		{"unknown", StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseStatus(tt.in))
		})
	}
}

func TestStatus_Classification(t *testing.T) {
	assert.True(t, StatusPending.InFlight())
	assert.True(t, StatusProcessing.InFlight())
	assert.False(t, StatusCompleted.InFlight())
	assert.False(t, StatusUnknown.InFlight())

	assert.True(t, StatusCompleted.Final())
	assert.True(t, StatusFailed.Final())
	assert.True(t, StatusCancelled.Final())
	assert.False(t, StatusPending.Final())
	assert.False(t, StatusUnknown.Final())
}
