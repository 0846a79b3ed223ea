package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AreDistinct(t *testing.T) {
	assert.NotEqual(t, ErrMissingAgendaService.Error(), ErrInvalidPorts.Error())
}

func TestErrMissingAgendaService_Message(t *testing.T) {
	assert.Contains(t, ErrMissingAgendaService.Error(), "agenda service")
}

func TestErrInvalidPorts_Message(t *testing.T) {
	assert.Contains(t, ErrInvalidPorts.Error(), "invalid ports")
}
