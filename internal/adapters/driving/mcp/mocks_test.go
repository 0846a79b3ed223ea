package mcp

import (
	"context"

	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
)

// mockAgendaService is a mock implementation of driving.AgendaService.
type mockAgendaService struct {
	rng      domain.DateRange
	rangeErr error
	meetings []domain.Meeting
	err      error
	checkErr error
	name     string

	lastRequest domain.RangeRequest
	lastOptions domain.QueryOptions
}

func (m *mockAgendaService) ResolveRange(req domain.RangeRequest) (domain.DateRange, error) {
	m.lastRequest = req
	return m.rng, m.rangeErr
}

func (m *mockAgendaService) Query(_ context.Context, opts domain.QueryOptions) ([]domain.Meeting, error) {
	m.lastOptions = opts
	return m.meetings, m.err
}

func (m *mockAgendaService) CheckProvider(_ context.Context) error {
	return m.checkErr
}

func (m *mockAgendaService) ProviderName() string {
	return m.name
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings domain.Settings
}

func (m *mockSettingsService) Get() domain.Settings {
	return m.settings
}

func (m *mockSettingsService) SetValue(_, _ string) error {
	return nil
}

func (m *mockSettingsService) Value(_ string) (any, bool) {
	return nil, false
}

func (m *mockSettingsService) Keys() []string {
	return nil
}

func (m *mockSettingsService) Path() string {
	return ""
}
