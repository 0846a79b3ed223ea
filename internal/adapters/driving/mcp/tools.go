package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/outlook-agenda/internal/adapters/driving/launcher"
	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
)

// ListMeetingsInput is the input schema for the list_meetings tool.
type ListMeetingsInput struct {
	Period      string `json:"period,omitempty" jsonschema:"one of today, tomorrow, week, month, fromnow (default from config)"`
	Start       string `json:"start,omitempty" jsonschema:"custom range start, YYYY-MM-DD or YYYY-MM-DD HH:MM"`
	End         string `json:"end,omitempty" jsonschema:"custom range end, YYYY-MM-DD or YYYY-MM-DD HH:MM"`
	Subject     string `json:"subject,omitempty" jsonschema:"case-insensitive substring of the subject"`
	Organizer   string `json:"organizer,omitempty" jsonschema:"case-insensitive substring of the organizer"`
	Attendee    string `json:"attendee,omitempty" jsonschema:"case-insensitive substring of the required attendees"`
	IncludePast bool   `json:"include_past,omitempty" jsonschema:"include meetings that already ended"`
}

// ListMeetingsOutput is the output schema for the list_meetings tool.
type ListMeetingsOutput struct {
	Start    string          `json:"start"`
	End      string          `json:"end"`
	Meetings []MeetingOutput `json:"meetings"`
	Count    int             `json:"count"`
}

// MeetingOutput represents a single meeting.
type MeetingOutput struct {
	Subject           string `json:"subject"`
	Start             string `json:"start"`
	End               string `json:"end"`
	Organizer         string `json:"organizer,omitempty"`
	RequiredAttendees string `json:"required_attendees,omitempty"`
	Location          string `json:"location,omitempty"`
	Body              string `json:"body,omitempty"`
	IsRecurring       bool   `json:"is_recurring"`
}

// StatusInput is the input schema for the agenda_status tool.
type StatusInput struct{}

// StatusOutput is the output schema for the agenda_status tool.
type StatusOutput struct {
	Provider string `json:"provider"`
	Title    string `json:"title"`
	SubTitle string `json:"subtitle"`
	Icon     string `json:"icon"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_meetings",
		Description: "List calendar meetings in a period or custom range, optionally filtered",
	}, s.handleListMeetings)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "agenda_status",
		Description: "Report whether the calendar provider is reachable",
	}, s.handleStatus)
}

// handleListMeetings handles the list_meetings tool invocation.
func (s *Server) handleListMeetings(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListMeetingsInput,
) (*mcp.CallToolResult, ListMeetingsOutput, error) {
	r, err := s.ports.Agenda.ResolveRange(domain.RangeRequest{
		Period:      input.Period,
		CustomStart: input.Start,
		CustomEnd:   input.End,
	})
	if err != nil {
		return nil, ListMeetingsOutput{}, err
	}

	meetings, err := s.ports.Agenda.Query(ctx, domain.QueryOptions{
		Range: r,
		Filters: domain.FilterSet{
			Subject:   input.Subject,
			Organizer: input.Organizer,
			Attendee:  input.Attendee,
		},
		IncludePast: input.IncludePast,
	})
	if err != nil {
		return nil, ListMeetingsOutput{}, err
	}

	return nil, ListMeetingsOutput{
		Start:    r.Start.Format(time.RFC3339),
		End:      r.End.Format(time.RFC3339),
		Meetings: toMeetingOutputs(meetings),
		Count:    len(meetings),
	}, nil
}

// handleStatus handles the agenda_status tool invocation.
func (s *Server) handleStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	var icons domain.LauncherSettings
	if s.ports.Settings != nil {
		icons = s.ports.Settings.Get().Launcher
	}

	hint := launcher.NewHandler(s.ports.Agenda, icons).Hint(ctx)
	return nil, StatusOutput{
		Provider: s.ports.Agenda.ProviderName(),
		Title:    hint.Title,
		SubTitle: hint.SubTitle,
		Icon:     hint.IcoPath,
	}, nil
}

func toMeetingOutputs(meetings []domain.Meeting) []MeetingOutput {
	out := make([]MeetingOutput, len(meetings))
	for i := range meetings {
		m := &meetings[i]
		out[i] = MeetingOutput{
			Subject:           m.Subject,
			Start:             m.Start.Format(time.RFC3339),
			End:               m.End.Format(time.RFC3339),
			Organizer:         m.Organizer,
			RequiredAttendees: m.RequiredAttendees,
			Location:          m.Location,
			Body:              m.Body,
			IsRecurring:       m.IsRecurring,
		}
	}
	return out
}
