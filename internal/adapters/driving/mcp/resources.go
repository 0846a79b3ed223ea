package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for agenda resources.
	uriScheme = "agenda://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing periods.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "periods",
		Name:        "periods",
		Description: "Named periods accepted by list_meetings",
		MIMEType:    "application/json",
	}, s.handlePeriodsResource)

	// Template for upcoming meetings in a period.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "meetings/{period}",
		Name:        "period-meetings",
		Description: "Upcoming meetings in a named period",
		MIMEType:    "application/json",
	}, s.handleMeetingsResource)
}

// handlePeriodsResource returns the named periods with their ranges.
func (s *Server) handlePeriodsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type periodInfo struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Start       string `json:"start"`
		End         string `json:"end"`
	}

	periods := domain.NamedPeriods()
	infos := make([]periodInfo, 0, len(periods))
	for _, p := range periods {
		r, err := s.ports.Agenda.ResolveRange(domain.RangeRequest{Period: p.String()})
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		infos = append(infos, periodInfo{
			Name:        p.String(),
			Description: p.Description(),
			Start:       r.Start.Format(domain.DateTimeLayout),
			End:         r.End.Format(domain.DateTimeLayout),
		})
	}

	return jsonResult(req.Params.URI, infos, "periods")
}

// handleMeetingsResource returns upcoming meetings for a named period.
func (s *Server) handleMeetingsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract period from URI: agenda://meetings/{period}
	period := extractPeriod(req.Params.URI)
	if period == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if _, err := domain.ParsePeriod(period); err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	r, err := s.ports.Agenda.ResolveRange(domain.RangeRequest{Period: period})
	if err != nil {
		return nil, fmt.Errorf("resolving period: %w", err)
	}

	meetings, err := s.ports.Agenda.Query(ctx, domain.QueryOptions{Range: r})
	if err != nil {
		return nil, fmt.Errorf("querying meetings: %w", err)
	}

	return jsonResult(req.Params.URI, toMeetingOutputs(meetings), "meetings")
}

func jsonResult(uri string, v any, what string) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", what, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractPeriod extracts the period from a URI like agenda://meetings/{period}.
func extractPeriod(uri string) string {
	const prefix = uriScheme + "meetings/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
