// Package launcher implements the JSON-RPC protocol used by launcher hosts
// such as Flow Launcher. The host passes one request as a JSON argument and
// reads the response from stdout.
package launcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
	"github.com/custodia-labs/outlook-agenda/internal/core/ports/driving"
	"github.com/custodia-labs/outlook-agenda/internal/logger"
)

// MethodQuery is the only method hosts send for search handlers.
const MethodQuery = "query"

const (
	hintTitle    = "Outlook Agenda"
	hintSubTitle = "Gets agenda"
	errorTitle   = "Error"
	emptyTitle   = "No meetings found"

	outlookMissing = "Microsoft Outlook is not installed or not available."

	defaultMaxResults = 20
)

// Request is a single call from the launcher host.
type Request struct {
	Method     string `json:"method"`
	Parameters []any  `json:"parameters"`
}

// Query returns the first parameter as the query text.
func (r Request) Query() string {
	if len(r.Parameters) == 0 {
		return ""
	}
	s, _ := r.Parameters[0].(string)
	return strings.TrimSpace(s)
}

// Result is one row shown by the launcher.
type Result struct {
	Title    string `json:"Title"`
	SubTitle string `json:"SubTitle"`
	IcoPath  string `json:"IcoPath"`
}

// Response is the reply written back to the host.
type Response struct {
	Result []Result `json:"result"`
}

// Encode writes the response as a single JSON line.
func (r Response) Encode(w io.Writer) error {
	if r.Result == nil {
		r.Result = []Result{}
	}
	return json.NewEncoder(w).Encode(r)
}

// DecodeRequest parses a request from its JSON argument.
func DecodeRequest(data string) (Request, error) {
	var req Request
	if err := json.Unmarshal([]byte(data), &req); err != nil {
		return Request{}, fmt.Errorf("%w: decode launcher request: %v", domain.ErrInvalidInput, err)
	}
	return req, nil
}

// Handler answers launcher requests from an agenda service.
type Handler struct {
	agenda     driving.AgendaService
	icons      domain.LauncherSettings
	maxResults int
}

// NewHandler creates a handler. Icons fall back to the default settings.
func NewHandler(agenda driving.AgendaService, icons domain.LauncherSettings) *Handler {
	defaults := domain.DefaultSettings().Launcher
	if icons.Icon == "" {
		icons.Icon = defaults.Icon
	}
	if icons.ErrorIcon == "" {
		icons.ErrorIcon = defaults.ErrorIcon
	}
	return &Handler{
		agenda:     agenda,
		icons:      icons,
		maxResults: defaultMaxResults,
	}
}

// WithMaxResults limits how many meetings a query returns.
func (h *Handler) WithMaxResults(n int) *Handler {
	if n > 0 {
		h.maxResults = n
	}
	return h
}

// Handle dispatches a request. Failures are reported as result rows
// because hosts only display what is in the response.
func (h *Handler) Handle(ctx context.Context, req Request) Response {
	if req.Method != MethodQuery {
		return h.ErrorResponse(fmt.Errorf("%w: unknown method %q", domain.ErrInvalidInput, req.Method))
	}

	query := req.Query()
	if query == "" {
		return Response{Result: []Result{h.Hint(ctx)}}
	}
	return h.search(ctx, query)
}

// Hint returns the usage row, or an error row when the calendar
// provider cannot be reached.
func (h *Handler) Hint(ctx context.Context) Result {
	if h.agenda == nil {
		return h.errorResult(domain.ErrNotConfigured)
	}
	if err := h.agenda.CheckProvider(ctx); err != nil {
		logger.Warn("Provider check failed: %v", err)
		return h.errorResult(err)
	}
	return Result{Title: hintTitle, SubTitle: hintSubTitle, IcoPath: h.icons.Icon}
}

func (h *Handler) search(ctx context.Context, query string) Response {
	if h.agenda == nil {
		return h.ErrorResponse(domain.ErrNotConfigured)
	}

	req, subject := ParseQuery(query)
	r, err := h.agenda.ResolveRange(req)
	if err != nil {
		return h.ErrorResponse(err)
	}

	meetings, err := h.agenda.Query(ctx, domain.QueryOptions{
		Range:   r,
		Filters: domain.FilterSet{Subject: subject},
	})
	if err != nil {
		return h.ErrorResponse(err)
	}

	if len(meetings) == 0 {
		return Response{Result: []Result{{
			Title:    emptyTitle,
			SubTitle: r.String(),
			IcoPath:  h.icons.Icon,
		}}}
	}

	if len(meetings) > h.maxResults {
		meetings = meetings[:h.maxResults]
	}
	results := make([]Result, len(meetings))
	for i := range meetings {
		results[i] = h.meetingResult(&meetings[i])
	}
	return Response{Result: results}
}

// ParseQuery splits launcher text into a range request and a subject filter.
// A leading period token selects the range; the rest is the subject.
func ParseQuery(query string) (domain.RangeRequest, string) {
	words := strings.Fields(query)
	if len(words) == 0 {
		return domain.RangeRequest{}, ""
	}
	if p, err := domain.ParsePeriod(words[0]); err == nil {
		return domain.RangeRequest{Period: p.String()}, strings.Join(words[1:], " ")
	}
	return domain.RangeRequest{}, strings.Join(words, " ")
}

func (h *Handler) meetingResult(m *domain.Meeting) Result {
	title := m.Subject
	if title == "" {
		title = "(no subject)"
	}
	return Result{
		Title:    title,
		SubTitle: MeetingSubTitle(m),
		IcoPath:  h.icons.Icon,
	}
}

// MeetingSubTitle formats the time range and location of a meeting.
func MeetingSubTitle(m *domain.Meeting) string {
	end := m.End.Format("15:04")
	if !sameDay(m.Start, m.End) {
		end = m.End.Format("Mon 02 Jan 15:04")
	}
	sub := m.Start.Format("Mon 02 Jan 15:04") + " - " + end
	if m.Location != "" {
		sub += " | " + m.Location
	}
	return sub
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (h *Handler) errorResult(err error) Result {
	provider := ""
	if h.agenda != nil {
		provider = h.agenda.ProviderName()
	}
	return Result{Title: errorTitle, SubTitle: ErrorMessage(err, provider), IcoPath: h.icons.ErrorIcon}
}

// ErrorMessage returns the user-facing text for err. A missing Outlook
// installation gets a fixed message; everything else uses err's text.
func ErrorMessage(err error, provider string) string {
	if errors.Is(err, domain.ErrProviderNotInstalled) && provider == string(domain.ProviderOutlook) {
		return outlookMissing
	}
	return err.Error()
}

// ErrorResponse wraps err in a single error row.
func (h *Handler) ErrorResponse(err error) Response {
	return Response{Result: []Result{h.errorResult(err)}}
}
