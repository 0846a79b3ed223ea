//go:build windows

package outlook

import (
	"context"
	"errors"
	"runtime"
	"time"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
	"github.com/custodia-labs/outlook-agenda/internal/core/ports/driven"
	"github.com/custodia-labs/outlook-agenda/internal/logger"
)

// sFalse is returned by CoInitializeEx when COM is already initialised
// on the calling thread. It still requires a matching CoUninitialize.
const sFalse = 1

// Connect implements driven.CalendarProvider.
// The calling goroutine is locked to its OS thread until Close, so the
// connection must be used from the goroutine that opened it.
func (p *Provider) Connect(ctx context.Context) (driven.Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runtime.LockOSThread()
	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		var oleErr *ole.OleError
		if !errors.As(err, &oleErr) || oleErr.Code() != sFalse {
			runtime.UnlockOSThread()
			return nil, domain.NewProviderError(Name, "initialize COM", err)
		}
	}

	c := &connection{}
	if err := c.open(p.progID, p.folder); err != nil {
		c.Close()
		return nil, err
	}
	logger.Debug("Connected to %s", p.progID)
	return c, nil
}

// connection holds the COM objects of one session.
// Dispatches are released in reverse order on Close.
type connection struct {
	app    *ole.IDispatch
	held   []*ole.IDispatch
	closed bool
}

func (c *connection) open(progID string, folder int) error {
	unknown, err := oleutil.CreateObject(progID)
	if err != nil {
		return createError(hresult(err), err)
	}
	defer unknown.Release()

	c.app, err = unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return domain.NewProviderError(Name, "query IDispatch", err)
	}
	c.hold(c.app)
	return nil
}

func (c *connection) hold(d *ole.IDispatch) *ole.IDispatch {
	if d != nil {
		c.held = append(c.held, d)
	}
	return d
}

// call invokes a method returning an object and keeps it for release.
func (c *connection) call(d *ole.IDispatch, op, method string, args ...any) (*ole.IDispatch, error) {
	v, err := oleutil.CallMethod(d, method, args...)
	if err != nil {
		return nil, domain.NewProviderError(Name, op, err)
	}
	disp := v.ToIDispatch()
	if disp == nil {
		return nil, domain.NewProviderError(Name, op, errors.New("no object returned"))
	}
	return c.hold(disp), nil
}

// Appointments implements driven.Connection.
func (c *connection) Appointments(ctx context.Context, r domain.DateRange) ([]driven.Appointment, error) {
	if c.closed {
		return nil, domain.NewProviderError(Name, "query appointments", errors.New("connection closed"))
	}

	ns, err := c.call(c.app, "get MAPI namespace", "GetNamespace", "MAPI")
	if err != nil {
		return nil, err
	}
	folder, err := c.call(ns, "open calendar folder", "GetDefaultFolder", olFolderCalendar)
	if err != nil {
		return nil, err
	}

	itemsVar, err := oleutil.GetProperty(folder, "Items")
	if err != nil {
		return nil, domain.NewProviderError(Name, "read calendar items", err)
	}
	items := c.hold(itemsVar.ToIDispatch())
	if items == nil {
		return nil, domain.NewProviderError(Name, "read calendar items", errors.New("no items collection"))
	}

	// Sort must precede IncludeRecurrences for occurrences to expand.
	if _, err := oleutil.CallMethod(items, "Sort", "[Start]"); err != nil {
		return nil, domain.NewProviderError(Name, "sort items", err)
	}
	if _, err := oleutil.PutProperty(items, "IncludeRecurrences", true); err != nil {
		return nil, domain.NewProviderError(Name, "include recurrences", err)
	}

	filter := BuildRestriction(r)
	logger.Debug("Outlook restriction: %s", filter)
	restricted, err := c.call(items, "restrict items", "Restrict", filter)
	if err != nil {
		return nil, err
	}

	// Count is unreliable with IncludeRecurrences; walk with GetFirst/GetNext.
	var out []driven.Appointment
	next := "GetFirst"
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := oleutil.CallMethod(restricted, next)
		if err != nil {
			return nil, domain.NewProviderError(Name, "iterate items", err)
		}
		item := v.ToIDispatch()
		if item == nil {
			break
		}
		out = append(out, appointment{disp: c.hold(item)})
		next = "GetNext"
	}
	return out, nil
}

// Close implements driven.Connection.
func (c *connection) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	for i := len(c.held) - 1; i >= 0; i-- {
		c.held[i].Release()
	}
	c.held = nil
	ole.CoUninitialize()
	runtime.UnlockOSThread()
	return nil
}

// appointment reads AppointmentItem properties on demand.
type appointment struct {
	disp *ole.IDispatch
}

func (a appointment) get(f domain.Field) (any, error) {
	v, err := oleutil.GetProperty(a.disp, string(f))
	if err != nil {
		return nil, driven.FieldError(f, err)
	}
	defer v.Clear()
	return v.Value(), nil
}

// Text implements driven.Appointment.
func (a appointment) Text(f domain.Field) (string, error) {
	val, err := a.get(f)
	if err != nil {
		return "", err
	}
	switch s := val.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	default:
		return "", driven.FieldError(f, "not a string value")
	}
}

// Time implements driven.Appointment.
// Outlook returns local wall-clock values; go-ole labels them UTC.
func (a appointment) Time(f domain.Field) (time.Time, error) {
	val, err := a.get(f)
	if err != nil {
		return time.Time{}, err
	}
	t, ok := val.(time.Time)
	if !ok {
		return time.Time{}, driven.FieldError(f, "not a date value")
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.Local), nil
}

// Bool implements driven.Appointment.
func (a appointment) Bool(f domain.Field) (bool, error) {
	val, err := a.get(f)
	if err != nil {
		return false, err
	}
	b, ok := val.(bool)
	if !ok {
		return false, driven.FieldError(f, "not a boolean value")
	}
	return b, nil
}

// hresult extracts the HRESULT carried by a go-ole error.
func hresult(err error) uint32 {
	var oleErr *ole.OleError
	if errors.As(err, &oleErr) {
		return uint32(oleErr.Code())
	}
	return 0
}
