// Package wizard models the booking widget's multi-step flow as an explicit
// state machine: date selection, time selection, contact entry, success.
// Illegal transitions return typed errors instead of mutating state, and a
// submission-in-flight flag gates both resubmission and close.
package wizard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/summitsurfaces/showroom-api/internal/availability"
	"github.com/summitsurfaces/showroom-api/internal/booking"
	"github.com/summitsurfaces/showroom-api/pkg/logging"
)

// Step is a wizard state.
type Step string

const (
	StepSelectDate Step = "select-date"
	StepSelectTime Step = "select-time"
	StepEnterInfo  Step = "enter-info"
	StepSuccess    Step = "success"
)

var (
	ErrInvalidTransition  = errors.New("wizard: transition not allowed from current step")
	ErrClosed             = errors.New("wizard: closed")
	ErrLoadingPending     = errors.New("wizard: availability fetch still pending")
	ErrAlreadyLoaded      = errors.New("wizard: availability already fetched")
	ErrDateUnavailable    = errors.New("wizard: date has no availability or is in the past")
	ErrSlotUnknown        = errors.New("wizard: slot not found for selected date")
	ErrSubmitInFlight     = errors.New("wizard: submission already in flight")
	ErrCloseDuringSubmit  = errors.New("wizard: cannot close mid-submission")
	ErrAvailabilityFailed = errors.New("wizard: availability fetch failed")
)

// AvailabilityFetcher loads normalized day slots, typically the availability
// endpoint pipeline.
type AvailabilityFetcher interface {
	FetchAvailability(ctx context.Context) ([]availability.DaySlots, error)
}

// Booker submits the final booking, typically the booking service.
type Booker interface {
	Book(ctx context.Context, req booking.Request) (*booking.Confirmation, error)
}

// Wizard is one ephemeral widget session. It is discarded on close or
// completion and holds no durable state.
type Wizard struct {
	mu sync.Mutex

	id         string
	calendarID string
	fetcher    AvailabilityFetcher
	booker     Booker
	now        func() time.Time
	loc        *time.Location
	logger     *logging.Logger

	step         Step
	loading      bool
	loaded       bool
	byDate       map[string]availability.DaySlots
	dates        []string
	selectedDate string
	selectedSlot *availability.TimeSlot
	submitting   bool
	closed       bool
	confirmation *booking.Confirmation
}

// Option tweaks wizard construction.
type Option func(*Wizard)

// WithClock injects the time source used for past-date checks.
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) { w.now = now }
}

// WithLocation sets the business timezone used for "today".
func WithLocation(loc *time.Location) Option {
	return func(w *Wizard) { w.loc = loc }
}

// New creates a wizard in the select-date step.
func New(calendarID string, fetcher AvailabilityFetcher, booker Booker, logger *logging.Logger, opts ...Option) *Wizard {
	if logger == nil {
		logger = logging.Default()
	}
	w := &Wizard{
		id:         uuid.NewString(),
		calendarID: calendarID,
		fetcher:    fetcher,
		booker:     booker,
		now:        time.Now,
		loc:        time.UTC,
		logger:     logger,
		step:       StepSelectDate,
		byDate:     make(map[string]availability.DaySlots),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// ID returns the session identifier.
func (w *Wizard) ID() string { return w.id }

// Step returns the current step.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Loading reports whether the availability fetch is pending.
func (w *Wizard) Loading() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loading
}

// Dates returns the selectable dates, ascending.
func (w *Wizard) Dates() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.dates))
	copy(out, w.dates)
	return out
}

// Confirmation returns the booking confirmation after success.
func (w *Wizard) Confirmation() *booking.Confirmation {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.confirmation
}

// LoadAvailability runs the one-per-instance availability fetch. While it is
// pending date selection is unavailable. If the wizard was closed before the
// fetch resolves, the result is discarded.
func (w *Wizard) LoadAvailability(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	if w.loaded || w.loading {
		w.mu.Unlock()
		return ErrAlreadyLoaded
	}
	w.loading = true
	w.mu.Unlock()

	days, err := w.fetcher.FetchAvailability(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.loading = false
	if w.closed {
		// No state update against a dismissed session.
		return ErrClosed
	}
	w.loaded = true
	if err != nil {
		w.logger.Error("wizard availability fetch failed", "error", err, "wizard_id", w.id)
		return errors.Join(ErrAvailabilityFailed, err)
	}
	for _, day := range days {
		w.byDate[day.Date] = day
		w.dates = append(w.dates, day.Date)
	}
	return nil
}

// SelectDate moves select-date -> select-time. Dates absent from the fetched
// availability or in the past are not selectable.
func (w *Wizard) SelectDate(date string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if w.step != StepSelectDate {
		return ErrInvalidTransition
	}
	if w.loading || !w.loaded {
		return ErrLoadingPending
	}
	day, ok := w.byDate[date]
	if !ok || w.isPast(date) {
		return ErrDateUnavailable
	}
	w.selectedDate = day.Date
	w.step = StepSelectTime
	return nil
}

// SelectSlot moves select-time -> enter-info.
func (w *Wizard) SelectSlot(slotID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if w.step != StepSelectTime {
		return ErrInvalidTransition
	}
	day := w.byDate[w.selectedDate]
	for i := range day.Slots {
		if day.Slots[i].ID == slotID {
			slot := day.Slots[i]
			w.selectedSlot = &slot
			w.step = StepEnterInfo
			return nil
		}
	}
	return ErrSlotUnknown
}

// Back steps enter-info -> select-time -> select-date. Success is terminal.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if w.submitting {
		return ErrSubmitInFlight
	}
	switch w.step {
	case StepEnterInfo:
		w.selectedSlot = nil
		w.step = StepSelectTime
	case StepSelectTime:
		w.selectedDate = ""
		w.step = StepSelectDate
	default:
		return ErrInvalidTransition
	}
	return nil
}

// Submit moves enter-info -> success when the booking succeeds. On failure
// the wizard stays in enter-info so the visitor can retry without re-typing.
// A second Submit while one is in flight is rejected.
func (w *Wizard) Submit(ctx context.Context, contact booking.ContactInfo, notes string) (*booking.Confirmation, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, ErrClosed
	}
	if w.step != StepEnterInfo {
		w.mu.Unlock()
		return nil, ErrInvalidTransition
	}
	if w.submitting {
		w.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	w.submitting = true
	req := booking.Request{
		CalendarID: w.calendarID,
		Slot: booking.SlotSelection{
			StartTime: w.selectedSlot.StartTime,
			EndTime:   w.selectedSlot.EndTime,
		},
		Contact: contact,
		Notes:   notes,
	}
	w.mu.Unlock()

	conf, err := w.booker.Book(ctx, req)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false
	if err != nil {
		// Stay in enter-info; input is preserved on the client for retry.
		return nil, err
	}
	w.step = StepSuccess
	w.confirmation = conf
	return conf, nil
}

// Close dismisses the wizard. It is available from any step except
// mid-submission, so an in-flight write is never abandoned.
func (w *Wizard) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if w.submitting {
		return ErrCloseDuringSubmit
	}
	w.closed = true
	return nil
}

func (w *Wizard) isPast(date string) bool {
	day, err := time.ParseInLocation("2006-01-02", date, w.loc)
	if err != nil {
		return true
	}
	today := w.now().In(w.loc)
	startOfToday := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, w.loc)
	return day.Before(startOfToday)
}
