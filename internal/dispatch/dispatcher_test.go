package dispatch

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"station-dispatch/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPrinter struct {
	mu       sync.Mutex
	fail     bool
	payloads map[string][]byte
}

func newRecordingPrinter() *recordingPrinter {
	return &recordingPrinter{payloads: make(map[string][]byte)}
}

func (p *recordingPrinter) Print(_ context.Context, filename string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("printer offline")
	}
	p.payloads[filename] = payload
	return nil
}

func (p *recordingPrinter) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.payloads)
}

type memDayPassRepo struct {
	mu     sync.Mutex
	passes map[string]bool
}

func newMemDayPassRepo() *memDayPassRepo {
	return &memDayPassRepo{passes: make(map[string]bool)}
}

func (r *memDayPassRepo) key(vehicleID uuid.UUID, passDate time.Time) string {
	return vehicleID.String() + "/" + passDate.Format("2006-01-02")
}

func (r *memDayPassRepo) InsertIfAbsent(_ context.Context, pass *entity.DayPass) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := r.key(pass.VehicleID, pass.PassDate)
	if r.passes[key] {
		return false, nil
	}
	r.passes[key] = true
	return true, nil
}

func TestDispatcherPrintsEntryTicketOncePerDay(t *testing.T) {
	printer := newRecordingPrinter()
	dayPasses := newMemDayPassRepo()
	d := NewDispatcher(8, printer, dayPasses, 10000, time.UTC, zap.NewNop())
	d.Start()

	vehicleID := uuid.New()
	task := Task{
		Kind:         TaskEntryTicket,
		VehicleID:    vehicleID,
		LicensePlate: "DA 1001 AB",
		Destination:  "Banjarmasin",
		Position:     1,
		IssuedAt:     time.Now(),
	}
	d.Enqueue(task)
	// Second admission the same day: pass already exists, zero-fee ticket.
	task.IssuedAt = task.IssuedAt.Add(time.Minute)
	d.Enqueue(task)
	d.Stop()

	assert.Equal(t, 2, printer.count())
	assert.Len(t, dayPasses.passes, 1)
	for _, payload := range printer.payloads {
		assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
	}
}

func TestDispatcherPrintsExitPass(t *testing.T) {
	printer := newRecordingPrinter()
	d := NewDispatcher(8, printer, newMemDayPassRepo(), 10000, time.UTC, zap.NewNop())
	d.Start()

	d.Enqueue(Task{
		Kind:         TaskExitPass,
		VehicleID:    uuid.New(),
		LicensePlate: "DA 2002 BC",
		Destination:  "Martapura",
		SeatsUsed:    10,
		IssuedBy:     "Petugas Budi",
		IssuedAt:     time.Now(),
	})
	d.Stop()

	require.Equal(t, 1, printer.count())
}

func TestDispatcherSwallowsFailures(t *testing.T) {
	printer := newRecordingPrinter()
	printer.fail = true
	d := NewDispatcher(8, printer, newMemDayPassRepo(), 10000, time.UTC, zap.NewNop())
	d.Start()

	d.Enqueue(Task{
		Kind:         TaskExitPass,
		VehicleID:    uuid.New(),
		LicensePlate: "DA 3003 CD",
		Destination:  "Banjarmasin",
		SeatsUsed:    8,
		IssuedAt:     time.Now(),
	})

	// Stop drains the queue; a failing printer must not wedge the worker.
	d.Stop()
	assert.Equal(t, 0, printer.count())
}

func TestEnqueueDropsWhenFull(t *testing.T) {
	printer := newRecordingPrinter()
	d := NewDispatcher(1, printer, newMemDayPassRepo(), 10000, time.UTC, zap.NewNop())

	task := Task{Kind: TaskExitPass, VehicleID: uuid.New(), LicensePlate: "DA 4004 DE", IssuedAt: time.Now()}

	// Worker not started yet: the first fills the buffer, the second must
	// return immediately instead of blocking.
	d.Enqueue(task)
	d.Enqueue(task)

	d.Start()
	d.Stop()
	assert.Equal(t, 1, printer.count())
}
