package dispatch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"station-dispatch/internal/data/entity"
	"station-dispatch/internal/data/repository"
	"station-dispatch/pkg/metrics"
	"station-dispatch/pkg/ticket"
	"station-dispatch/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ==================== TASKS ====================

type TaskKind string

const (
	// TaskEntryTicket decides the day-pass fee for a vehicle that just
	// entered a queue and prints its entry ticket.
	TaskEntryTicket TaskKind = "entry_ticket"
	// TaskExitPass prints the exit authorization slip.
	TaskExitPass TaskKind = "exit_pass"
)

// Task is a post-commit side effect. Tasks never mutate queue or booking
// state; a lost task costs a printout, not consistency.
type Task struct {
	Kind TaskKind

	// Entry ticket fields.
	VehicleID    uuid.UUID
	LicensePlate string
	Destination  string
	Position     int

	// Exit pass fields.
	SeatsUsed        int
	IssuedBy         string
	PrevLicensePlate string
	PrevIssuedAt     *time.Time

	IssuedAt time.Time
}

// ==================== PRINTER ====================

// Printer delivers a rendered document to whatever device the booth runs.
type Printer interface {
	Print(ctx context.Context, filename string, payload []byte) error
}

// SpoolPrinter drops rendered PDFs into a spool directory that the booth
// print daemon watches.
type SpoolPrinter struct {
	dir string
}

func NewSpoolPrinter(dir string) (*SpoolPrinter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create spool dir %s: %w", dir, err)
	}
	return &SpoolPrinter{dir: dir}, nil
}

func (p *SpoolPrinter) Print(_ context.Context, filename string, payload []byte) error {
	path := filepath.Join(p.dir, filename)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write spool file %s: %w", path, err)
	}
	return nil
}

// ==================== DISPATCHER ====================

// Dispatcher runs committed side effects on a single worker goroutine.
// Enqueue never blocks the request path: a full queue drops the task and
// bumps a counter instead.
type Dispatcher struct {
	tasks     chan Task
	printer   Printer
	dayPasses repository.DayPassRepository
	fee       float64
	loc       *time.Location
	log       *zap.Logger
	done      chan struct{}
}

func NewDispatcher(
	queueSize int,
	printer Printer,
	dayPasses repository.DayPassRepository,
	dayPassFee float64,
	loc *time.Location,
	log *zap.Logger,
) *Dispatcher {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Dispatcher{
		tasks:     make(chan Task, queueSize),
		printer:   printer,
		dayPasses: dayPasses,
		fee:       dayPassFee,
		loc:       loc,
		log:       log.With(zap.String("component", "dispatcher")),
		done:      make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (d *Dispatcher) Start() {
	go d.run()
}

// Stop closes the task queue and waits for the worker to drain it.
func (d *Dispatcher) Stop() {
	close(d.tasks)
	<-d.done
}

// Enqueue hands a task to the worker. It is called after the owning
// transaction committed, so dropping under pressure is safe.
func (d *Dispatcher) Enqueue(task Task) {
	select {
	case d.tasks <- task:
	default:
		metrics.TasksDropped.WithLabelValues(string(task.Kind)).Inc()
		d.log.Warn("Task queue full, dropping task",
			zap.String("kind", string(task.Kind)),
			zap.String("license_plate", task.LicensePlate),
		)
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for task := range d.tasks {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := d.handle(ctx, task)
		cancel()

		metrics.TasksDispatched.WithLabelValues(string(task.Kind)).Inc()
		if err != nil {
			metrics.TasksFailed.WithLabelValues(string(task.Kind)).Inc()
			d.log.Error("Task failed",
				zap.Error(err),
				zap.String("kind", string(task.Kind)),
				zap.String("license_plate", task.LicensePlate),
			)
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, task Task) error {
	switch task.Kind {
	case TaskEntryTicket:
		return d.handleEntryTicket(ctx, task)
	case TaskExitPass:
		return d.handleExitPass(ctx, task)
	default:
		return fmt.Errorf("unknown task kind %q", task.Kind)
	}
}

// handleEntryTicket settles the day-pass question for the entering vehicle.
// The unique (vehicle_id, pass_date) index makes the insert the decision
// point: whoever lands the row charges the fee, everyone else prints a
// zero-fee ticket.
func (d *Dispatcher) handleEntryTicket(ctx context.Context, task Task) error {
	now := time.Now()
	pass := &entity.DayPass{
		VehicleID: task.VehicleID,
		PassDate:  utils.LocalDay(now, d.loc),
		Fee:       d.fee,
		IsActive:  true,
	}
	pass.ID = utils.GenerateUUID()
	pass.CreatedAt = now

	created, err := d.dayPasses.InsertIfAbsent(ctx, pass)
	if err != nil {
		return fmt.Errorf("day pass decision: %w", err)
	}

	payload, filename, err := ticket.BuildEntryTicket(ticket.EntryTicketData{
		LicensePlate: task.LicensePlate,
		Destination:  task.Destination,
		Position:     task.Position,
		Fee:          d.fee,
		HasDayPass:   !created,
		IssuedAt:     task.IssuedAt,
	})
	if err != nil {
		return fmt.Errorf("render entry ticket: %w", err)
	}

	if err := d.printer.Print(ctx, filename, payload); err != nil {
		return fmt.Errorf("print entry ticket: %w", err)
	}

	d.log.Info("Entry ticket printed",
		zap.String("license_plate", task.LicensePlate),
		zap.String("destination", task.Destination),
		zap.Bool("day_pass_charged", created),
	)
	return nil
}

func (d *Dispatcher) handleExitPass(ctx context.Context, task Task) error {
	payload, filename, err := ticket.BuildExitPass(ticket.ExitPassData{
		LicensePlate:     task.LicensePlate,
		Destination:      task.Destination,
		SeatsUsed:        task.SeatsUsed,
		IssuedBy:         task.IssuedBy,
		IssuedAt:         task.IssuedAt,
		PrevLicensePlate: task.PrevLicensePlate,
		PrevIssuedAt:     task.PrevIssuedAt,
	})
	if err != nil {
		return fmt.Errorf("render exit pass: %w", err)
	}

	if err := d.printer.Print(ctx, filename, payload); err != nil {
		return fmt.Errorf("print exit pass: %w", err)
	}

	d.log.Info("Exit pass printed",
		zap.String("license_plate", task.LicensePlate),
		zap.String("destination", task.Destination),
		zap.Int("seats_used", task.SeatsUsed),
	)
	return nil
}
