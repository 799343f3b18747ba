package usecase

import (
	"context"
	"sort"
	"time"

	"station-dispatch/internal/data/entity"
	"station-dispatch/internal/data/repository"
	"station-dispatch/internal/dispatch"
	"station-dispatch/pkg/cache"
	"station-dispatch/pkg/database"
	"station-dispatch/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// In-memory fakes standing in for the Postgres repositories. Lock* methods
// return copies so tests catch writes that never went through Update*.

type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }
func (t *fakeTx) QueryRow(context.Context, string, ...any) pgx.Row        { return nil }
func (t *fakeTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}
func (t *fakeTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeDB struct {
	txs []*fakeTx
}

func (d *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }
func (d *fakeDB) QueryRow(context.Context, string, ...any) pgx.Row        { return nil }
func (d *fakeDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (d *fakeDB) Begin(context.Context) (database.Tx, error) {
	tx := &fakeTx{}
	d.txs = append(d.txs, tx)
	return tx, nil
}
func (d *fakeDB) Ping(context.Context) error { return nil }
func (d *fakeDB) Close()                     {}

// ==================== QUEUE ====================

type fakeQueueRepo struct {
	entries map[uuid.UUID]*entity.QueueEntry
}

func newFakeQueueRepo() *fakeQueueRepo {
	return &fakeQueueRepo{entries: make(map[uuid.UUID]*entity.QueueEntry)}
}

func (f *fakeQueueRepo) add(e *entity.QueueEntry) *entity.QueueEntry {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	f.entries[e.ID] = e
	return e
}

func copyEntry(e *entity.QueueEntry) *entity.QueueEntry {
	c := *e
	return &c
}

func (f *fakeQueueRepo) byDestination(destinationID string, onlyBookable bool) []*entity.QueueEntry {
	var out []*entity.QueueEntry
	for _, e := range f.entries {
		if e.DestinationID != destinationID {
			continue
		}
		if onlyBookable && e.AvailableSeats == 0 {
			continue
		}
		out = append(out, copyEntry(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func (f *fakeQueueRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.QueueEntry, error) {
	if e, ok := f.entries[id]; ok {
		return copyEntry(e), nil
	}
	return nil, nil
}

func (f *fakeQueueRepo) FindByVehicleID(_ context.Context, vehicleID uuid.UUID) (*entity.QueueEntry, error) {
	for _, e := range f.entries {
		if e.VehicleID == vehicleID {
			return copyEntry(e), nil
		}
	}
	return nil, nil
}

func (f *fakeQueueRepo) ListByDestination(_ context.Context, destinationID string) ([]*entity.QueueEntry, error) {
	return f.byDestination(destinationID, false), nil
}

func (f *fakeQueueRepo) InsertTx(_ context.Context, _ database.Tx, entry *entity.QueueEntry) error {
	f.entries[entry.ID] = copyEntry(entry)
	return nil
}

func (f *fakeQueueRepo) MaxPositionTx(_ context.Context, _ database.Tx, destinationID string) (int, error) {
	max := 0
	for _, e := range f.entries {
		if e.DestinationID == destinationID && e.Position > max {
			max = e.Position
		}
	}
	return max, nil
}

func (f *fakeQueueRepo) LockByIDTx(ctx context.Context, _ database.Tx, id uuid.UUID) (*entity.QueueEntry, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeQueueRepo) LockByVehicleIDTx(ctx context.Context, _ database.Tx, vehicleID uuid.UUID) (*entity.QueueEntry, error) {
	return f.FindByVehicleID(ctx, vehicleID)
}

func (f *fakeQueueRepo) LockBookableByDestinationTx(_ context.Context, _ database.Tx, destinationID string) ([]*entity.QueueEntry, error) {
	return f.byDestination(destinationID, true), nil
}

func (f *fakeQueueRepo) LockByDestinationTx(_ context.Context, _ database.Tx, destinationID string) ([]*entity.QueueEntry, error) {
	return f.byDestination(destinationID, false), nil
}

func (f *fakeQueueRepo) UpdateSeatsTx(_ context.Context, _ database.Tx, id uuid.UUID, availableSeats int, status entity.QueueStatus) error {
	e := f.entries[id]
	e.AvailableSeats = availableSeats
	e.Status = status
	return nil
}

func (f *fakeQueueRepo) RetargetTx(_ context.Context, _ database.Tx, id uuid.UUID, destinationID, destinationName string, basePrice float64, position int) error {
	e := f.entries[id]
	e.DestinationID = destinationID
	e.DestinationName = destinationName
	e.BasePrice = basePrice
	e.Position = position
	return nil
}

func (f *fakeQueueRepo) UpdatePositionTx(_ context.Context, _ database.Tx, id uuid.UUID, position int) error {
	f.entries[id].Position = position
	return nil
}

func (f *fakeQueueRepo) ShiftPositionsUpTx(_ context.Context, _ database.Tx, destinationID string, belowPosition int) error {
	for _, e := range f.entries {
		if e.DestinationID == destinationID && e.Position < belowPosition {
			e.Position++
		}
	}
	return nil
}

func (f *fakeQueueRepo) CloseGapTx(_ context.Context, _ database.Tx, destinationID string, removedPosition int) error {
	for _, e := range f.entries {
		if e.DestinationID == destinationID && e.Position > removedPosition {
			e.Position--
		}
	}
	return nil
}

func (f *fakeQueueRepo) DeleteTx(_ context.Context, _ database.Tx, id uuid.UUID) error {
	delete(f.entries, id)
	return nil
}

// ==================== BOOKING ====================

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*entity.Booking
	order    []uuid.UUID
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*entity.Booking)}
}

func copyBooking(b *entity.Booking) *entity.Booking {
	c := *b
	return &c
}

func (f *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	if b, ok := f.bookings[id]; ok {
		return copyBooking(b), nil
	}
	return nil, nil
}

func (f *fakeBookingRepo) FindByVerificationCode(_ context.Context, code string) (*entity.Booking, error) {
	for _, b := range f.bookings {
		if b.VerificationCode == code {
			return copyBooking(b), nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) CreateTx(_ context.Context, _ database.Tx, booking *entity.Booking) error {
	f.bookings[booking.ID] = copyBooking(booking)
	f.order = append(f.order, booking.ID)
	return nil
}

func (f *fakeBookingRepo) LockByIDTx(ctx context.Context, _ database.Tx, id uuid.UUID) (*entity.Booking, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeBookingRepo) ListLiveByQueueEntryTx(_ context.Context, _ database.Tx, queueEntryID uuid.UUID) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, id := range f.order {
		b, ok := f.bookings[id]
		if ok && b.QueueEntryID == queueEntryID && b.PaymentStatus == entity.PaymentStatusPaid {
			out = append(out, copyBooking(b))
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) FindLatestLiveByDestinationTx(_ context.Context, _ database.Tx, destinationID string, createdBy *uuid.UUID) (*entity.Booking, error) {
	for i := len(f.order) - 1; i >= 0; i-- {
		b, ok := f.bookings[f.order[i]]
		if !ok || b.DestinationID != destinationID || b.PaymentStatus != entity.PaymentStatusPaid {
			continue
		}
		if createdBy != nil && b.CreatedBy != *createdBy {
			continue
		}
		return copyBooking(b), nil
	}
	return nil, nil
}

func (f *fakeBookingRepo) UpdateSeatsTx(_ context.Context, _ database.Tx, id uuid.UUID, seatsBooked int, totalAmount float64) error {
	b := f.bookings[id]
	b.SeatsBooked = seatsBooked
	b.TotalAmount = totalAmount
	return nil
}

func (f *fakeBookingRepo) ReassignQueueEntryTx(_ context.Context, _ database.Tx, fromEntryID, toEntryID uuid.UUID) error {
	for _, b := range f.bookings {
		if b.QueueEntryID == fromEntryID && b.PaymentStatus == entity.PaymentStatusPaid {
			b.QueueEntryID = toEntryID
		}
	}
	return nil
}

func (f *fakeBookingRepo) CancelLiveByQueueEntryTx(_ context.Context, _ database.Tx, queueEntryID uuid.UUID) error {
	for _, b := range f.bookings {
		if b.QueueEntryID == queueEntryID && b.PaymentStatus == entity.PaymentStatusPaid {
			b.PaymentStatus = entity.PaymentStatusCancelled
		}
	}
	return nil
}

func (f *fakeBookingRepo) DeleteTx(_ context.Context, _ database.Tx, id uuid.UUID) error {
	delete(f.bookings, id)
	return nil
}

// ==================== EXIT PASS ====================

type fakeExitPassRepo struct {
	passes []*entity.ExitPass
}

func (f *fakeExitPassRepo) CreateTx(_ context.Context, _ database.Tx, pass *entity.ExitPass) error {
	c := *pass
	f.passes = append(f.passes, &c)
	return nil
}

func (f *fakeExitPassRepo) ExistsForQueueEntryTx(_ context.Context, _ database.Tx, queueEntryID uuid.UUID) (bool, error) {
	for _, p := range f.passes {
		if p.QueueEntryID == queueEntryID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeExitPassRepo) FindLatestByDestinationSinceTx(_ context.Context, _ database.Tx, destinationID string, since time.Time) (*entity.ExitPass, error) {
	var latest *entity.ExitPass
	for _, p := range f.passes {
		if p.DestinationID != destinationID || p.IssuedAt.Before(since) {
			continue
		}
		if latest == nil || p.IssuedAt.After(latest.IssuedAt) {
			latest = p
		}
	}
	if latest == nil {
		return nil, nil
	}
	c := *latest
	return &c, nil
}

func (f *fakeExitPassRepo) ListByDestinationSince(_ context.Context, destinationID string, since time.Time) ([]*entity.ExitPass, error) {
	var out []*entity.ExitPass
	for _, p := range f.passes {
		if p.DestinationID == destinationID && !p.IssuedAt.Before(since) {
			c := *p
			out = append(out, &c)
		}
	}
	return out, nil
}

// ==================== VEHICLE / ROUTE / GRANT ====================

type fakeVehicleRepo struct {
	vehicles map[uuid.UUID]*entity.Vehicle
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{vehicles: make(map[uuid.UUID]*entity.Vehicle)}
}

func (f *fakeVehicleRepo) add(v *entity.Vehicle) *entity.Vehicle {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	f.vehicles[v.ID] = v
	return v
}

func (f *fakeVehicleRepo) Create(_ context.Context, vehicle *entity.Vehicle) error {
	c := *vehicle
	f.vehicles[vehicle.ID] = &c
	return nil
}

func (f *fakeVehicleRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Vehicle, error) {
	if v, ok := f.vehicles[id]; ok {
		c := *v
		return &c, nil
	}
	return nil, nil
}

func (f *fakeVehicleRepo) FindByLicensePlate(_ context.Context, plate string) (*entity.Vehicle, error) {
	for _, v := range f.vehicles {
		if v.LicensePlate == plate {
			c := *v
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeVehicleRepo) List(_ context.Context, limit, offset int) ([]*entity.Vehicle, error) {
	var out []*entity.Vehicle
	for _, v := range f.vehicles {
		c := *v
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LicensePlate < out[j].LicensePlate })
	if offset > len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeVehicleRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	f.vehicles[id].IsActive = active
	return nil
}

func (f *fakeVehicleRepo) SetBanned(_ context.Context, id uuid.UUID, banned bool) error {
	f.vehicles[id].IsBanned = banned
	return nil
}

type fakeRouteRepo struct {
	routes map[string]*entity.Route
}

func newFakeRouteRepo() *fakeRouteRepo {
	return &fakeRouteRepo{routes: make(map[string]*entity.Route)}
}

func (f *fakeRouteRepo) Create(_ context.Context, route *entity.Route) error {
	c := *route
	f.routes[route.DestinationID] = &c
	return nil
}

func (f *fakeRouteRepo) FindByDestinationID(_ context.Context, destinationID string) (*entity.Route, error) {
	if r, ok := f.routes[destinationID]; ok {
		c := *r
		return &c, nil
	}
	return nil, nil
}

func (f *fakeRouteRepo) List(_ context.Context) ([]*entity.Route, error) {
	var out []*entity.Route
	for _, r := range f.routes {
		c := *r
		out = append(out, &c)
	}
	return out, nil
}

type fakeGrantRepo struct {
	grants map[string]*entity.DestinationGrant
}

func newFakeGrantRepo() *fakeGrantRepo {
	return &fakeGrantRepo{grants: make(map[string]*entity.DestinationGrant)}
}

func grantKey(vehicleID uuid.UUID, destinationID string) string {
	return vehicleID.String() + "/" + destinationID
}

func (f *fakeGrantRepo) Create(_ context.Context, grant *entity.DestinationGrant) error {
	c := *grant
	f.grants[grantKey(grant.VehicleID, grant.DestinationID)] = &c
	return nil
}

func (f *fakeGrantRepo) Find(_ context.Context, vehicleID uuid.UUID, destinationID string) (*entity.DestinationGrant, error) {
	if g, ok := f.grants[grantKey(vehicleID, destinationID)]; ok {
		c := *g
		return &c, nil
	}
	return nil, nil
}

func (f *fakeGrantRepo) ListByVehicle(_ context.Context, vehicleID uuid.UUID) ([]*entity.DestinationGrant, error) {
	var out []*entity.DestinationGrant
	for _, g := range f.grants {
		if g.VehicleID == vehicleID {
			c := *g
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeGrantRepo) Delete(_ context.Context, vehicleID uuid.UUID, destinationID string) error {
	delete(f.grants, grantKey(vehicleID, destinationID))
	return nil
}

// ==================== DAY PASS / STAFF / SESSION ====================

type fakeDayPassRepo struct {
	passes map[string]*entity.DayPass
}

func newFakeDayPassRepo() *fakeDayPassRepo {
	return &fakeDayPassRepo{passes: make(map[string]*entity.DayPass)}
}

func dayPassKey(vehicleID uuid.UUID, passDate time.Time) string {
	return vehicleID.String() + "/" + passDate.Format("2006-01-02")
}

func (f *fakeDayPassRepo) InsertIfAbsent(_ context.Context, pass *entity.DayPass) (bool, error) {
	key := dayPassKey(pass.VehicleID, pass.PassDate)
	if _, ok := f.passes[key]; ok {
		return false, nil
	}
	c := *pass
	f.passes[key] = &c
	return true, nil
}

type fakeStaffRepo struct {
	staff map[uuid.UUID]*entity.Staff
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{staff: make(map[uuid.UUID]*entity.Staff)}
}

func (f *fakeStaffRepo) Create(_ context.Context, staff *entity.Staff) error {
	c := *staff
	f.staff[staff.ID] = &c
	return nil
}

func (f *fakeStaffRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Staff, error) {
	if s, ok := f.staff[id]; ok {
		c := *s
		return &c, nil
	}
	return nil, nil
}

func (f *fakeStaffRepo) FindByUsername(_ context.Context, username string) (*entity.Staff, error) {
	for _, s := range f.staff {
		if s.Username == username {
			c := *s
			return &c, nil
		}
	}
	return nil, nil
}

type fakeSessionRepo struct {
	sessions map[string]*entity.StaffSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*entity.StaffSession)}
}

func (f *fakeSessionRepo) Create(_ context.Context, session *entity.StaffSession) error {
	c := *session
	f.sessions[session.Token.String()] = &c
	return nil
}

func (f *fakeSessionRepo) FindValidSession(_ context.Context, token string) (*entity.StaffSession, error) {
	if s, ok := f.sessions[token]; ok && s.ExpiresAt.After(time.Now()) {
		c := *s
		return &c, nil
	}
	return nil, nil
}

func (f *fakeSessionRepo) Delete(_ context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

// ==================== SCHEDULER / HARNESS ====================

type fakeScheduler struct {
	tasks []dispatch.Task
}

func (f *fakeScheduler) Enqueue(task dispatch.Task) {
	f.tasks = append(f.tasks, task)
}

func (f *fakeScheduler) byKind(kind dispatch.TaskKind) []dispatch.Task {
	var out []dispatch.Task
	for _, t := range f.tasks {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

// harness bundles the fakes behind a ready-to-use Service.
type harness struct {
	db       *fakeDB
	queues   *fakeQueueRepo
	bookings *fakeBookingRepo
	exits    *fakeExitPassRepo
	vehicles *fakeVehicleRepo
	routes   *fakeRouteRepo
	grants   *fakeGrantRepo
	dayPass  *fakeDayPassRepo
	staff    *fakeStaffRepo
	sessions *fakeSessionRepo
	sched    *fakeScheduler
	svc      *Service
}

func newHarness() *harness {
	h := &harness{
		db:       &fakeDB{},
		queues:   newFakeQueueRepo(),
		bookings: newFakeBookingRepo(),
		exits:    &fakeExitPassRepo{},
		vehicles: newFakeVehicleRepo(),
		routes:   newFakeRouteRepo(),
		grants:   newFakeGrantRepo(),
		dayPass:  newFakeDayPassRepo(),
		staff:    newFakeStaffRepo(),
		sessions: newFakeSessionRepo(),
		sched:    &fakeScheduler{},
	}

	repo := &repository.Repository{
		Vehicle:      h.vehicles,
		Route:        h.routes,
		Grant:        h.grants,
		Queue:        h.queues,
		Booking:      h.bookings,
		ExitPass:     h.exits,
		DayPass:      h.dayPass,
		Staff:        h.staff,
		StaffSession: h.sessions,
	}

	config := &utils.Config{
		Session: utils.SessionConfig{ExpiryHours: 12},
		Station: utils.StationConfig{Timezone: "UTC"},
		Pricing: utils.PricingConfig{DayPassFee: 10000, ServiceFeePerSeat: 5},
	}

	log := zap.NewNop()
	store := cache.New(utils.RedisConfig{}, log)
	h.svc = NewService(h.db, repo, config, h.sched, store, log)
	return h
}

// addQueuedVehicle registers a granted vehicle and parks it in the queue.
func (h *harness) addQueuedVehicle(destinationID string, position, capacity, available int, basePrice float64) (*entity.Vehicle, *entity.QueueEntry) {
	v := h.vehicles.add(&entity.Vehicle{
		LicensePlate: "DA " + uuid.NewString()[:4],
		Capacity:     capacity,
		IsActive:     true,
	})
	h.grants.grants[grantKey(v.ID, destinationID)] = &entity.DestinationGrant{
		ID:            uuid.New(),
		VehicleID:     v.ID,
		DestinationID: destinationID,
	}
	e := h.queues.add(&entity.QueueEntry{
		VehicleID:       v.ID,
		DestinationID:   destinationID,
		DestinationName: destinationID,
		Position:        position,
		Status:          entity.StatusForSeats(available, capacity),
		AvailableSeats:  available,
		TotalSeats:      capacity,
		BasePrice:       basePrice,
		EnteredAt:       time.Now(),
	})
	return v, e
}
