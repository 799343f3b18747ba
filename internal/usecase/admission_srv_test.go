package usecase

import (
	"context"
	"testing"

	"station-dispatch/internal/data/entity"
	"station-dispatch/internal/dispatch"
	"station-dispatch/internal/domain"
	"station-dispatch/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnterFreshVehicle(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	v := h.vehicles.add(&entity.Vehicle{LicensePlate: "DA 1001 AB", Capacity: 12, IsActive: true})
	h.grants.grants[grantKey(v.ID, "BJM")] = &entity.DestinationGrant{VehicleID: v.ID, DestinationID: "BJM"}
	h.routes.routes["BJM"] = &entity.Route{DestinationID: "BJM", Name: "Banjarmasin", BasePrice: 50000}

	entry, err := h.svc.Admission.Enter(ctx, &request.EnterQueueRequest{
		VehicleID:     v.ID.String(),
		DestinationID: "BJM",
	}, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 1, entry.Position)
	assert.Equal(t, entity.QueueStatusWaiting, entry.Status)
	assert.Equal(t, 12, entry.AvailableSeats)
	assert.Equal(t, 12, entry.TotalSeats)
	assert.Equal(t, "Banjarmasin", entry.DestinationName)
	assert.Equal(t, 50000.0, entry.BasePrice)

	tasks := h.sched.byKind(dispatch.TaskEntryTicket)
	require.Len(t, tasks, 1)
	assert.Equal(t, "DA 1001 AB", tasks[0].LicensePlate)
}

func TestEnterAppendsAtTail(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	h.addQueuedVehicle("BJM", 1, 10, 10, 40000)
	v := h.vehicles.add(&entity.Vehicle{LicensePlate: "DA 2002 BC", Capacity: 8, IsActive: true})
	h.grants.grants[grantKey(v.ID, "BJM")] = &entity.DestinationGrant{VehicleID: v.ID, DestinationID: "BJM"}

	entry, err := h.svc.Admission.Enter(ctx, &request.EnterQueueRequest{
		VehicleID:     v.ID.String(),
		DestinationID: "BJM",
	}, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 2, entry.Position)
}

func TestEnterRejections(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	t.Run("unknown vehicle", func(t *testing.T) {
		_, err := h.svc.Admission.Enter(ctx, &request.EnterQueueRequest{
			VehicleID:     uuid.NewString(),
			DestinationID: "BJM",
		}, uuid.New())
		require.Error(t, err)
		assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	})

	t.Run("banned vehicle", func(t *testing.T) {
		v := h.vehicles.add(&entity.Vehicle{LicensePlate: "DA 3003 CD", Capacity: 10, IsActive: true, IsBanned: true})
		_, err := h.svc.Admission.Enter(ctx, &request.EnterQueueRequest{
			VehicleID:     v.ID.String(),
			DestinationID: "BJM",
		}, uuid.New())
		require.Error(t, err)
		assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))
	})

	t.Run("inactive vehicle", func(t *testing.T) {
		v := h.vehicles.add(&entity.Vehicle{LicensePlate: "DA 4004 DE", Capacity: 10, IsActive: false})
		_, err := h.svc.Admission.Enter(ctx, &request.EnterQueueRequest{
			VehicleID:     v.ID.String(),
			DestinationID: "BJM",
		}, uuid.New())
		require.Error(t, err)
		assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))
	})

	t.Run("no grant for destination", func(t *testing.T) {
		v := h.vehicles.add(&entity.Vehicle{LicensePlate: "DA 5005 EF", Capacity: 10, IsActive: true})
		_, err := h.svc.Admission.Enter(ctx, &request.EnterQueueRequest{
			VehicleID:     v.ID.String(),
			DestinationID: "MTP",
		}, uuid.New())
		require.Error(t, err)
		assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))
	})
}

func TestEnterNameFallsBackToCallerThenGrant(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	v := h.vehicles.add(&entity.Vehicle{LicensePlate: "DA 6006 FG", Capacity: 10, IsActive: true})
	h.grants.grants[grantKey(v.ID, "MTP")] = &entity.DestinationGrant{VehicleID: v.ID, DestinationID: "MTP", Name: "Martapura"}

	// No routes row, caller supplies a name: caller wins over the grant.
	entry, err := h.svc.Admission.Enter(ctx, &request.EnterQueueRequest{
		VehicleID:       v.ID.String(),
		DestinationID:   "MTP",
		DestinationName: "Martapura Kota",
	}, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "Martapura Kota", entry.DestinationName)
	assert.Equal(t, 0.0, entry.BasePrice)
}

func TestEnterRetargetMovesEntry(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	v1, e1 := h.addQueuedVehicle("BJM", 1, 10, 10, 40000)
	_, e2 := h.addQueuedVehicle("BJM", 2, 10, 10, 40000)
	h.addQueuedVehicle("MTP", 1, 10, 10, 20000)
	h.grants.grants[grantKey(v1.ID, "MTP")] = &entity.DestinationGrant{VehicleID: v1.ID, DestinationID: "MTP"}

	entry, err := h.svc.Admission.Enter(ctx, &request.EnterQueueRequest{
		VehicleID:     v1.ID.String(),
		DestinationID: "MTP",
	}, uuid.New())
	require.NoError(t, err)

	// Moved, not duplicated: same entry id, tail of the new queue.
	assert.Equal(t, e1.ID.String(), entry.ID)
	assert.Equal(t, "MTP", entry.DestinationID)
	assert.Equal(t, 2, entry.Position)

	// The old queue closed its gap.
	assert.Equal(t, 1, h.queues.entries[e2.ID].Position)

	// A re-target still forces a fresh entry-ticket decision.
	assert.Len(t, h.sched.byKind(dispatch.TaskEntryTicket), 1)
}

func TestEnterRetargetSameDestinationGoesToTail(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	v1, e1 := h.addQueuedVehicle("BJM", 1, 10, 10, 40000)
	_, e2 := h.addQueuedVehicle("BJM", 2, 10, 10, 40000)

	entry, err := h.svc.Admission.Enter(ctx, &request.EnterQueueRequest{
		VehicleID:     v1.ID.String(),
		DestinationID: "BJM",
	}, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 2, entry.Position)
	assert.Equal(t, 1, h.queues.entries[e2.ID].Position)
	assert.Equal(t, 2, h.queues.entries[e1.ID].Position)
}

func TestRemoveClosesGap(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, e1 := h.addQueuedVehicle("BJM", 1, 10, 10, 40000)
	v2, e2 := h.addQueuedVehicle("BJM", 2, 10, 10, 40000)
	_, e3 := h.addQueuedVehicle("BJM", 3, 10, 10, 40000)

	require.NoError(t, h.svc.Admission.Remove(ctx, v2.ID.String()))

	_, gone := h.queues.entries[e2.ID]
	assert.False(t, gone)
	assert.Equal(t, 1, h.queues.entries[e1.ID].Position)
	assert.Equal(t, 2, h.queues.entries[e3.ID].Position)
}

func TestRemoveUnknownVehicle(t *testing.T) {
	h := newHarness()

	err := h.svc.Admission.Remove(context.Background(), uuid.NewString())
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestReorderAppliesPermutation(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, e1 := h.addQueuedVehicle("BJM", 1, 10, 10, 40000)
	_, e2 := h.addQueuedVehicle("BJM", 2, 10, 10, 40000)
	_, e3 := h.addQueuedVehicle("BJM", 3, 10, 10, 40000)

	err := h.svc.Admission.Reorder(ctx, "BJM", &request.ReorderRequest{Items: []request.ReorderItem{
		{QueueEntryID: e1.ID.String(), Position: 3},
		{QueueEntryID: e2.ID.String(), Position: 1},
		{QueueEntryID: e3.ID.String(), Position: 2},
	}})
	require.NoError(t, err)

	assert.Equal(t, 3, h.queues.entries[e1.ID].Position)
	assert.Equal(t, 1, h.queues.entries[e2.ID].Position)
	assert.Equal(t, 2, h.queues.entries[e3.ID].Position)
}

func TestReorderRejectsBadPermutations(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, e1 := h.addQueuedVehicle("BJM", 1, 10, 10, 40000)
	_, e2 := h.addQueuedVehicle("BJM", 2, 10, 10, 40000)

	cases := map[string][]request.ReorderItem{
		"duplicate position": {
			{QueueEntryID: e1.ID.String(), Position: 1},
			{QueueEntryID: e2.ID.String(), Position: 1},
		},
		"position out of range": {
			{QueueEntryID: e1.ID.String(), Position: 1},
			{QueueEntryID: e2.ID.String(), Position: 5},
		},
		"missing entry": {
			{QueueEntryID: e1.ID.String(), Position: 1},
			{QueueEntryID: uuid.NewString(), Position: 2},
		},
		"incomplete cover": {
			{QueueEntryID: e1.ID.String(), Position: 1},
		},
	}

	for name, items := range cases {
		t.Run(name, func(t *testing.T) {
			err := h.svc.Admission.Reorder(ctx, "BJM", &request.ReorderRequest{Items: items})
			require.Error(t, err)
			assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))
			// Queue stays untouched.
			assert.Equal(t, 1, h.queues.entries[e1.ID].Position)
			assert.Equal(t, 2, h.queues.entries[e2.ID].Position)
		})
	}
}

func TestMoveToFront(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, e1 := h.addQueuedVehicle("BJM", 1, 10, 10, 40000)
	_, e2 := h.addQueuedVehicle("BJM", 2, 10, 10, 40000)
	_, e3 := h.addQueuedVehicle("BJM", 3, 10, 10, 40000)

	entry, err := h.svc.Admission.MoveToFront(ctx, e3.ID.String(), "BJM")
	require.NoError(t, err)

	assert.Equal(t, 1, entry.Position)
	assert.Equal(t, 1, h.queues.entries[e3.ID].Position)
	assert.Equal(t, 2, h.queues.entries[e1.ID].Position)
	assert.Equal(t, 3, h.queues.entries[e2.ID].Position)
}

func TestMoveToFrontWrongDestination(t *testing.T) {
	h := newHarness()
	_, e1 := h.addQueuedVehicle("BJM", 1, 10, 10, 40000)

	_, err := h.svc.Admission.MoveToFront(context.Background(), e1.ID.String(), "MTP")
	require.Error(t, err)
	assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))
}

func TestQueueSummary(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	v1, _ := h.addQueuedVehicle("BJM", 1, 10, 4, 40000)
	h.addQueuedVehicle("BJM", 2, 8, 8, 40000)
	h.addQueuedVehicle("MTP", 1, 10, 10, 20000)

	summary, err := h.svc.Admission.Queue(ctx, "BJM")
	require.NoError(t, err)

	require.Len(t, summary.Entries, 2)
	assert.Equal(t, 12, summary.TotalAvailable)
	assert.Equal(t, 1, summary.Entries[0].Position)
	assert.Equal(t, v1.LicensePlate, summary.Entries[0].LicensePlate)
	assert.Equal(t, entity.QueueStatusLoading, summary.Entries[0].Status)
}
