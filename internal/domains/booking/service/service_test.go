package service_test

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"sarana/config"
	otelMocks "sarana/infras/otel/mocks"
	pgMocks "sarana/infras/postgres/mocks"
	"sarana/internal/domains/booking/conflict"
	"sarana/internal/domains/booking/guard"
	"sarana/internal/domains/booking/mocks"
	"sarana/internal/domains/booking/model"
	"sarana/internal/domains/booking/model/dto"
	"sarana/internal/domains/booking/repository"
	"sarana/internal/domains/booking/service"
	catalogMocks "sarana/internal/domains/catalog/mocks"
	catalogModel "sarana/internal/domains/catalog/model"
	notificationMocks "sarana/internal/domains/notification/mocks"
	notificationModel "sarana/internal/domains/notification/model"
	"sarana/permissions"
	"sarana/shared/constant"
	gDto "sarana/shared/dto"
	"sarana/shared/failure"
	"sarana/shared/locker"
	"sarana/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"
)

const (
	roomID    = "6b1f7d2e-3c4a-4e5b-9f60-1a2b3c4d5e01"
	vehicleID = "6b1f7d2e-3c4a-4e5b-9f60-1a2b3c4d5e02"
	assetID   = "6b1f7d2e-3c4a-4e5b-9f60-1a2b3c4d5e03"
	requestID = "9d8c7b6a-5f4e-4d3c-8b2a-190817161514"
	memberID  = "mem-1"
	otherID   = "mem-2"
)

var now = time.Date(2025, 3, 9, 8, 0, 0, 0, time.UTC)

type fixture struct {
	repo     *mocks.MockBooking
	catalog  *catalogMocks.MockCatalog
	notifier *notificationMocks.MockNotifier
	tx       *pgMocks.Transactor
	clock    *timezone.FixedClock
	svc      service.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:     mocks.NewMockBooking(ctrl),
		catalog:  catalogMocks.NewMockCatalog(ctrl),
		notifier: notificationMocks.NewMockNotifier(ctrl),
		tx:       pgMocks.NewTransactor(),
		clock:    timezone.NewFixedClock(now),
	}

	f.svc = newService(f.repo, f.catalog, f.notifier, f.tx, f.clock)

	return f
}

func newService(repo repository.Booking, catalog *catalogMocks.MockCatalog, notifier *notificationMocks.MockNotifier, tx *pgMocks.Transactor, clock timezone.Clock) service.Manager {
	g := guard.New(locker.New(5*time.Second), tx, repo)

	return service.New(repo, catalog, notifier, g, clock, &config.Config{}, otelMocks.NewOtel())
}

func as(userID, role string, modules ...string) context.Context {
	return permissions.WithPrincipal(context.Background(), permissions.Principal{
		UserID:     userID,
		Role:       role,
		Privileges: modules,
	})
}

func member(modules ...string) context.Context {
	return as(memberID, constant.RoleMember, modules...)
}

func manager(modules ...string) context.Context {
	return as("mgr-1", constant.RoleManagement, modules...)
}

func system() context.Context {
	return permissions.WithPrincipal(context.Background(), permissions.Principal{
		UserID:     constant.ContextSystem,
		Role:       constant.RoleManagement,
		AllModules: true,
	})
}

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }

func room() catalogModel.Unit {
	return catalogModel.Unit{ID: roomID, Kind: catalogModel.KindRoom, Name: "Aula", Capacity: intPtr(100)}
}

func vehicle() catalogModel.Unit {
	return catalogModel.Unit{ID: vehicleID, Kind: catalogModel.KindVehicle, Name: "Elf", Capacity: intPtr(12)}
}

func at(hour int) string {
	return now.Add(time.Duration(hour) * time.Hour).Format(time.RFC3339)
}

func submit(resourceID string, from, to int) dto.SubmitRequest {
	return dto.SubmitRequest{ResourceID: resourceID, StartTime: at(from), EndTime: at(to), Purpose: "Ibadah pemuda"}
}

func (f *fixture) expectWrite(resourceID string, existing []conflict.Booking, kind notificationModel.Kind) {
	f.repo.EXPECT().LockResourceTx(gomock.Any(), gomock.Any(), resourceID).Return(nil)
	f.repo.EXPECT().ActiveForResourceTx(gomock.Any(), gomock.Any(), resourceID).Return(existing, nil)
	f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.catalog.EXPECT().SyncStatus(gomock.Any(), gomock.Any(), resourceID).Return(catalogModel.StatusAvailable, nil)

	event := notificationModel.Event{ID: "evt-1", Kind: kind}
	f.notifier.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any(), kind).Return([]notificationModel.Event{event}, nil)
	f.notifier.EXPECT().Dispatch(gomock.Any(), event)
}

func TestManager_SubmitCreatesPendingRequest(t *testing.T) {
	f := newFixture(t)

	f.catalog.EXPECT().FindUnit(gomock.Any(), roomID).Return(room(), nil)
	f.expectWrite(roomID, nil, notificationModel.KindRequestSubmitted)

	res, err := f.svc.Submit(member(constant.ModuleRoom), submit(roomID, 1, 3))

	require.NoError(t, err)
	assert.Equal(t, string(model.StatusPending), res.Status)
	assert.Equal(t, memberID, res.RequesterID)
	assert.Equal(t, roomID, res.ResourceID)
	assert.Equal(t, 1, f.tx.Commits)
}

func TestManager_SubmitAcceptsTouchingWindow(t *testing.T) {
	f := newFixture(t)

	existing := []conflict.Booking{{
		ID:     "prev",
		Start:  now.Add(-time.Hour),
		End:    now.Add(time.Hour),
		Status: string(model.StatusApproved),
	}}

	f.catalog.EXPECT().FindUnit(gomock.Any(), roomID).Return(room(), nil)
	f.expectWrite(roomID, existing, notificationModel.KindRequestSubmitted)

	_, err := f.svc.Submit(member(constant.ModuleRoom), submit(roomID, 1, 2))

	require.NoError(t, err)
}

func TestManager_SubmitRejections(t *testing.T) {
	tests := []struct {
		name    string
		ctx     context.Context
		unit    catalogModel.Unit
		req     dto.SubmitRequest
		setup   func(f *fixture)
		kindErr failure.Kind
	}{
		{
			name:    "unauthenticated",
			ctx:     context.Background(),
			unit:    room(),
			req:     submit(roomID, 1, 2),
			kindErr: failure.KindUnauthorized,
		},
		{
			name:    "member without module privilege",
			ctx:     member(constant.ModuleRoom),
			unit:    vehicle(),
			req:     submit(vehicleID, 1, 2),
			kindErr: failure.KindAuthorization,
		},
		{
			name:    "start equals end",
			ctx:     member(constant.ModuleRoom),
			unit:    room(),
			req:     submit(roomID, 2, 2),
			kindErr: failure.KindValidation,
		},
		{
			name:    "start after end",
			ctx:     member(constant.ModuleRoom),
			unit:    room(),
			req:     submit(roomID, 3, 1),
			kindErr: failure.KindValidation,
		},
		{
			name:    "malformed timestamp",
			ctx:     member(constant.ModuleRoom),
			unit:    room(),
			req:     dto.SubmitRequest{ResourceID: roomID, StartTime: "tomorrow", EndTime: at(2), Purpose: "x"},
			kindErr: failure.KindValidation,
		},
		{
			name:    "room without purpose",
			ctx:     member(constant.ModuleRoom),
			unit:    room(),
			req:     dto.SubmitRequest{ResourceID: roomID, StartTime: at(1), EndTime: at(2)},
			kindErr: failure.KindValidation,
		},
		{
			name: "passengers over capacity",
			ctx:  member(constant.ModuleVehicle),
			unit: vehicle(),
			req: dto.SubmitRequest{
				ResourceID: vehicleID, StartTime: at(1), EndTime: at(2), PassengersCount: intPtr(20),
			},
			kindErr: failure.KindValidation,
		},
		{
			name: "unit under repair",
			ctx:  member(constant.ModuleRoom),
			unit: func() catalogModel.Unit {
				u := room()
				u.UnderRepair = true

				return u
			}(),
			req:     submit(roomID, 1, 2),
			kindErr: failure.KindValidation,
		},
		{
			name: "member booking on behalf of someone else",
			ctx:  member(constant.ModuleRoom),
			unit: room(),
			req: func() dto.SubmitRequest {
				r := submit(roomID, 1, 2)
				r.RequesterID = strPtr("8a1d2e3f-4b5c-4d6e-8f70-8192a3b4c5d6")

				return r
			}(),
			kindErr: failure.KindAuthorization,
		},
		{
			name:    "internal caller without requester",
			ctx:     system(),
			unit:    room(),
			req:     submit(roomID, 1, 2),
			kindErr: failure.KindValidation,
		},
		{
			name: "overlapping approved booking",
			ctx:  member(constant.ModuleRoom),
			unit: room(),
			req:  submit(roomID, 1, 3),
			setup: func(f *fixture) {
				f.repo.EXPECT().LockResourceTx(gomock.Any(), gomock.Any(), roomID).Return(nil)
				f.repo.EXPECT().ActiveForResourceTx(gomock.Any(), gomock.Any(), roomID).Return([]conflict.Booking{{
					ID: "other", Start: now.Add(2 * time.Hour), End: now.Add(4 * time.Hour), Status: string(model.StatusApproved),
				}}, nil)
			},
			kindErr: failure.KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.catalog.EXPECT().FindUnit(gomock.Any(), tt.req.ResourceID).Return(tt.unit, nil).AnyTimes()

			if tt.setup != nil {
				tt.setup(f)
			}

			_, err := f.svc.Submit(tt.ctx, tt.req)

			require.Error(t, err)
			assert.Equal(t, tt.kindErr, failure.GetKind(err))
			assert.Zero(t, f.tx.Commits)
		})
	}
}

func TestManager_SubmitUnknownResource(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(member(constant.ModuleRoom), submit("not-a-uuid", 1, 2))

	assert.True(t, failure.Is(err, failure.KindNotFound))
}

func TestManager_SubmitConflictNamesExistingRequest(t *testing.T) {
	f := newFixture(t)

	f.catalog.EXPECT().FindUnit(gomock.Any(), vehicleID).Return(vehicle(), nil)
	f.repo.EXPECT().LockResourceTx(gomock.Any(), gomock.Any(), vehicleID).Return(nil)
	f.repo.EXPECT().ActiveForResourceTx(gomock.Any(), gomock.Any(), vehicleID).Return([]conflict.Booking{{
		ID: "trip-7", Start: now, End: now.Add(5 * time.Hour), Status: string(model.StatusPending),
	}}, nil)

	_, err := f.svc.Submit(member(constant.ModuleVehicle), submit(vehicleID, 4, 6))

	var fail *failure.Failure
	require.ErrorAs(t, err, &fail)
	assert.Equal(t, "trip-7", fail.Details["conflicting_request_id"])
	assert.Equal(t, vehicleID, fail.Details["resource_id"])
}

func TestManager_SubmitOnBehalfByManagement(t *testing.T) {
	f := newFixture(t)

	onBehalf := "8a1d2e3f-4b5c-4d6e-8f70-8192a3b4c5d6"
	req := submit(roomID, 1, 2)
	req.RequesterID = strPtr(onBehalf)

	f.catalog.EXPECT().FindUnit(gomock.Any(), roomID).Return(room(), nil)
	f.expectWrite(roomID, nil, notificationModel.KindRequestSubmitted)

	res, err := f.svc.Submit(manager(constant.ModuleRoom), req)

	require.NoError(t, err)
	assert.Equal(t, onBehalf, res.RequesterID)
}

func TestManager_SubmitByInternalCallerForMember(t *testing.T) {
	f := newFixture(t)

	requester := "8a1d2e3f-4b5c-4d6e-8f70-8192a3b4c5d6"
	req := submit(roomID, 1, 2)
	req.RequesterID = strPtr(requester)

	f.catalog.EXPECT().FindUnit(gomock.Any(), roomID).Return(room(), nil)
	f.expectWrite(roomID, nil, notificationModel.KindRequestSubmitted)

	res, err := f.svc.Submit(system(), req)

	require.NoError(t, err)
	assert.Equal(t, requester, res.RequesterID)
}

func TestManager_ConcurrentSubmitsNeverOverlap(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMemoryBooking()
	catalog := catalogMocks.NewMockCatalog(ctrl)
	notifier := notificationMocks.NewMockNotifier(ctrl)

	catalog.EXPECT().FindUnit(gomock.Any(), roomID).Return(room(), nil).AnyTimes()
	catalog.EXPECT().SyncStatus(gomock.Any(), gomock.Any(), roomID).Return(catalogModel.StatusAvailable, nil).AnyTimes()
	notifier.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	notifier.EXPECT().Dispatch(gomock.Any()).AnyTimes()

	svc := newService(store, catalog, notifier, pgMocks.NewTransactor(), timezone.NewFixedClock(now))

	const callers = 12

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)

	for i := range callers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			// every window contains hour 3
			_, err := svc.Submit(member(constant.ModuleRoom), submit(roomID, 3-i%3, 4+i%2))

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				ok++
			case failure.Is(err, failure.KindConflict):
				conflicts++
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, callers-1, conflicts)
	assert.Len(t, store.All(), 1)
}

func TestManager_Reschedule(t *testing.T) {
	pending := model.Request{
		ID: requestID, ResourceID: roomID, ResourceKind: catalogModel.KindRoom, RequesterID: memberID,
		StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour), Status: model.StatusPending,
	}

	t.Run("moves the window excluding itself", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
		f.repo.EXPECT().LockResourceTx(gomock.Any(), gomock.Any(), roomID).Return(nil)
		f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(pending, nil)
		f.repo.EXPECT().ActiveForResourceTx(gomock.Any(), gomock.Any(), roomID).Return([]conflict.Booking{{
			ID: requestID, Start: pending.StartTime, End: pending.EndTime, Status: string(model.StatusPending),
		}}, nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, now.Add(90*time.Minute), fields[model.FieldStartTime])

				return nil
			})

		res, err := f.svc.Reschedule(member(constant.ModuleRoom), requestID, dto.RescheduleRequest{
			StartTime: now.Add(90 * time.Minute).Format(time.RFC3339),
			EndTime:   at(3),
		})

		require.NoError(t, err)
		assert.Equal(t, requestID, res.ID)
	})

	t.Run("someone else's request", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)

		_, err := f.svc.Reschedule(as(otherID, constant.RoleMember, constant.ModuleRoom), requestID, dto.RescheduleRequest{StartTime: at(1), EndTime: at(2)})

		assert.True(t, failure.Is(err, failure.KindAuthorization))
	})

	t.Run("already approved", func(t *testing.T) {
		f := newFixture(t)

		approved := pending
		approved.Status = model.StatusApproved

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approved, nil)
		f.repo.EXPECT().LockResourceTx(gomock.Any(), gomock.Any(), roomID).Return(nil)
		f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(approved, nil)

		_, err := f.svc.Reschedule(member(constant.ModuleRoom), requestID, dto.RescheduleRequest{StartTime: at(1), EndTime: at(2)})

		assert.True(t, failure.Is(err, failure.KindInvalidState))
		assert.Equal(t, 1, f.tx.Rollbacks)
	})
}

func TestManager_Cancel(t *testing.T) {
	pending := model.Request{
		ID: requestID, ResourceID: roomID, ResourceKind: catalogModel.KindRoom, RequesterID: memberID,
		StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour), Status: model.StatusPending,
	}

	t.Run("requester cancels pending", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
		f.repo.EXPECT().LockResourceTx(gomock.Any(), gomock.Any(), roomID).Return(nil)
		f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(pending, nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, string(model.StatusCancelled), fields[model.FieldStatus])

				return nil
			})
		f.catalog.EXPECT().SyncStatus(gomock.Any(), gomock.Any(), roomID).Return(catalogModel.StatusAvailable, nil)

		event := notificationModel.Event{ID: "evt-2", Kind: notificationModel.KindRequestCancelled}
		f.notifier.EXPECT().Record(gomock.Any(), gomock.Any(), notificationModel.Subject{
			RequestID: requestID, RequesterID: memberID, Module: constant.ModuleRoom,
		}, notificationModel.KindRequestCancelled).Return([]notificationModel.Event{event}, nil)
		f.notifier.EXPECT().Dispatch(gomock.Any(), event)

		require.NoError(t, f.svc.Cancel(member(constant.ModuleRoom), requestID))
	})

	t.Run("other member may not cancel", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)

		err := f.svc.Cancel(as(otherID, constant.RoleMember, constant.ModuleRoom), requestID)

		assert.True(t, failure.Is(err, failure.KindAuthorization))
	})

	t.Run("rejected cannot be cancelled", func(t *testing.T) {
		f := newFixture(t)

		rejected := pending
		rejected.Status = model.StatusRejected

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(rejected, nil)
		f.repo.EXPECT().LockResourceTx(gomock.Any(), gomock.Any(), roomID).Return(nil)
		f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(rejected, nil)

		err := f.svc.Cancel(member(constant.ModuleRoom), requestID)

		var fail *failure.Failure
		require.ErrorAs(t, err, &fail)
		assert.Equal(t, failure.KindInvalidState, fail.Kind)
		assert.Equal(t, "rejected", fail.Details["current_status"])
	})

	t.Run("missing request", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Request{}, nil)

		err := f.svc.Cancel(member(constant.ModuleRoom), requestID)

		assert.True(t, failure.Is(err, failure.KindNotFound))
	})
}

func TestManager_Get(t *testing.T) {
	detail := model.RequestDetail{
		Request: model.Request{
			ID: requestID, ResourceID: vehicleID, ResourceKind: catalogModel.KindVehicle, RequesterID: memberID,
			StartTime: now, EndTime: now.Add(time.Hour), Status: model.StatusPending,
		},
		ResourceName:  "Elf",
		RequesterName: "Budi",
	}

	tests := []struct {
		name    string
		ctx     context.Context
		kindErr failure.Kind
	}{
		{name: "requester", ctx: member()},
		{name: "manager of module", ctx: manager(constant.ModuleVehicle)},
		{name: "manager of other module", ctx: manager(constant.ModuleRoom), kindErr: failure.KindAuthorization},
		{name: "other member", ctx: as(otherID, constant.RoleMember, constant.ModuleVehicle), kindErr: failure.KindAuthorization},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().GetDetail(gomock.Any(), gomock.Any()).Return(detail, nil)

			res, err := f.svc.Get(tt.ctx, requestID)

			if tt.kindErr != "" {
				assert.Equal(t, tt.kindErr, failure.GetKind(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Elf", res.ResourceName)
			assert.Equal(t, "Budi", res.RequesterName)
		})
	}
}

func TestManager_ListScopesToManagedModules(t *testing.T) {
	f := newFixture(t)

	var captured gDto.FilterGroup

	f.repo.EXPECT().CountDetail(gomock.Any(), gomock.Any()).Return(1, nil)
	f.repo.EXPECT().GetAllDetail(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.RequestDetail, error) {
			captured = filter

			assert.Equal(t, model.TableName+"."+constant.DefaultValueSortBy, params.SortBy)

			return []model.RequestDetail{{Request: model.Request{ID: requestID}}}, nil
		})

	res, err := f.svc.List(manager(constant.ModuleVehicle), gDto.QueryParams{Page: 1, Limit: 10, SortBy: "password"}, gDto.FilterGroup{})

	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)

	where, args := captured.GetWhereClause()
	assert.Contains(t, where, "booking_requests.resource_kind IN")
	assert.Equal(t, string(catalogModel.KindVehicle), args["resource_kind_0"])
}

func TestManager_ListRequiresManagement(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.List(member(constant.ModuleRoom), gDto.QueryParams{}, gDto.FilterGroup{})

	assert.True(t, failure.Is(err, failure.KindAuthorization))
}

func TestManager_ListMineFiltersByRequester(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().CountDetail(gomock.Any(), gomock.Any()).Return(0, nil)
	f.repo.EXPECT().GetAllDetail(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup) ([]model.RequestDetail, error) {
			_, args := filter.GetWhereClause()
			assert.Equal(t, memberID, args[model.FieldRequesterID])

			return nil, nil
		})

	res, err := f.svc.ListMine(member(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

	require.NoError(t, err)
	assert.Empty(t, res.Bookings)
}

func TestManager_PendingQueueOrdersByStart(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().CountDetail(gomock.Any(), gomock.Any()).Return(0, nil)
	f.repo.EXPECT().GetAllDetail(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.RequestDetail, error) {
			assert.Equal(t, model.TableName+"."+model.FieldStartTime, params.SortBy)
			assert.Equal(t, gDto.SortDirAsc, params.SortDir)

			_, args := filter.GetWhereClause()
			assert.Equal(t, string(model.StatusPending), args[model.FieldStatus])

			return nil, nil
		})

	_, err := f.svc.PendingQueue(manager(constant.ModuleRoom), gDto.QueryParams{Page: 1, Limit: 10})

	require.NoError(t, err)
}

func TestManager_Schedule(t *testing.T) {
	from, to := now, now.Add(24*time.Hour)

	t.Run("lists blocking windows", func(t *testing.T) {
		f := newFixture(t)

		f.catalog.EXPECT().FindUnit(gomock.Any(), roomID).Return(room(), nil)
		f.repo.EXPECT().Schedule(gomock.Any(), roomID, from, to).Return([]model.Request{
			{ID: requestID, StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour), Status: model.StatusApproved},
		}, nil)

		res, err := f.svc.Schedule(member(), roomID, from, to)

		require.NoError(t, err)
		require.Len(t, res.Entries, 1)
		assert.Equal(t, requestID, res.Entries[0].RequestID)
	})

	t.Run("inverted range", func(t *testing.T) {
		f := newFixture(t)

		f.catalog.EXPECT().FindUnit(gomock.Any(), roomID).Return(room(), nil)

		_, err := f.svc.Schedule(member(), roomID, to, from)

		assert.True(t, failure.Is(err, failure.KindValidation))
	})
}

func TestManager_ExportWritesWorkbook(t *testing.T) {
	f := newFixture(t)

	decided := now.Add(time.Hour)

	f.repo.EXPECT().GetAllDetail(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.RequestDetail{{
		Request: model.Request{
			ID: requestID, ResourceKind: catalogModel.KindAsset, ResourceID: assetID,
			StartTime: now, EndTime: now.Add(time.Hour), Purpose: "Natal", Status: model.StatusApproved,
			DecidedAt: &decided, DecisionNote: strPtr("ok"),
		},
		ResourceName:  "Proyektor",
		RequesterName: "Budi",
	}}, nil)

	data, err := f.svc.Export(manager(), gDto.FilterGroup{})
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)

	defer book.Close()

	rows, err := book.GetRows("Riwayat Peminjaman")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Resource", rows[0][1])
	assert.Equal(t, "Proyektor", rows[1][1])
	assert.Equal(t, "ok", rows[1][9])
}
