package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"sarana/config"
	"sarana/infras/otel"
	"sarana/internal/domains/booking/conflict"
	"sarana/internal/domains/booking/guard"
	"sarana/internal/domains/booking/model"
	"sarana/internal/domains/booking/model/dto"
	"sarana/internal/domains/booking/repository"
	catalogService "sarana/internal/domains/catalog/service"
	notificationModel "sarana/internal/domains/notification/model"
	notificationService "sarana/internal/domains/notification/service"
	"sarana/permissions"
	"sarana/shared"
	"sarana/shared/constant"
	"sarana/shared/failure"
	"sarana/shared/timezone"
	"sarana/shared/validator"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const defaultSweepBatch = 100

type Approval interface {
	Decide(ctx context.Context, id string, req dto.DecideRequest) (dto.BookingResponse, error)
	Complete(ctx context.Context, id string, req dto.CloseRequest) (dto.BookingResponse, error)
	Withdraw(ctx context.Context, id string, req dto.CloseRequest) (dto.BookingResponse, error)
	SweepLapsed(ctx context.Context) (int, error)
}

type serviceImpl struct {
	repo     repository.Booking
	catalog  catalogService.Catalog
	notifier notificationService.Notifier
	guard    *guard.Guard
	clock    timezone.Clock
	cfg      *config.Config
	otel     otel.Otel
}

func New(
	repo repository.Booking,
	catalog catalogService.Catalog,
	notifier notificationService.Notifier,
	guard *guard.Guard,
	clock timezone.Clock,
	cfg *config.Config,
	otel otel.Otel,
) Approval {
	return &serviceImpl{
		repo:     repo,
		catalog:  catalog,
		notifier: notifier,
		guard:    guard,
		clock:    clock,
		cfg:      cfg,
		otel:     otel,
	}
}

// transition describes one move of the state machine and what it records.
type transition struct {
	next  model.Status
	kind  notificationModel.Kind
	note  string
	actor string
	// recheck re-runs the conflict detector against approved requests before committing.
	recheck bool
	decided bool
}

// Decide approves or rejects a pending request. Approval re-checks the window against the
// approved set so two overlapping pending requests cannot both be approved.
func (s *serviceImpl) Decide(ctx context.Context, id string, req dto.DecideRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Decide")
	defer scope.End()
	defer scope.TraceIfError(err)

	current, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	principal, err := permissions.Require(ctx, permissions.Decide(current.ResourceKind.Module()))
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	t := transition{
		next:    model.StatusRejected,
		kind:    notificationModel.KindRequestRejected,
		note:    req.Note,
		actor:   principal.UserID,
		decided: true,
	}

	if req.Decision == dto.DecisionApprove {
		t.next, t.kind, t.recheck = model.StatusApproved, notificationModel.KindRequestApproved, true
	}

	updated, err := s.apply(ctx, current, t)
	if err != nil {
		return res, err
	}

	log.Info().Str("request_id", id).Str("decision", req.Decision).Str("by", principal.UserID).Msg("booking request decided")

	res.FromModel(updated)

	return res, nil
}

// Complete closes an approved request, e.g. when a borrowed asset is returned.
func (s *serviceImpl) Complete(ctx context.Context, id string, req dto.CloseRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Complete")
	defer scope.End()
	defer scope.TraceIfError(err)

	return s.close(ctx, id, req, model.StatusCompleted, notificationModel.KindRequestCompleted)
}

// Withdraw cancels an approved request on behalf of management.
func (s *serviceImpl) Withdraw(ctx context.Context, id string, req dto.CloseRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Withdraw")
	defer scope.End()
	defer scope.TraceIfError(err)

	return s.close(ctx, id, req, model.StatusCancelled, notificationModel.KindRequestCancelled)
}

func (s *serviceImpl) close(ctx context.Context, id string, req dto.CloseRequest, next model.Status, kind notificationModel.Kind) (res dto.BookingResponse, err error) {
	current, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	principal, err := permissions.Require(ctx, permissions.Decide(current.ResourceKind.Module()))
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	updated, err := s.apply(ctx, current, transition{next: next, kind: kind, note: req.Note, actor: principal.UserID})
	if err != nil {
		return res, err
	}

	log.Info().Str("request_id", id).Str("status", string(next)).Str("by", principal.UserID).Msg("booking request closed")

	res.FromModel(updated)

	return res, nil
}

// SweepLapsed completes approved room and vehicle requests whose window has ended.
// Assets stay in use until they are returned explicitly.
func (s *serviceImpl) SweepLapsed(ctx context.Context) (swept int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SweepLapsed")
	defer scope.End()
	defer scope.TraceIfError(err)

	batch := s.cfg.Scheduler.SweepBatch
	if batch <= 0 {
		batch = defaultSweepBatch
	}

	lapsed, err := s.repo.Lapsed(ctx, s.clock.Now(), batch)
	if err != nil {
		log.Error().Err(err).Msg("failed to get lapsed booking requests")

		return 0, fmt.Errorf("failed to get lapsed booking requests: %w", err)
	}

	for _, request := range lapsed {
		_, err := s.apply(ctx, request, transition{
			next:  model.StatusCompleted,
			kind:  notificationModel.KindRequestCompleted,
			actor: constant.ContextSystem,
		})
		if err != nil {
			// a concurrent close already moved it
			if failure.Is(err, failure.KindInvalidState) {
				continue
			}

			log.Error().Err(err).Str("request_id", request.ID).Msg("failed to complete lapsed booking request")

			continue
		}

		swept++
	}

	if swept > 0 {
		log.Info().Int("count", swept).Msg("lapsed booking requests completed")
	}

	return swept, nil
}

// apply runs one state machine step under the resource lock and dispatches its events after commit.
func (s *serviceImpl) apply(ctx context.Context, current model.Request, t transition) (model.Request, error) {
	var (
		updated model.Request
		events  []notificationModel.Event
	)

	err := s.guard.Run(ctx, current.ResourceID, func(ctx context.Context, tx *sqlx.Tx) error {
		locked, err := s.findTx(ctx, tx, current.ID)
		if err != nil {
			return err
		}

		if err := model.Transition(locked.Status, t.next); err != nil {
			return err //nolint:wrapcheck
		}

		if t.recheck {
			query := conflict.Query{
				ResourceID: locked.ResourceID,
				Window:     locked.Interval(),
				ExcludeID:  locked.ID,
				Whole:      !locked.ResourceKind.TimeBoxed(),
			}
			if err := s.guard.Check(ctx, tx, query, model.StatusApproved); err != nil {
				return err //nolint:wrapcheck
			}
		}

		now := s.clock.Now()
		fields := map[string]any{
			model.FieldStatus:        string(t.next),
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: t.actor,
		}

		locked.Status = t.next
		locked.ModifiedAt, locked.ModifiedBy = now, t.actor

		if t.decided {
			fields[model.FieldDecidedBy] = t.actor
			fields[model.FieldDecidedAt] = now
			locked.DecidedBy, locked.DecidedAt = &t.actor, &now
		}

		if t.note != constant.Empty {
			fields[model.FieldDecisionNote] = t.note
			locked.DecisionNote = &t.note
		}

		if err := s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(locked.ID, model.FieldID, model.TableName)); err != nil {
			log.Error().Err(err).Str("request_id", locked.ID).Msg("failed to update booking request status")

			return fmt.Errorf("failed to update booking request status: %w", err)
		}

		if _, err := s.catalog.SyncStatus(ctx, tx, locked.ResourceID); err != nil {
			return err //nolint:wrapcheck
		}

		subject := notificationModel.Subject{
			RequestID:   locked.ID,
			RequesterID: locked.RequesterID,
			Module:      locked.ResourceKind.Module(),
		}

		events, err = s.notifier.Record(ctx, tx, subject, t.kind)
		if err != nil {
			return err //nolint:wrapcheck
		}

		updated = locked

		return nil
	})
	if err != nil {
		return updated, err //nolint:wrapcheck
	}

	s.notifier.Dispatch(ctx, events...)

	return updated, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Request, error) {
	if _, err := uuid.Parse(id); err != nil {
		return model.Request{}, failure.NotFoundEntity(model.EntityName, id) //nolint:wrapcheck
	}

	request, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("request_id", id).Msg("failed to get booking request")

		return request, fmt.Errorf("failed to get booking request: %w", err)
	}

	if request.ID == constant.Empty {
		return request, failure.NotFoundEntity(model.EntityName, id) //nolint:wrapcheck
	}

	return request, nil
}

func (s *serviceImpl) findTx(ctx context.Context, tx *sqlx.Tx, id string) (model.Request, error) {
	request, err := s.repo.GetTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("request_id", id).Msg("failed to lock booking request")

		return request, fmt.Errorf("failed to lock booking request: %w", err)
	}

	if request.ID == constant.Empty {
		return request, failure.NotFoundEntity(model.EntityName, id) //nolint:wrapcheck
	}

	return request, nil
}
