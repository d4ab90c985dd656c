package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"sarana/config"
	"sarana/infras/otel"
	"sarana/internal/domains/notification/dispatcher"
	"sarana/internal/domains/notification/model"
	"sarana/internal/domains/notification/model/dto"
	"sarana/internal/domains/notification/repository"
	"sarana/permissions"
	"sarana/shared/constant"
	gDto "sarana/shared/dto"
	"sarana/shared/failure"
	"sarana/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Directory resolves which managers hold a module privilege.
type Directory interface {
	ManagerIDs(ctx context.Context, module string) ([]string, error)
}

type Notifier interface {
	Record(ctx context.Context, tx *sqlx.Tx, subject model.Subject, kind model.Kind) ([]model.Event, error)
	Dispatch(ctx context.Context, events ...model.Event)
	Inbox(ctx context.Context, req gDto.QueryParams, delivered *bool) (dto.GetInboxResponse, error)
	MarkRead(ctx context.Context, id string) error
	Redrive(ctx context.Context) (int, error)
}

type serviceImpl struct {
	repo       repository.Notification
	directory  Directory
	dispatcher dispatcher.Dispatcher
	clock      timezone.Clock
	cfg        *config.Config
	otel       otel.Otel
}

func New(
	repo repository.Notification,
	directory Directory,
	dispatcher dispatcher.Dispatcher,
	clock timezone.Clock,
	cfg *config.Config,
	otel otel.Otel,
) Notifier {
	return &serviceImpl{
		repo:       repo,
		directory:  directory,
		dispatcher: dispatcher,
		clock:      clock,
		cfg:        cfg,
		otel:       otel,
	}
}

// Record inserts one event per recipient inside tx. Nothing is delivered until the caller dispatches after commit.
func (s *serviceImpl) Record(ctx context.Context, tx *sqlx.Tx, subject model.Subject, kind model.Kind) (events []model.Event, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Record")
	defer scope.End()
	defer scope.TraceIfError(err)

	var managers []string

	if kind.NotifiesManagement() {
		managers, err = s.directory.ManagerIDs(ctx, subject.Module)
		if err != nil {
			log.Error().Err(err).Str("module", subject.Module).Msg("failed to resolve notification managers")

			return nil, fmt.Errorf("failed to resolve notification managers: %w", err)
		}
	}

	now := s.clock.Now()

	for _, recipient := range model.Recipients(kind, subject.RequesterID, managers) {
		events = append(events, model.Event{
			ID:               uuid.NewString(),
			BookingRequestID: subject.RequestID,
			RecipientUserID:  recipient,
			Kind:             kind,
			EmittedAt:        now,
		})
	}

	if err = s.repo.InsertBulkTx(ctx, tx, events); err != nil {
		log.Error().Err(err).Str("booking_request_id", subject.RequestID).Msg("failed to record notifications")

		return nil, fmt.Errorf("failed to record notifications: %w", err)
	}

	return events, nil
}

// Dispatch hands events to the dispatcher. Events it cannot take stay undelivered for the redrive job.
func (s *serviceImpl) Dispatch(ctx context.Context, events ...model.Event) {
	_, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Dispatch")
	defer scope.End()

	for _, event := range events {
		if !s.dispatcher.Enqueue(event) {
			log.Warn().Str("event_id", event.ID).Msg("notification not enqueued")
		}
	}
}

func (s *serviceImpl) Inbox(ctx context.Context, req gDto.QueryParams, delivered *bool) (res dto.GetInboxResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Inbox")
	defer scope.End()
	defer scope.TraceIfError(err)

	principal, ok := permissions.PrincipalFromContext(ctx)
	if !ok {
		return res, failure.Unauthorized("missing authenticated principal") //nolint:wrapcheck
	}

	filter := recipientFilter(principal.UserID)

	if delivered != nil {
		operator := gDto.FilterIsNull
		if *delivered {
			operator = gDto.FilterIsNotNull
		}

		filter.Filters = append(filter.Filters, gDto.Filter{Field: model.FieldDeliveredAt, Operator: operator, Table: model.TableName})
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count notifications")

		return res, fmt.Errorf("failed to count notifications: %w", err)
	}

	unreadFilter := recipientFilter(principal.UserID)
	unreadFilter.Filters = append(unreadFilter.Filters, gDto.Filter{Field: model.FieldReadAt, Operator: gDto.FilterIsNull, Table: model.TableName})

	unread, err := s.repo.Count(ctx, unreadFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count unread notifications")

		return res, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	req.SortBy = model.FieldEmittedAt
	req.SortDir = gDto.SortDirDesc

	events, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get notifications")

		return res, fmt.Errorf("failed to get notifications: %w", err)
	}

	res.FromModels(events, total, unread, req.Limit)

	return res, nil
}

func (s *serviceImpl) MarkRead(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkRead")
	defer scope.End()
	defer scope.TraceIfError(err)

	principal, ok := permissions.PrincipalFromContext(ctx)
	if !ok {
		return failure.Unauthorized("missing authenticated principal") //nolint:wrapcheck
	}

	filter := recipientFilter(principal.UserID)
	filter.Filters = append(filter.Filters, gDto.Filter{Field: model.FieldID, Value: id, Operator: gDto.FilterOperatorEq, Table: model.TableName})

	event, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get notification")

		return fmt.Errorf("failed to get notification: %w", err)
	}

	if event.ID == constant.Empty {
		return failure.NotFoundEntity(model.EntityName, id) //nolint:wrapcheck
	}

	if event.ReadAt != nil {
		return nil
	}

	if err = s.repo.Update(ctx, map[string]any{model.FieldReadAt: s.clock.Now()}, filter); err != nil {
		log.Error().Err(err).Msg("failed to mark notification read")

		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	return nil
}

// Redrive re-enqueues events that were committed but never acknowledged, e.g. after a crash.
func (s *serviceImpl) Redrive(ctx context.Context) (count int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Redrive")
	defer scope.End()
	defer scope.TraceIfError(err)

	grace := time.Duration(s.cfg.Notification.RedriveGraceSeconds) * time.Second

	events, err := s.repo.Undelivered(ctx, s.clock.Now().Add(-grace), s.cfg.Notification.RedriveBatch)
	if err != nil {
		log.Error().Err(err).Msg("failed to list undelivered notifications")

		return 0, fmt.Errorf("failed to list undelivered notifications: %w", err)
	}

	for _, event := range events {
		if s.dispatcher.Enqueue(event) {
			count++
		}
	}

	if count > 0 {
		log.Info().Int("count", count).Msg("undelivered notifications re-enqueued")
	}

	return count, nil
}

func recipientFilter(userID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldRecipientUserID, Value: userID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}
}
