package app

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DecisionEvent событие изменения статуса бронирования для внешней
// доставки уведомлений. Доставка - fire-and-forget: её сбой никогда
// не влияет на исход операции бронирования
type DecisionEvent struct {
	ID        uuid.UUID
	Action    string // "approved", "rejected", "cancelled", "revoked"
	BookingID int64
	UserID    int64
	Notes     string
}

// Notifier буферизует события решений и отдаёт их внешнему
// доставщику в фоне
type Notifier struct {
	events   chan DecisionEvent
	logger   *zap.Logger
	stopChan chan struct{}
	deliver  func(ctx context.Context, ev DecisionEvent) error
}

// NewNotifier создаёт нотификатор. deliver может быть nil - тогда
// события только логируются
func NewNotifier(logger *zap.Logger, deliver func(ctx context.Context, ev DecisionEvent) error) *Notifier {
	return &Notifier{
		events:   make(chan DecisionEvent, 256),
		logger:   logger,
		stopChan: make(chan struct{}),
		deliver:  deliver,
	}
}

// Publish ставит событие в очередь доставки. Никогда не блокирует:
// при переполненном буфере событие отбрасывается с записью в лог
func (n *Notifier) Publish(action string, bookingID, userID int64, notes string) {
	ev := DecisionEvent{
		ID:        uuid.New(),
		Action:    action,
		BookingID: bookingID,
		UserID:    userID,
		Notes:     notes,
	}

	select {
	case n.events <- ev:
	default:
		n.logger.Warn("Notification buffer full, event dropped",
			zap.String("event_id", ev.ID.String()),
			zap.String("action", action),
			zap.Int64("booking_id", bookingID),
		)
	}
}

// Start запускает фоновую доставку событий
func (n *Notifier) Start(ctx context.Context) {
	n.logger.Info("Starting decision notifier")
	go n.run(ctx)
}

// Stop останавливает фоновую доставку
func (n *Notifier) Stop() {
	n.logger.Info("Stopping decision notifier")
	close(n.stopChan)
}

func (n *Notifier) run(ctx context.Context) {
	for {
		select {
		case ev := <-n.events:
			n.send(ctx, ev)
		case <-n.stopChan:
			n.logger.Info("Notifier stopped")
			return
		case <-ctx.Done():
			n.logger.Info("Notifier cancelled")
			return
		}
	}
}

// send доставляет одно событие. Ошибки доставки логируются и не
// распространяются дальше
func (n *Notifier) send(ctx context.Context, ev DecisionEvent) {
	if n.deliver == nil {
		n.logger.Info("Booking decision event",
			zap.String("event_id", ev.ID.String()),
			zap.String("action", ev.Action),
			zap.Int64("booking_id", ev.BookingID),
			zap.Int64("user_id", ev.UserID),
		)
		return
	}

	if err := n.deliver(ctx, ev); err != nil {
		n.logger.Error("Failed to deliver decision event",
			zap.String("event_id", ev.ID.String()),
			zap.String("action", ev.Action),
			zap.Int64("booking_id", ev.BookingID),
			zap.Error(err),
		)
	}
}

// статусы событий для публикации из сервисов
const (
	EventApproved  = "approved"
	EventRejected  = "rejected"
	EventCancelled = "cancelled"
	EventRevoked   = "revoked"
)
