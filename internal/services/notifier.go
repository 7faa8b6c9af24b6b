package services

import (
	"sync"
	"time"

	"shopsphere/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Notifier receives user-facing status events. Notify must not block the
// caller for long and has no way to report failure back.
type Notifier interface {
	Notify(kind models.NotificationKind, message string)
}

// LogNotifier writes notifications to the log.
type LogNotifier struct {
	log logrus.FieldLogger
}

// NewLogNotifier creates a new LogNotifier.
func NewLogNotifier(log logrus.FieldLogger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(kind models.NotificationKind, message string) {
	entry := n.log.WithField("kind", kind)
	if kind == models.NotificationError {
		entry.Warn(message)
		return
	}
	entry.Info(message)
}

// FeedNotifier keeps the most recent notifications for the UI to poll.
type FeedNotifier struct {
	mu    sync.Mutex
	items []models.Notification
	limit int
	now   func() time.Time
}

// NewFeedNotifier keeps at most limit notifications.
func NewFeedNotifier(limit int) *FeedNotifier {
	if limit < 1 {
		limit = 1
	}
	return &FeedNotifier{limit: limit, now: time.Now}
}

func (n *FeedNotifier) Notify(kind models.NotificationKind, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.items = append(n.items, models.Notification{
		ID:        uuid.New().String(),
		Kind:      kind,
		Message:   message,
		CreatedAt: n.now(),
	})
	if over := len(n.items) - n.limit; over > 0 {
		n.items = append([]models.Notification(nil), n.items[over:]...)
	}
}

// Recent returns the kept notifications, oldest first.
func (n *FeedNotifier) Recent() []models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]models.Notification, len(n.items))
	copy(out, n.items)
	return out
}

// NotificationPublisher sends a notification to a broker.
type NotificationPublisher interface {
	PublishNotification(kind, message string) error
}

// AMQPNotifier forwards notifications to a message broker. Publish
// failures are logged and dropped.
type AMQPNotifier struct {
	publisher NotificationPublisher
	log       logrus.FieldLogger
}

// NewAMQPNotifier creates a new AMQPNotifier.
func NewAMQPNotifier(publisher NotificationPublisher, log logrus.FieldLogger) *AMQPNotifier {
	return &AMQPNotifier{publisher: publisher, log: log}
}

func (n *AMQPNotifier) Notify(kind models.NotificationKind, message string) {
	if err := n.publisher.PublishNotification(string(kind), message); err != nil {
		n.log.WithError(err).WithField("kind", kind).Warn("Failed to publish notification")
	}
}

// MultiNotifier fans a notification out to every notifier in order.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(kind models.NotificationKind, message string) {
	for _, n := range m {
		n.Notify(kind, message)
	}
}
