package notification

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/rs/zerolog"

	"register-schedule-backend/internal/model"
)

// Reminder is one upcoming open/close event to announce to a client's
// subscribers.
type Reminder struct {
	ClientID      int64
	Operation     string // "open" or "close"
	PeriodName    string
	ScheduledTime time.Time
}

// SubscriptionStore is the slice of the store the worker pool needs.
type SubscriptionStore interface {
	SubscriptionsForClient(ctx context.Context, clientID int64) ([]model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
}

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real Sender backed by the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool manages a pool of workers for sending reminders.
type WorkerPool struct {
	size    int
	jobs    chan Reminder
	store   SubscriptionStore
	webpush *webpush.Options
	sender  Sender
	log     zerolog.Logger
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, store SubscriptionStore, webpushOptions *webpush.Options, log zerolog.Logger) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Reminder, size),
		store:   store,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
		log:     log,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	wp.log.Debug().Int("worker", id).Msg("reminder worker started")
	for {
		select {
		case reminder := <-wp.jobs:
			wp.sendRemindersForClient(ctx, reminder)
		case <-ctx.Done():
			wp.log.Debug().Int("worker", id).Msg("reminder worker shutting down")
			return
		}
	}
}

// Dispatch sends a job to the worker pool.
func (wp *WorkerPool) Dispatch(reminder Reminder) {
	wp.jobs <- reminder
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Reminder {
	return wp.jobs
}

func (wp *WorkerPool) sendRemindersForClient(ctx context.Context, reminder Reminder) {
	subscriptions, err := wp.store.SubscriptionsForClient(ctx, reminder.ClientID)
	if err != nil {
		wp.log.Error().Err(err).Int64("client_id", reminder.ClientID).
			Msg("failed to fetch subscriptions")
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	verb := "opens"
	if reminder.Operation == "close" {
		verb = "closes"
	}
	message := fmt.Sprintf("Register %s at %s (%s)",
		verb, reminder.ScheduledTime.Format("15:04"), reminder.PeriodName)

	wp.log.Info().Int64("client_id", reminder.ClientID).Int("subscribers", len(subscriptions)).
		Str("operation", reminder.Operation).Msg("sending reminders")
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, []byte(message))
	}
}

func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		wp.log.Error().Err(err).Str("endpoint", sub.Endpoint).Msg("failed to send reminder")
		return
	}
	defer resp.Body.Close()

	// Expired subscriptions are pruned on the spot.
	if resp.StatusCode == http.StatusGone {
		wp.log.Info().Str("endpoint", sub.Endpoint).Msg("subscription expired, deleting")
		if err := wp.store.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			wp.log.Error().Err(err).Str("endpoint", sub.Endpoint).
				Msg("failed to delete expired subscription")
		}
	}
}
