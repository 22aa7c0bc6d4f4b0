package notification

import (
	"context"
	"errors"
	"sync"
	"time"

	"functionhall/internal/logger"
	"functionhall/internal/metrics"
)

var (
	ErrNoRecipient = errors.New("notification has no recipient")
	ErrQueueFull   = errors.New("notification queue full")
	ErrClosed      = errors.New("notification dispatcher closed")
)

// Deliverer hands a message to its next hop: an SMS provider or a broker.
type Deliverer interface {
	Deliver(ctx context.Context, msg Message) error
}

// SenderDeliverer delivers straight through a Sender.
type SenderDeliverer struct {
	Sender Sender
}

func (d SenderDeliverer) Deliver(ctx context.Context, msg Message) error {
	res, err := d.Sender.Send(ctx, msg.To, msg.Body)
	if err != nil {
		return err
	}
	logger.WithFields("type", msg.Type, "provider_id", res.ProviderID).Debug("notification delivered")
	return nil
}

// Dispatcher delivers messages on a bounded worker pool so callers never wait
// on the provider. Each delivery runs under its own timeout.
type Dispatcher struct {
	out     Deliverer
	timeout time.Duration
	jobs    chan Message

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(out Deliverer, workers int, timeout time.Duration) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	d := &Dispatcher{
		out:     out,
		timeout: timeout,
		jobs:    make(chan Message, workers*64),
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Notify queues msg and returns immediately. The error only reports that the
// message was not queued; delivery failures are logged by the worker.
func (d *Dispatcher) Notify(ctx context.Context, msg Message) error {
	msg.To = FormatPhone(msg.To)
	if msg.To == "" {
		return ErrNoRecipient
	}
	if msg.RequestID == "" {
		msg.RequestID = logger.RequestIDFromContext(ctx)
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}

	select {
	case d.jobs <- msg:
		return nil
	default:
		metrics.NotificationsSent.WithLabelValues("dropped").Inc()
		logger.WithContext(ctx).Warn("notification queue full", "type", msg.Type)
		return ErrQueueFull
	}
}

// Close stops accepting messages and waits for queued ones to be delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for msg := range d.jobs {
		d.deliver(msg)
	}
}

func (d *Dispatcher) deliver(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	ctx = logger.ContextWithRequestID(ctx, msg.RequestID)

	if err := d.out.Deliver(ctx, msg); err != nil {
		metrics.NotificationsSent.WithLabelValues("failed").Inc()
		logger.WithContext(ctx).Error("notification delivery failed", "type", msg.Type, "error", err)
		return
	}
	metrics.NotificationsSent.WithLabelValues("sent").Inc()
}
