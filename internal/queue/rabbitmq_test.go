package queue

import (
	"context"
	"errors"
	"testing"

	"functionhall/internal/notification"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
)

type fakeAck struct {
	acked   int
	nacked  int
	requeue bool
}

func (f *fakeAck) Ack(tag uint64, multiple bool) error { f.acked++; return nil }
func (f *fakeAck) Nack(tag uint64, multiple, requeue bool) error {
	f.nacked++
	f.requeue = requeue
	return nil
}
func (f *fakeAck) Reject(tag uint64, requeue bool) error { return nil }

func TestHandleDelivery_AcksOnSuccess(t *testing.T) {
	ack := &fakeAck{}
	d := amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte(`{"type":"booking.created","to":"+911","body":"hi"}`)}

	var got notification.Message
	HandleDelivery(context.Background(), d, func(ctx context.Context, m notification.Message) error {
		got = m
		return nil
	})

	assert.Equal(t, 1, ack.acked)
	assert.Equal(t, "+911", got.To)
	assert.Equal(t, notification.TypeBookingCreated, got.Type)
}

func TestHandleDelivery_DropsUndecodable(t *testing.T) {
	ack := &fakeAck{}
	d := amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte(`not json`)}

	HandleDelivery(context.Background(), d, func(context.Context, notification.Message) error {
		t.Fatal("handler must not run")
		return nil
	})

	assert.Equal(t, 1, ack.nacked)
	assert.False(t, ack.requeue)
}

func TestHandleDelivery_RequeuesFirstFailureOnly(t *testing.T) {
	fail := func(context.Context, notification.Message) error { return errors.New("provider down") }
	body := []byte(`{"to":"+911","body":"hi"}`)

	first := &fakeAck{}
	HandleDelivery(context.Background(), amqp.Delivery{Acknowledger: first, Body: body}, fail)
	assert.True(t, first.requeue)

	second := &fakeAck{}
	HandleDelivery(context.Background(), amqp.Delivery{Acknowledger: second, Body: body, Redelivered: true}, fail)
	assert.Equal(t, 1, second.nacked)
	assert.False(t, second.requeue)
}
