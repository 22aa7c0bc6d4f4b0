package notification

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"functionhall/internal/logger"

	"github.com/google/uuid"
	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Result identifies a message accepted by the provider.
type Result struct {
	ProviderID string `json:"provider_id"`
}

type Sender interface {
	Send(ctx context.Context, to, body string) (Result, error)
}

// ConsoleSender logs messages instead of sending them. Used in development.
type ConsoleSender struct{}

func (ConsoleSender) Send(ctx context.Context, to, body string) (Result, error) {
	id := "console-" + uuid.NewString()
	logger.WithContext(ctx).Info("sms", "to", to, "body", body, "provider_id", id)
	return Result{ProviderID: id}, nil
}

// TwilioSender sends messages through the Twilio Messages API.
type TwilioSender struct {
	From string
	api  *twilio.RestClient
}

func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	return newTwilioSender(accountSID, authToken, from, &http.Client{Timeout: 10 * time.Second})
}

func newTwilioSender(accountSID, authToken, from string, hc *http.Client) *TwilioSender {
	base := &twilioclient.Client{
		Credentials: twilioclient.NewCredentials(accountSID, authToken),
		HTTPClient:  hc,
	}
	base.SetAccountSid(accountSID)
	return &TwilioSender{
		From: from,
		api:  twilio.NewRestClientWithParams(twilio.ClientParams{Client: base}),
	}
}

type twilioReply struct {
	msg *openapi.ApiV2010Message
	err error
}

func (s *TwilioSender) Send(ctx context.Context, to, body string) (Result, error) {
	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.From)
	params.SetBody(body)

	// The SDK call takes no context; abandon it when ctx ends.
	done := make(chan twilioReply, 1)
	go func() {
		msg, err := s.api.Api.CreateMessage(params)
		done <- twilioReply{msg: msg, err: err}
	}()

	var r twilioReply
	select {
	case <-ctx.Done():
		return Result{}, fmt.Errorf("twilio send: %w", ctx.Err())
	case r = <-done:
	}

	if r.err != nil {
		var apiErr *twilioclient.TwilioRestError
		if errors.As(r.err, &apiErr) {
			return Result{}, fmt.Errorf("twilio send: status %d code %d: %s", apiErr.Status, apiErr.Code, apiErr.Message)
		}
		return Result{}, fmt.Errorf("twilio send: %w", r.err)
	}
	if r.msg == nil || r.msg.Sid == nil {
		return Result{}, errors.New("twilio send: response without sid")
	}
	return Result{ProviderID: *r.msg.Sid}, nil
}
