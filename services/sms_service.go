// services/sms_service.go
package services

import (
	"errors"
	"log"
	"os"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// ErrSMSNotImplemented marks the sms channel as a declared-but-unwired
// transport. The dispatcher records it as a not_implemented outcome.
var ErrSMSNotImplemented = errors.New("SMS sending not yet implemented")

// SMSSender delivers a single text message.
type SMSSender interface {
	Send(to, body string) error
}

// PlaceholderSMSSender is the default sms transport. Every send reports
// not-implemented so attempts still leave an audit trail.
type PlaceholderSMSSender struct{}

func (PlaceholderSMSSender) Send(to, body string) error {
	return ErrSMSNotImplemented
}

// TwilioSMSSender sends via Twilio, preferring WhatsApp for numbers in
// E.164 format when a WhatsApp sender is configured.
type TwilioSMSSender struct {
	client *twilio.RestClient
}

func NewTwilioSMSSender() *TwilioSMSSender {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &TwilioSMSSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *TwilioSMSSender) Send(to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetBody(body)

	whatsappFrom := os.Getenv("TWILIO_WHATSAPP_NUMBER")
	if strings.HasPrefix(to, "+") && whatsappFrom != "" {
		params.SetTo("whatsapp:" + to)
		params.SetFrom("whatsapp:" + whatsappFrom)
	} else {
		params.SetTo(to)
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return err
	}
	if resp.Sid != nil {
		log.Printf("Message sent to %s, SID: %s", to, *resp.Sid)
	} else {
		log.Printf("Message sent to %s, but no SID returned", to)
	}
	return nil
}

// NewSMSSender selects the Twilio transport when credentials are
// present, otherwise the placeholder.
func NewSMSSender() SMSSender {
	if os.Getenv("TWILIO_ACCOUNT_SID") != "" && os.Getenv("TWILIO_AUTH_TOKEN") != "" {
		return NewTwilioSMSSender()
	}
	log.Println("Twilio not configured; sms channel will report not_implemented")
	return PlaceholderSMSSender{}
}
