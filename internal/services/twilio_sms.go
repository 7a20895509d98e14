package services

import (
	"fmt"
	"regexp"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSMSService implements SMSService using the Twilio API. A
// circuit breaker sits in front of the API so a Twilio outage never
// stalls the match flow, and a per-number limiter guards against
// accidental notification storms.
type TwilioSMSService struct {
	client      *twilio.RestClient
	fromNumber  string
	logger      *logrus.Logger
	breaker     *gobreaker.CircuitBreaker
	rateLimiter *SMSRateLimiter
}

// NewTwilioSMSService creates a new Twilio SMS service
func NewTwilioSMSService(accountSID, authToken, fromNumber string, breakerThreshold int, rateLimiter *SMSRateLimiter, logger *logrus.Logger) *TwilioSMSService {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	if breakerThreshold <= 0 {
		breakerThreshold = 5
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "twilio-sms",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(breakerThreshold)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf("SMS circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &TwilioSMSService{
		client:      client,
		fromNumber:  fromNumber,
		logger:      logger,
		breaker:     breaker,
		rateLimiter: rateLimiter,
	}
}

// SendMessage sends an SMS message via Twilio
func (s *TwilioSMSService) SendMessage(phoneNumber, message string) error {
	normalizedNumber, err := normalizePhoneNumber(phoneNumber)
	if err != nil {
		return fmt.Errorf("invalid phone number format: %w", err)
	}

	if s.rateLimiter != nil {
		if err := s.rateLimiter.Allow(normalizedNumber); err != nil {
			s.logger.Warnf("Twilio SMS: rate limited for %s", normalizedNumber)
			return fmt.Errorf("rate limit exceeded: %w", err)
		}
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(normalizedNumber)
	params.SetFrom(s.fromNumber)
	params.SetBody(message)

	_, err = s.breaker.Execute(func() (interface{}, error) {
		return s.client.Api.CreateMessage(params)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			s.logger.Warn("Twilio SMS: circuit breaker open, rejecting request")
			return fmt.Errorf("SMS service temporarily unavailable")
		}
		s.logger.Errorf("Twilio SMS: API error - %v", err)
		return mapTwilioError(err)
	}

	s.logger.Infof("Twilio SMS: message sent to %s", normalizedNumber)
	return nil
}

// normalizePhoneNumber ensures phone number is in E.164 format
func normalizePhoneNumber(phone string) (string, error) {
	re := regexp.MustCompile(`[^\d+]`)
	cleaned := re.ReplaceAllString(phone, "")

	if !regexp.MustCompile(`^\+`).MatchString(cleaned) {
		// Assume Japanese mobile number if no country code
		if regexp.MustCompile(`^0\d{9,10}$`).MatchString(cleaned) {
			cleaned = "+81" + cleaned[1:]
		} else {
			return "", fmt.Errorf("invalid phone number format")
		}
	}

	if !regexp.MustCompile(`^\+[1-9]\d{1,14}$`).MatchString(cleaned) {
		return "", fmt.Errorf("invalid phone number format")
	}

	return cleaned, nil
}

// mapTwilioError maps Twilio-specific errors to user-friendly messages
func mapTwilioError(err error) error {
	errStr := err.Error()

	switch {
	case regexp.MustCompile(`(?i)invalid.*phone.*number`).MatchString(errStr):
		return fmt.Errorf("invalid phone number")
	case regexp.MustCompile(`(?i)unverified.*number`).MatchString(errStr):
		return fmt.Errorf("phone number not verified for trial account")
	case regexp.MustCompile(`(?i)insufficient.*funds`).MatchString(errStr):
		return fmt.Errorf("SMS service temporarily unavailable")
	case regexp.MustCompile(`(?i)rate.*limit`).MatchString(errStr):
		return fmt.Errorf("too many SMS requests, please try again later")
	default:
		return fmt.Errorf("failed to send SMS: %w", err)
	}
}
