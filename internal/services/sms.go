package services

import (
	"github.com/sirupsen/logrus"
)

// SMSService sends text messages, used for final score notifications.
type SMSService interface {
	SendMessage(phoneNumber, message string) error
}

// MockSMSService for development - logs to console instead of sending real SMS
type MockSMSService struct {
	logger *logrus.Logger
}

func NewMockSMSService(logger *logrus.Logger) *MockSMSService {
	return &MockSMSService{logger: logger}
}

func (s *MockSMSService) SendMessage(phoneNumber, message string) error {
	s.logger.WithField("phone", phoneNumber).Infof("MOCK SMS: %s", message)
	return nil
}
