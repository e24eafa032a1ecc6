package queue

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/sirupsen/logrus"
)

// MessageSender delivers one message body to the catalog items queue
type MessageSender interface {
	SendMessage(ctx context.Context, body string) (string, error)
}

// SQSAPI is the subset of the SQS client used by SQSSender
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

var (
	_ SQSAPI        = (*sqs.Client)(nil)
	_ MessageSender = (*SQSSender)(nil)
	_ MessageSender = (*MockSender)(nil)
)

// SQSSender sends messages to a single SQS queue
type SQSSender struct {
	client   SQSAPI
	queueURL string
	logger   *logrus.Logger
}

// NewSQSSender creates a sender bound to queueURL
func NewSQSSender(client SQSAPI, queueURL string, logger *logrus.Logger) (*SQSSender, error) {
	if client == nil {
		return nil, fmt.Errorf("sqs client is required")
	}
	if queueURL == "" {
		return nil, fmt.Errorf("queue URL is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &SQSSender{client: client, queueURL: queueURL, logger: logger}, nil
}

// SendMessage sends body as one SQS message and returns its message ID
func (s *SQSSender) SendMessage(ctx context.Context, body string) (string, error) {
	out, err := s.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueURL),
		MessageBody: aws.String(body),
	})
	if err != nil {
		return "", fmt.Errorf("failed to send message to %s: %w", s.queueURL, err)
	}

	messageID := aws.ToString(out.MessageId)
	s.logger.WithField("message_id", messageID).Debug("Message sent to queue")
	return messageID, nil
}

// MockSender records messages in memory
type MockSender struct {
	mu       sync.Mutex
	messages []string

	// FailAfter makes every send after the first N fail; negative disables
	FailAfter int
	Err       error
}

// NewMockSender creates an in-memory sender
func NewMockSender() *MockSender {
	return &MockSender{FailAfter: -1}
}

// SendMessage implements MessageSender
func (m *MockSender) SendMessage(ctx context.Context, body string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailAfter >= 0 && len(m.messages) >= m.FailAfter {
		err := m.Err
		if err == nil {
			err = fmt.Errorf("queue unavailable")
		}
		return "", err
	}

	m.messages = append(m.messages, body)
	return fmt.Sprintf("mock-%d", len(m.messages)), nil
}

// Messages returns a copy of every message sent
func (m *MockSender) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.messages...)
}

// New creates a sender for the given type ("sqs" or "mock")
func New(queueType string, client SQSAPI, queueURL string, logger *logrus.Logger) (MessageSender, error) {
	switch strings.ToLower(queueType) {
	case "sqs":
		return NewSQSSender(client, queueURL, logger)
	case "mock", "":
		return NewMockSender(), nil
	default:
		return nil, fmt.Errorf("unsupported queue type: %s", queueType)
	}
}
