package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/sirupsen/logrus"
)

// Attribute is a typed message attribute used for subscriber filtering
type Attribute struct {
	DataType string // "String" or "Number"
	Value    string
}

// Message is one notification. Structure is "json" when Body holds a
// per-protocol envelope such as {"default": "..."}.
type Message struct {
	Subject    string
	Body       string
	Structure  string
	Attributes map[string]Attribute
}

// Publisher fans a message out to the product topic
type Publisher interface {
	Publish(ctx context.Context, msg Message) (string, error)
}

// SNSAPI is the subset of the SNS client used by SNSPublisher
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

var (
	_ SNSAPI    = (*sns.Client)(nil)
	_ Publisher = (*SNSPublisher)(nil)
	_ Publisher = (*MockPublisher)(nil)
)

// SNSPublisher publishes to a single SNS topic
type SNSPublisher struct {
	client   SNSAPI
	topicARN string
	logger   *logrus.Logger
}

// NewSNSPublisher creates a publisher bound to topicARN
func NewSNSPublisher(client SNSAPI, topicARN string, logger *logrus.Logger) (*SNSPublisher, error) {
	if client == nil {
		return nil, fmt.Errorf("sns client is required")
	}
	if topicARN == "" {
		return nil, fmt.Errorf("topic ARN is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &SNSPublisher{client: client, topicARN: topicARN, logger: logger}, nil
}

// Publish sends msg to the topic and returns the SNS message ID
func (p *SNSPublisher) Publish(ctx context.Context, msg Message) (string, error) {
	input := &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(msg.Body),
	}
	if msg.Subject != "" {
		input.Subject = aws.String(msg.Subject)
	}
	if msg.Structure != "" {
		input.MessageStructure = aws.String(msg.Structure)
	}
	if len(msg.Attributes) > 0 {
		input.MessageAttributes = make(map[string]types.MessageAttributeValue, len(msg.Attributes))
		for name, attr := range msg.Attributes {
			input.MessageAttributes[name] = types.MessageAttributeValue{
				DataType:    aws.String(attr.DataType),
				StringValue: aws.String(attr.Value),
			}
		}
	}

	out, err := p.client.Publish(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to publish to %s: %w", p.topicARN, err)
	}

	messageID := aws.ToString(out.MessageId)
	p.logger.WithField("message_id", messageID).Debug("Notification published")
	return messageID, nil
}

// MockPublisher records published messages in memory
type MockPublisher struct {
	mu       sync.Mutex
	messages []Message
	Err      error
}

// NewMockPublisher creates an in-memory publisher
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// Publish implements Publisher
func (m *MockPublisher) Publish(ctx context.Context, msg Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	m.messages = append(m.messages, msg)
	return fmt.Sprintf("mock-%d", len(m.messages)), nil
}

// Messages returns a copy of every published message
func (m *MockPublisher) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.messages...)
}

// New creates a publisher for the given type ("sns" or "mock")
func New(notifyType string, client SNSAPI, topicARN string, logger *logrus.Logger) (Publisher, error) {
	switch strings.ToLower(notifyType) {
	case "sns":
		return NewSNSPublisher(client, topicARN, logger)
	case "mock", "":
		return NewMockPublisher(), nil
	default:
		return nil, fmt.Errorf("unsupported notification type: %s", notifyType)
	}
}
