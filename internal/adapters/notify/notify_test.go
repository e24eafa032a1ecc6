package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakeSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, params)
	return &sns.PublishOutput{MessageId: aws.String("sns-1")}, nil
}

func TestSNSPublisher(t *testing.T) {
	client := &fakeSNS{}
	publisher, err := NewSNSPublisher(client, "arn:aws:sns:us-east-1:123:createProductTopic", nil)
	require.NoError(t, err)

	id, err := publisher.Publish(context.Background(), Message{
		Subject:   "New product",
		Body:      `{"default":"{}"}`,
		Structure: "json",
		Attributes: map[string]Attribute{
			"price": {DataType: "Number", Value: "100"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "sns-1", id)

	require.Len(t, client.inputs, 1)
	input := client.inputs[0]
	assert.Equal(t, "arn:aws:sns:us-east-1:123:createProductTopic", aws.ToString(input.TopicArn))
	assert.Equal(t, "json", aws.ToString(input.MessageStructure))
	assert.Equal(t, "New product", aws.ToString(input.Subject))
	assert.Equal(t, "Number", aws.ToString(input.MessageAttributes["price"].DataType))
	assert.Equal(t, "100", aws.ToString(input.MessageAttributes["price"].StringValue))
}

func TestSNSPublisher_PlainMessage(t *testing.T) {
	client := &fakeSNS{}
	publisher, err := NewSNSPublisher(client, "arn:topic", nil)
	require.NoError(t, err)

	_, err = publisher.Publish(context.Background(), Message{Body: "hello"})
	require.NoError(t, err)

	assert.Nil(t, client.inputs[0].MessageStructure)
	assert.Nil(t, client.inputs[0].Subject)
	assert.Empty(t, client.inputs[0].MessageAttributes)

	client.err = errors.New("AuthorizationError")
	_, err = publisher.Publish(context.Background(), Message{Body: "hello"})
	assert.ErrorContains(t, err, "AuthorizationError")
}

func TestNew(t *testing.T) {
	_, err := New("sns", nil, "arn:topic", nil)
	assert.Error(t, err)

	_, err = New("sns", &fakeSNS{}, "", nil)
	assert.Error(t, err)

	publisher, err := New("", nil, "", nil)
	require.NoError(t, err)
	assert.IsType(t, &MockPublisher{}, publisher)

	_, err = New("email", nil, "", nil)
	assert.Error(t, err)
}
