package producer

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type mockSQSClient struct {
	mu     sync.Mutex
	bodies []string
	err    error
}

func (m *mockSQSClient) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.bodies = append(m.bodies, *params.MessageBody)
	id := "msg-1"
	return &sqs.SendMessageOutput{MessageId: &id}, nil
}

func noSleep(context.Context, time.Duration) error { return nil }

func TestNew_RequiresQueueURL(t *testing.T) {
	_, err := New(&mockSQSClient{}, "")
	assert.Error(t, err)
}

func TestGenerate(t *testing.T) {
	p, err := New(&mockSQSClient{}, "https://queue", WithSeed(1))
	require.NoError(t, err)

	msg := p.Generate()
	assert.NotEmpty(t, msg.TransactionID)
	assert.True(t, strings.HasPrefix(msg.UserID, "user_"))
	assert.Equal(t, "USD", msg.Currency)
	assert.Contains(t, merchants, msg.Merchant)

	_, err = time.Parse(time.RFC3339, msg.TransactionTimestampUTC)
	assert.NoError(t, err)

	amount, err := decimal.NewFromString(msg.Amount.String())
	require.NoError(t, err)
	assert.True(t, amount.GreaterThanOrEqual(decimal.New(minAmountCents, -2)))
	assert.True(t, amount.LessThanOrEqual(decimal.New(maxAmountCents, -2)))
	assert.Contains(t, msg.Amount.String(), ".", "amount always carries two decimal places")
}

func TestSend_AmountIsBareNumber(t *testing.T) {
	client := &mockSQSClient{}
	p, err := New(client, "https://queue", WithSeed(1))
	require.NoError(t, err)

	msg := p.Generate()
	require.NoError(t, p.Send(context.Background(), msg))

	require.Len(t, client.bodies, 1)
	body := client.bodies[0]
	assert.NotContains(t, body, `"amount":"`, "amount must serialize unquoted")

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(body), &decoded))
	assert.Equal(t, string(msg.Amount), string(decoded["amount"]))
}

func TestRun_CountLimited(t *testing.T) {
	client := &mockSQSClient{}
	p, err := New(client, "https://queue", WithSeed(1), WithSleep(noSleep))
	require.NoError(t, err)

	sent, err := p.Run(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, sent)
	assert.Len(t, client.bodies, 5)
}

func TestRun_CancellationStops(t *testing.T) {
	client := &mockSQSClient{}
	ctx, cancel := context.WithCancel(context.Background())

	sends := 0
	p, err := New(client, "https://queue", WithSeed(1),
		WithSleep(func(ctx context.Context, _ time.Duration) error {
			sends++
			if sends >= 3 {
				cancel()
			}
			return ctx.Err()
		}))
	require.NoError(t, err)

	sent, err := p.Run(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, sent)
}

func TestRun_SendFailureContinues(t *testing.T) {
	client := &mockSQSClient{err: assert.AnError}
	attempts := 0
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p, err := New(client, "https://queue", WithSeed(1),
		WithSleep(func(context.Context, time.Duration) error {
			attempts++
			if attempts >= 4 {
				cancel()
			}
			return nil
		}))
	require.NoError(t, err)

	sent, runErr := p.Run(ctx, 0)
	assert.ErrorIs(t, runErr, context.Canceled)
	assert.Zero(t, sent, "failed sends are not counted")
	assert.GreaterOrEqual(t, attempts, 4, "the loop keeps going past send failures")
}
