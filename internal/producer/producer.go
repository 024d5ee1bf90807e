// Package producer emits generated transaction messages to an SQS queue.
package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finmart-data/finmart/internal/metrics"
)

// SQSAPI is the subset of the SQS client used by the producer.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Message is one emitted transaction message. Amount is a 2-decimal-place
// value carried as json.Number so it serializes as a bare JSON number, not a
// quoted string.
type Message struct {
	TransactionID           string      `json:"transaction_id"`
	UserID                  string      `json:"user_id"`
	Amount                  json.Number `json:"amount"`
	Currency                string      `json:"currency"`
	TransactionTimestampUTC string      `json:"transaction_timestamp_utc"`
	Merchant                string      `json:"merchant"`
}

var merchants = []string{"Amazon", "Apple", "Shell", "Walmart", "BestBuy"}

// Pacing and amount bounds for generated traffic.
const (
	minDelay = 500 * time.Millisecond
	maxDelay = 3 * time.Second

	minAmountCents = 550     // 5.50
	maxAmountCents = 2500000 // 25000.00
)

// Producer sends generated messages to one queue, one at a time, pausing a
// random interval between sends to mimic real traffic.
type Producer struct {
	client   SQSAPI
	queueURL string
	rng      *rand.Rand
	sleep    func(ctx context.Context, d time.Duration) error
	logger   *slog.Logger
}

// Option configures a Producer.
type Option func(*Producer)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Producer) { p.logger = l }
}

// WithSeed fixes the random source (useful for testing).
func WithSeed(seed int64) Option {
	return func(p *Producer) { p.rng = rand.New(rand.NewSource(seed)) }
}

// WithSleep replaces the pacing sleep (useful for testing).
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(p *Producer) { p.sleep = sleep }
}

// New creates a Producer for the given queue.
func New(client SQSAPI, queueURL string, opts ...Option) (*Producer, error) {
	if queueURL == "" {
		return nil, fmt.Errorf("queue URL required")
	}
	p := &Producer{
		client:   client,
		queueURL: queueURL,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:    sleepContext,
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Generate builds one well-formed transaction message.
func (p *Producer) Generate() Message {
	cents := minAmountCents + p.rng.Int63n(maxAmountCents-minAmountCents+1)
	return Message{
		TransactionID:           uuid.NewString(),
		UserID:                  fmt.Sprintf("user_%d", 100+p.rng.Intn(900)),
		Amount:                  json.Number(decimal.New(cents, -2).StringFixed(2)),
		Currency:                "USD",
		TransactionTimestampUTC: time.Now().UTC().Format(time.RFC3339),
		Merchant:                merchants[p.rng.Intn(len(merchants))],
	}
}

// Send emits a single message.
func (p *Producer) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}
	bodyStr := string(body)
	out, err := p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    &p.queueURL,
		MessageBody: &bodyStr,
	})
	if err != nil {
		metrics.ProduceFailures.Add(1)
		return fmt.Errorf("sending message: %w", err)
	}
	metrics.MessagesProduced.Add(1)
	messageID := ""
	if out.MessageId != nil {
		messageID = *out.MessageId
	}
	p.logger.Info("message sent",
		"messageId", messageID,
		"transactionId", msg.TransactionID,
		"amount", msg.Amount.String())
	return nil
}

// Run emits messages until ctx is cancelled or count messages have been sent
// (count <= 0 means unlimited). A send failure is logged and the loop
// continues; only cancellation stops it.
func (p *Producer) Run(ctx context.Context, count int) (int, error) {
	sent := 0
	for count <= 0 || sent < count {
		if err := p.Send(ctx, p.Generate()); err != nil {
			if ctx.Err() != nil {
				return sent, ctx.Err()
			}
			p.logger.Error("send failed", "error", err)
		} else {
			sent++
		}
		if count > 0 && sent >= count {
			break
		}
		delay := minDelay + time.Duration(p.rng.Int63n(int64(maxDelay-minDelay)))
		if err := p.sleep(ctx, delay); err != nil {
			return sent, err
		}
	}
	return sent, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
