// Package notify delivers citizen-facing notifications (SMS receipts, routing updates)
// to an outbound channel. Delivery is best effort: a failed send never fails the
// workflow operation that triggered it.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Kind identifies the event a message reports.
type Kind string

const (
	KindReceived  Kind = "received"
	KindAssigned  Kind = "assigned"
	KindCompleted Kind = "completed"
)

// Message is one outbound notification.
type Message struct {
	Kind       Kind      `json:"kind"`
	DocumentID string    `json:"document_id"`
	Number     string    `json:"number"`
	Phone      string    `json:"phone"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// Sender publishes a message to a channel.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

const receiptTemplate = "Kính chào Anh/Chị,\n\nĐơn thư số %s của Anh/Chị đã được tiếp nhận và sẽ được xử lý trong thời gian sớm nhất.\n\nXin cảm ơn!"

const assignedTemplate = "Kính chào Anh/Chị,\n\nĐơn thư số %s của Anh/Chị đã được chuyển đến %s để tiếp tục xử lý.\n\nXin cảm ơn!"

const completedTemplate = "Kính chào Anh/Chị,\n\nĐơn thư số %s của Anh/Chị đã được xử lý xong. Kết quả: %s\n\nXin cảm ơn!"

// Receipt builds the acknowledgement sent when a document is first assigned.
func Receipt(documentID, number, phone string, at time.Time) Message {
	return Message{
		Kind:       KindReceived,
		DocumentID: documentID,
		Number:     number,
		Phone:      phone,
		Body:       fmt.Sprintf(receiptTemplate, number),
		CreatedAt:  at,
	}
}

// Assigned builds the message sent when a document is transferred to another unit.
func Assigned(documentID, number, phone, unitName string, at time.Time) Message {
	return Message{
		Kind:       KindAssigned,
		DocumentID: documentID,
		Number:     number,
		Phone:      phone,
		Body:       fmt.Sprintf(assignedTemplate, number, unitName),
		CreatedAt:  at,
	}
}

// Completed builds the message sent when processing finishes.
func Completed(documentID, number, phone, result string, at time.Time) Message {
	return Message{
		Kind:       KindCompleted,
		DocumentID: documentID,
		Number:     number,
		Phone:      phone,
		Body:       fmt.Sprintf(completedTemplate, number, result),
		CreatedAt:  at,
	}
}

// Log writes messages to a structured logger instead of delivering them.
type Log struct {
	logger *slog.Logger
}

// NewLog returns a Sender that only logs.
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

func (l *Log) Send(ctx context.Context, msg Message) error {
	l.logger.InfoContext(ctx, "notification",
		slog.String("kind", string(msg.Kind)),
		slog.String("document_id", msg.DocumentID),
		slog.String("number", msg.Number),
	)
	return nil
}

// Dispatcher sends messages in the background with a per-send timeout.
type Dispatcher struct {
	sender  Sender
	timeout time.Duration
	logger  *slog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher wraps sender. A nil sender yields a Dispatcher that drops messages.
func NewDispatcher(sender Sender, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{sender: sender, timeout: timeout, logger: logger}
}

// Dispatch queues msg for delivery and returns immediately.
func (d *Dispatcher) Dispatch(msg Message) {
	if d == nil || d.sender == nil {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.sender.Send(ctx, msg); err != nil {
			d.logger.Warn("notification failed",
				slog.String("kind", string(msg.Kind)),
				slog.String("document_id", msg.DocumentID),
				slog.Any("error", err),
			)
		}
	}()
}

// Wait blocks until every dispatched message has been attempted.
func (d *Dispatcher) Wait() {
	if d == nil {
		return
	}
	d.wg.Wait()
}
