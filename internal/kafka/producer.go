package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer buffers messages in an inbox channel and writes them from a
// single goroutine. Publishing never blocks the request path as long as
// the inbox has room.
type Producer struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	closeCh chan struct{}
}

func NewProducer(brokers []string, topic string, buf int) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        true,
		},
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

func (p *Producer) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				close(p.inbox)
				for m := range p.inbox {
					_ = p.w.WriteMessages(context.Background(), m)
				}
				_ = p.w.Close()
				close(p.closeCh)
				return
			case m, ok := <-p.inbox:
				if !ok {
					_ = p.w.Close()
					return
				}
				_ = p.w.WriteMessages(context.Background(), m)
			}
		}
	}()
}

func (p *Producer) Publish(key, value []byte, headers ...kafka.Header) {
	p.inbox <- kafka.Message{
		Key:     key,
		Value:   value,
		Time:    time.Now(),
		Headers: headers,
	}
}

// Close stops accepting messages; the loop flushes what is left and exits.
func (p *Producer) Close() { close(p.inbox) }

// WaitClosed blocks until the flush loop has exited.
func (p *Producer) WaitClosed() { <-p.closeCh }
