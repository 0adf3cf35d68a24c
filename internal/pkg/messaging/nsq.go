package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	nsq "github.com/nsqio/go-nsq"
)

// ErrNSQProducerAddrRequired is returned when the nsqd address is missing.
var ErrNSQProducerAddrRequired = errors.New("messaging: nsq producer address is required")

// NSQConfig configures the NSQ driver.
type NSQConfig struct {
	ProducerAddr string
	Config       *nsq.Config
}

// NSQ publishes to nsqd topics. NSQ has no headers, so Message.Headers is ignored.
type NSQ struct {
	producer *nsq.Producer
}

func NewNSQ(cfg NSQConfig) (*NSQ, error) {
	if cfg.ProducerAddr == "" {
		return nil, ErrNSQProducerAddrRequired
	}

	pcfg := cfg.Config
	if pcfg == nil {
		pcfg = nsq.NewConfig()
	}

	p, err := nsq.NewProducer(cfg.ProducerAddr, pcfg)
	if err != nil {
		return nil, fmt.Errorf("messaging: nsq new producer: %w", err)
	}
	p.SetLoggerLevel(nsq.LogLevelError)

	return &NSQ{producer: p}, nil
}

func (n *NSQ) Publish(ctx context.Context, topic string, msg Message) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	if topic == "" {
		return Receipt{}, ErrTopicRequired
	}

	if err := n.producer.Publish(topic, msg.Body); err != nil {
		if errors.Is(err, nsq.ErrStopped) {
			return Receipt{}, ErrClosed
		}
		return Receipt{}, fmt.Errorf("messaging: nsq publish: %w", err)
	}

	return Receipt{Topic: topic, AcceptedAt: time.Now()}, nil
}

func (n *NSQ) Close() error {
	n.producer.Stop()
	return nil
}
