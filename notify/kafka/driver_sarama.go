package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/IBM/sarama"

	"svgasset/internal/logging"
	"svgasset/notify"
)

type Config struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	Acks    int16    `yaml:"required_acks"` // 0,1,-1
	Version string   `yaml:"version"`
}

// driver publishes through a sarama AsyncProducer. Delivery failures are read
// by a single goroutine (watchErrors), which logs and keeps them; Close shuts
// the producer down with AsyncClose so it does not compete for the Errors
// channel, then reports every kept failure.
type driver struct {
	cfg Config
	p   sarama.AsyncProducer

	once sync.Once
	wg   sync.WaitGroup

	mu     sync.Mutex
	failed []error
}

// NewWithProducer wraps an existing producer; Configure is not needed.
func NewWithProducer(p sarama.AsyncProducer, topic string) notify.Publisher {
	d := &driver{cfg: Config{Topic: topic}, p: p}
	d.watchErrors()
	return d
}

func (d *driver) Configure(c any) error {
	cfg, ok := c.(Config)
	if !ok {
		return fmt.Errorf("kafka-notify: want Config, got %T", c)
	}
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		return fmt.Errorf("kafka-notify: brokers and topic are required")
	}
	d.cfg = cfg

	sc := sarama.NewConfig()
	sc.Producer.RequiredAcks = sarama.RequiredAcks(cfg.Acks)
	sc.Producer.Return.Errors = true
	if cfg.Version != "" {
		ver, err := sarama.ParseKafkaVersion(cfg.Version)
		if err != nil {
			return err
		}
		sc.Version = ver
	}
	var err error
	d.p, err = sarama.NewAsyncProducer(cfg.Brokers, sc)
	if err != nil {
		return err
	}
	d.watchErrors()
	return nil
}

func (d *driver) Publish(ctx context.Context, ev notify.AssetEvent) error {
	if d.p == nil {
		return fmt.Errorf("kafka-notify: not configured")
	}
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: d.cfg.Topic,
		Key:   sarama.StringEncoder(ev.Source),
		Value: sarama.ByteEncoder(value),
	}
	select {
	case d.p.Input() <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *driver) Close() error {
	var err error
	d.once.Do(func() {
		if d.p == nil {
			return
		}
		d.p.AsyncClose()
		d.wg.Wait() // Errors is closed once the producer has flushed

		d.mu.Lock()
		defer d.mu.Unlock()
		if len(d.failed) > 0 {
			err = fmt.Errorf("kafka-notify: %d deliveries failed: %w", len(d.failed), errors.Join(d.failed...))
		}
	})
	return err
}

func (d *driver) watchErrors() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for pe := range d.p.Errors() {
			logging.For("kafka-notify").Warn("delivery failed", "topic", d.cfg.Topic, "err", pe.Err)
			d.mu.Lock()
			d.failed = append(d.failed, pe.Err)
			d.mu.Unlock()
		}
	}()
}

func init() { notify.Register("kafka", func() notify.Publisher { return &driver{} }) }
