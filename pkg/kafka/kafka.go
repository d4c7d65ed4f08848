package kafka

import (
	"encoding/json"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
)

type Config struct {
	Addrs []string `yaml:"addrs" envconfig:"KAFKA_ADDRS" default:"localhost:9092"`
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}

// Producer publishes json payloads keyed by a channel name.
type Producer struct {
	producer sarama.SyncProducer
}

func NewPublisher(cfg Config) (*Producer, error) {
	p, err := NewProducer(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "new sync producer")
	}
	return &Producer{producer: p}, nil
}

func (p *Producer) Publish(topic, channel string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshal payload")
	}
	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(channel),
		Value: sarama.ByteEncoder(value),
	})
	return err
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
