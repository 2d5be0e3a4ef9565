package kafkaconsumer

import (
	"context"
	"testing"

	"github.com/IBM/sarama"

	"github.com/ekomapa/geolayers/internal/core/config"
)

type fakeInvalidator struct {
	layers []string
	err    error
}

func (f *fakeInvalidator) Invalidate(_ context.Context, layerSlug string) (int, error) {
	f.layers = append(f.layers, layerSlug)
	return 1, f.err
}

func msg(value string) *sarama.ConsumerMessage {
	return &sarama.ConsumerMessage{
		Topic:     "layer-invalidation",
		Partition: 0,
		Offset:    42,
		Value:     []byte(value),
	}
}

func TestProcessOne_ValidEvent_Invalidates(t *testing.T) {
	inv := &fakeInvalidator{}
	c := New(Config{}, nil, inv)

	err := c.ProcessOne(context.Background(),
		msg(`{"version":1,"op":"update","layer":"korytarze","ts":"2025-06-01T12:00:00Z"}`))
	if err != nil {
		t.Fatalf("ProcessOne: %v", err)
	}
	if len(inv.layers) != 1 || inv.layers[0] != "korytarze" {
		t.Fatalf("invalidated=%v want [korytarze]", inv.layers)
	}
}

func TestProcessOne_BadJSON_Fails(t *testing.T) {
	inv := &fakeInvalidator{}
	c := New(Config{}, nil, inv)

	if err := c.ProcessOne(context.Background(), msg(`{broken`)); err == nil {
		t.Fatalf("expected decode error")
	}
	if len(inv.layers) != 0 {
		t.Fatalf("invalidator called on bad message")
	}
}

func TestProcessOne_InvalidEvent_Fails(t *testing.T) {
	inv := &fakeInvalidator{}
	c := New(Config{}, nil, inv)

	err := c.ProcessOne(context.Background(),
		msg(`{"version":1,"op":"truncate","layer":"korytarze","ts":"2025-06-01T12:00:00Z"}`))
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if len(inv.layers) != 0 {
		t.Fatalf("invalidator called on invalid event")
	}
}

func TestFromConfig_SplitsBrokers(t *testing.T) {
	cfg := FromConfig(config.InvalidationCfg{
		Brokers: "kafka-1:9092, kafka-2:9092,",
		Topic:   "t",
		GroupID: "g",
	})
	want := []string{"kafka-1:9092", "kafka-2:9092"}
	if len(cfg.Brokers) != len(want) {
		t.Fatalf("brokers=%v want %v", cfg.Brokers, want)
	}
	for i := range want {
		if cfg.Brokers[i] != want[i] {
			t.Fatalf("brokers=%v want %v", cfg.Brokers, want)
		}
	}
}
