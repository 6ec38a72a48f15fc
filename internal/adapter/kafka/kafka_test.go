package kafka

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/impact-yield-explorer/internal/config"
	"github.com/couchcryptid/impact-yield-explorer/internal/query"
)

func TestSerializeToMessage(t *testing.T) {
	builtAt := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	snap := query.KeySnapshot{
		Key:        "France",
		YieldYears: 2,
		Summary: query.Summary{
			Key:     "France",
			Yield:   query.Stats{Min: 6.1, Max: 7.2, Avg: 6.65},
			Impacts: query.Stats{},
		},
		BuiltAt: builtAt,
	}

	msg, err := serializeToMessage(snap)
	require.NoError(t, err)

	assert.Equal(t, []byte("France"), msg.Key)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "built_at", msg.Headers[0].Key)
	assert.Equal(t, []byte(builtAt.Format(time.RFC3339)), msg.Headers[0].Value)

	var decoded query.KeySnapshot
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, snap.Summary, decoded.Summary)
	assert.Equal(t, 2, decoded.YieldYears)
	assert.True(t, builtAt.Equal(decoded.BuiltAt))
}

func TestSerializeToMessage_JSONFieldNames(t *testing.T) {
	msg, err := serializeToMessage(query.KeySnapshot{Key: "L6"})
	require.NoError(t, err)

	assert.Contains(t, string(msg.Value), `"key":"L6"`)
	assert.Contains(t, string(msg.Value), `"yield_years":0`)
	assert.Contains(t, string(msg.Value), `"summary":`)
}

func TestNewWriter_UsesSnapshotTopic(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"localhost:9092"}, KafkaSnapshotTopic: "snapshots"}
	w := NewWriter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer w.Close()

	assert.Equal(t, "snapshots", w.writer.Topic)
}

func TestPublishSnapshots_EmptyIsNoop(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"localhost:1"}, KafkaSnapshotTopic: "snapshots"}
	w := NewWriter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer w.Close()

	require.NoError(t, w.PublishSnapshots(context.Background(), nil))
}
