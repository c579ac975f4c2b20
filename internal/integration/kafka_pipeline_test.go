//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/couchcryptid/flood-planner/internal/adapter/cache"
	"github.com/couchcryptid/flood-planner/internal/adapter/kafka"
	"github.com/couchcryptid/flood-planner/internal/config"
	"github.com/couchcryptid/flood-planner/internal/domain"
	"github.com/couchcryptid/flood-planner/internal/observability"
	"github.com/couchcryptid/flood-planner/internal/pipeline"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const (
	testSourceTopic = "test-rain-schedules"
	testSinkTopic   = "test-flood-plans"
)

// publishedPlan holds a deserialized message read from the sink topic.
type publishedPlan struct {
	Event   domain.PlanEvent
	Key     string
	Headers map[string]string
}

// readPlan reads a single message from the sink consumer and deserializes it.
func readPlan(ctx context.Context, t *testing.T, consumer *kafkago.Reader) publishedPlan {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var event domain.PlanEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event), "unmarshal sink message")

	return publishedPlan{
		Event:   event,
		Key:     string(msg.Key),
		Headers: headers,
	}
}

// TestKafkaReaderWriter verifies the adapter layer: kafka.Reader (BatchExtractor) and
// kafka.Writer (BatchLoader) correctly round-trip a request through Kafka.
func TestKafkaReaderWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := testConfig(broker, "test-reader")

	payload, err := json.Marshal(domain.PlanRequest{ID: "req-1", Rains: domain.RainSchedule{1, 2, 0, 0, 1, 2}})
	require.NoError(t, err)

	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })
	require.NoError(t, producer.WriteMessages(ctx, kafkago.Message{Key: []byte("req-1"), Value: payload}))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	batch, err := reader.ExtractBatch(ctx, 1)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	raw := batch[0]
	assert.Equal(t, []byte("req-1"), raw.Key)
	assert.Equal(t, payload, raw.Value)
	assert.Equal(t, testSourceTopic, raw.Topic)
	require.NotNil(t, raw.Commit, "commit callback should be set")
	require.NoError(t, raw.Commit(ctx))

	transformer := pipeline.NewTransformer(domain.GreedyPlanner{}, 0, discardLogger(), observability.NewMetricsForTesting())
	event, err := transformer.Transform(ctx, raw)
	require.NoError(t, err)

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })
	require.NoError(t, writer.LoadBatch(ctx, []domain.PlanEvent{event}))

	consumer := sinkConsumer(t, broker, "test-consumer")
	pp := readPlan(ctx, t, consumer)
	assert.Equal(t, "req-1", pp.Key)
	assert.Equal(t, "feasible", pp.Headers["outcome"])
	_, err = time.Parse(time.RFC3339, pp.Headers["planned_at"])
	assert.NoError(t, err, "planned_at should be valid RFC3339")
	assert.Equal(t, domain.ActionSchedule{-1, -1, 1, 2, -1, -1}, pp.Event.Actions)
}

// TestPipelineEndToEnd wires the full pipeline (Reader → PlanTransformer → Writer)
// with real Kafka and verifies every published plan replays without a flood.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := testConfig(broker, "test-e2e")

	requests := []domain.PlanRequest{
		{ID: "r1", Rains: domain.RainSchedule{1, 2, 3, 4}},
		{ID: "r2", Rains: domain.RainSchedule{1, 2, 1, 0, 2, 1}},
		{ID: "r3", Rains: domain.RainSchedule{1, 2, 0, 1, 2}},
		{ID: "r4", Rains: domain.RainSchedule{1, 0, 2, 0, 2}},
		{ID: "r5", Rains: domain.RainSchedule{1, 0, 2, 0, 2}},
		{ID: "r6", Rains: domain.RainSchedule{1, 2, 0, 0, 1, 2}},
	}
	msgs := make([]kafkago.Message, len(requests))
	for i, req := range requests {
		payload, err := json.Marshal(req)
		require.NoError(t, err)
		msgs[i] = kafkago.Message{Key: []byte(req.ID), Value: payload}
	}

	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })
	require.NoError(t, producer.WriteMessages(ctx, msgs...))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	planner := cache.NewCachedPlanner(domain.GreedyPlanner{}, 16, metrics)
	transformer := pipeline.NewTransformer(planner, cfg.MaxScheduleDays, discardLogger(), metrics)
	p := pipeline.New(reader, transformer, writer, discardLogger(), metrics, cfg.BatchSize)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	consumer := sinkConsumer(t, broker, "test-e2e-sink")
	schedules := make(map[string]domain.RainSchedule, len(requests))
	for _, req := range requests {
		schedules[req.ID] = req.Rains
	}

	outcomes := map[string]string{}
	for range requests {
		pp := readPlan(ctx, t, consumer)
		outcomes[pp.Key] = pp.Event.Outcome
		if pp.Event.Outcome == "feasible" {
			assert.NoError(t, domain.Simulate(schedules[pp.Key], pp.Event.Actions), "plan %s", pp.Key)
		}
	}

	assert.Equal(t, map[string]string{
		"r1": "feasible",
		"r2": "infeasible",
		"r3": "infeasible",
		"r4": "feasible",
		"r5": "feasible",
		"r6": "feasible",
	}, outcomes)
	require.NoError(t, p.CheckReadiness(ctx))

	pipelineCancel()
	require.NoError(t, <-errCh)
}

// TestPipelineSkipsPoisonMessages verifies that unparseable requests are
// committed and skipped while valid ones are still planned.
func TestPipelineSkipsPoisonMessages(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := testConfig(broker, "test-poison")

	valid, err := json.Marshal(domain.PlanRequest{ID: "good", Rains: domain.RainSchedule{1, 0, 1}})
	require.NoError(t, err)

	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })
	require.NoError(t, producer.WriteMessages(ctx,
		kafkago.Message{Key: []byte("bad"), Value: []byte("not-json{{{")},
		kafkago.Message{Key: []byte("negative"), Value: []byte(`{"rains":[1,-1]}`)},
		kafkago.Message{Key: []byte("good"), Value: valid},
	))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	transformer := pipeline.NewTransformer(domain.GreedyPlanner{}, 0, discardLogger(), metrics)
	p := pipeline.New(reader, transformer, writer, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	consumer := sinkConsumer(t, broker, "test-poison-sink")
	pp := readPlan(ctx, t, consumer)
	assert.Equal(t, "good", pp.Key)
	assert.Equal(t, domain.ActionSchedule{-1, 1, -1}, pp.Event.Actions)

	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err = consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "expected no second message on sink topic")

	pipelineCancel()
	require.NoError(t, <-errCh)
}

// --- helpers ---

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("flood-planner-test"))
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "start kafka container")

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrlConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrlConn.Close()

	require.NoError(t, ctrlConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func testConfig(broker, group string) *config.Config {
	return &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("%s-%d", group, time.Now().UnixNano()),
		BatchSize:          50,
		BatchFlushInterval: 2 * time.Second,
		MaxScheduleDays:    1000,
	}
}

func sinkConsumer(t *testing.T, broker, group string) *kafkago.Reader {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("%s-%d", group, time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })
	return consumer
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
