package nats

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/abgdnv/inventory/pkg/messaging"
	"github.com/abgdnv/inventory/pkg/messaging/events"
	"github.com/google/uuid"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/nats"
)

// skipIntegrationTests is the environment variable that controls whether to skip integration tests.
const skipIntegrationTests = "INVENTORY_SKIP_INTEGRATION_TESTS"
const natsImg = "nats:2.11.6-alpine"

// PublisherSuite runs NatsPublisher against a real JetStream server.
type PublisherSuite struct {
	suite.Suite
	ctx           context.Context
	logger        *slog.Logger
	natsContainer *nats.NATSContainer
	nc            *natsgo.Conn
	js            jetstream.JetStream
}

func (s *PublisherSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var err error
	s.natsContainer, err = nats.Run(s.ctx, natsImg)
	require.NoError(s.T(), err, "Failed to run NATS container")

	natsURL, err := s.natsContainer.ConnectionString(s.ctx)
	require.NoError(s.T(), err, "Failed to get NATS connection string")

	s.nc, err = NewClient(natsURL, 5*time.Second)
	require.NoError(s.T(), err, "Failed to connect to NATS")

	s.js, err = NewJetStreamContext(s.nc)
	require.NoError(s.T(), err, "Failed to get JetStream context")

	s.logger.Info("Initialization complete for PublisherSuite")
}

func (s *PublisherSuite) TearDownSuite() {
	if s.nc != nil {
		s.nc.Close()
	}
	if err := testcontainers.TerminateContainer(s.natsContainer); err != nil {
		s.logger.Error("Failed to terminate NATS container", "error", err)
	}
}

func TestPublisherIntegration(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	suite.Run(t, new(PublisherSuite))
}

func (s *PublisherSuite) TestPublish_ProductCreated() {
	// given
	streamName := "INVENTORY-" + uuid.NewString()
	require.NoError(s.T(), EnsureStream(s.ctx, s.js, streamName, messaging.InventorySubjects))
	publisher := NewNatsPublisher(s.js)
	event := events.NewProductCreated(42, nil)

	// when
	err := publisher.Publish(s.ctx, event)

	// then
	require.NoError(s.T(), err)
	stream, err := s.js.Stream(s.ctx, streamName)
	require.NoError(s.T(), err)
	msg, err := stream.GetLastMsgForSubject(s.ctx, messaging.ProductCreatedSubject)
	require.NoError(s.T(), err)

	var received events.ProductEvent
	require.NoError(s.T(), json.Unmarshal(msg.Data, &received))
	s.Equal(int64(42), received.ProductID)

	require.NoError(s.T(), s.js.DeleteStream(s.ctx, streamName))
}

func (s *PublisherSuite) TestPublish_NoStream() {
	// given
	publisher := NewNatsPublisher(s.js)
	ctx, cancel := context.WithTimeout(s.ctx, 2*time.Second)
	defer cancel()

	// when
	err := publisher.Publish(ctx, events.NewProductCreated(1, nil))

	// then
	s.Error(err, "publish without a capturing stream must fail")
}

func (s *PublisherSuite) TestEnsureStream_Idempotent() {
	streamName := "INVENTORY-" + uuid.NewString()

	require.NoError(s.T(), EnsureStream(s.ctx, s.js, streamName, "idem."+uuid.NewString()))
	require.NoError(s.T(), EnsureStream(s.ctx, s.js, streamName, "idem."+uuid.NewString()))

	require.NoError(s.T(), s.js.DeleteStream(s.ctx, streamName))
}
