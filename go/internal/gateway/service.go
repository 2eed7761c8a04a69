package gateway

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ciberteca/rental/go/internal/events"
)

// Service is the updates gateway: WebSocket fan-out for this node plus
// the optional NATS bridge to the other nodes.
type Service struct {
	connectionManager *ConnectionManager
	wsHandler         *WebSocketHandler
	eventConsumer     *EventConsumer
	publisher         events.Publisher
}

// Config holds configuration for the updates gateway service
type Config struct {
	ConnectionConfig ConnectionConfig
	JetStreamConfig  JetStreamConsumerConfig
}

// DefaultConfig returns default configuration for the updates gateway
func DefaultConfig() Config {
	return Config{
		ConnectionConfig: DefaultConnectionConfig(),
		JetStreamConfig:  DefaultJetStreamConsumerConfig(),
	}
}

// NewService creates a gateway. publisher may be a NoopPublisher for
// single-node deployments; withBridge controls the NATS consumer.
func NewService(config Config, publisher events.Publisher, withBridge bool) (*Service, error) {
	connectionManager := NewConnectionManager(config.ConnectionConfig)
	wsHandler := NewWebSocketHandler(connectionManager)

	s := &Service{
		connectionManager: connectionManager,
		wsHandler:         wsHandler,
		publisher:         publisher,
	}

	// Client-sent updates were already broadcast to this node's group;
	// the bridge forwards them to the peers.
	connectionManager.SetInboundHandler(func(msg events.UpdateMessage) {
		if err := publisher.Publish(context.Background(), msg); err != nil {
			log.Error().Err(err).Str("message", msg.Message).Msg("failed to bridge update")
		}
	})

	if withBridge {
		eventConsumer, err := NewEventConsumer(connectionManager, config.JetStreamConfig)
		if err != nil {
			return nil, err
		}
		s.eventConsumer = eventConsumer
	}

	return s, nil
}

// Start begins the gateway service
func (s *Service) Start(ctx context.Context) error {
	log.Info().Msg("starting updates gateway service")

	go s.connectionManager.Start(ctx)

	if s.eventConsumer != nil {
		go func() {
			if err := s.eventConsumer.Start(ctx); err != nil {
				log.Error().Err(err).Msg("event consumer failed")
			}
		}()
	}

	<-ctx.Done()

	log.Info().Msg("updates gateway service shutting down")
	return s.Stop()
}

// Stop gracefully shuts down the gateway service
func (s *Service) Stop() error {
	if s.eventConsumer != nil {
		if err := s.eventConsumer.Stop(); err != nil {
			log.Error().Err(err).Msg("failed to stop event consumer")
		}
	}

	log.Info().Msg("updates gateway service stopped")
	return nil
}

// RegisterRoutes registers the WebSocket HTTP routes
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	s.wsHandler.RegisterRoutes(mux)
	log.Info().Msg("updates gateway routes registered")
}

// Broadcast fans an update out to this node's clients. Used by the REST
// layer for mutations performed over plain HTTP.
func (s *Service) Broadcast(msg events.UpdateMessage) {
	s.connectionManager.Broadcast(msg)
}
