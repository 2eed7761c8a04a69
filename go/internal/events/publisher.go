package events

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
)

// Publisher is an interface that defines our publisher.
type Publisher interface {
	Publish(ctx context.Context, update UpdateMessage) error
}

// JetStreamConfig holds NATS stream settings for the update bridge.
type JetStreamConfig struct {
	URL             string
	StreamName      string
	SubjectPrefix   string
	MaxReconnects   int
	ReconnectWait   time.Duration
	MaxAge          time.Duration // How long to keep messages
	DuplicateWindow time.Duration // Window for duplicate detection
}

// DefaultJetStreamConfig returns default JetStream settings.
func DefaultJetStreamConfig() JetStreamConfig {
	return JetStreamConfig{
		URL:             nats.DefaultURL,
		StreamName:      "RENTAL_UPDATES",
		SubjectPrefix:   "rental.updates",
		MaxReconnects:   -1, // Infinite
		ReconnectWait:   2 * time.Second,
		MaxAge:          24 * time.Hour,
		DuplicateWindow: 2 * time.Minute,
	}
}

// JetStreamPublisher publishes update envelopes to a NATS JetStream
// stream so every server node can fan them out to its own WebSocket
// clients.
type JetStreamPublisher struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	config JetStreamConfig
	node   string
}

// NewJetStreamPublisher connects to NATS and ensures the update stream.
// node identifies this server instance so its consumer can skip its own
// envelopes.
func NewJetStreamPublisher(cfg JetStreamConfig, node string) (*JetStreamPublisher, error) {
	opts := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	p := &JetStreamPublisher{nc: nc, js: js, config: cfg, node: node}

	if err := p.ensureStream(context.Background()); err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensure stream: %w", err)
	}

	return p, nil
}

func (p *JetStreamPublisher) ensureStream(ctx context.Context) error {
	sc := jetstream.StreamConfig{
		Name:        p.config.StreamName,
		Description: "Dashboard update notifications",
		Subjects:    []string{fmt.Sprintf("%s.>", p.config.SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      p.config.MaxAge,
		Storage:     jetstream.FileStorage,
		Duplicates:  p.config.DuplicateWindow,
	}

	if _, err := p.js.Stream(ctx, p.config.StreamName); err != nil {
		if _, err = p.js.CreateStream(ctx, sc); err != nil {
			return fmt.Errorf("create stream: %w", err)
		}
		log.Info().Str("stream", p.config.StreamName).Msg("created JetStream stream")
	}
	return nil
}

// Publish stamps the update and sends it to the stream.
func (p *JetStreamPublisher) Publish(ctx context.Context, update UpdateMessage) error {
	if err := update.Validate(); err != nil {
		return err
	}

	envelope := NewEnvelope(p.node, update)
	data, err := envelope.Marshal()
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("%s.%s", p.config.SubjectPrefix, Subject(update.Message))
	if _, err := p.js.Publish(ctx, subject, data, jetstream.WithMsgID(envelope.EventID.String())); err != nil {
		return fmt.Errorf("publish update: %w", err)
	}

	log.Debug().
		Str("event_id", envelope.EventID.String()).
		Str("subject", subject).
		Str("sender", update.Sender).
		Msg("update published")
	return nil
}

// Close drops the NATS connection.
func (p *JetStreamPublisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}

// Subject maps an update message to its stream subject token.
func Subject(message string) string {
	token := strings.ToLower(strings.Fields(message)[0])
	return token
}

// NoopPublisher is a do-nothing publisher for single-node deployments
// and tests.
type NoopPublisher struct {
	logger *slog.Logger
}

// NewNoopPublisher creates a publisher that only logs.
func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	return &NoopPublisher{logger: logger}
}

func (p *NoopPublisher) Publish(ctx context.Context, update UpdateMessage) error {
	p.logger.Debug("dropping update (no bridge configured)",
		slog.String("message", update.Message),
		slog.String("sender", update.Sender))
	return nil
}
