package mqtt

import (
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/sweeney/envmon/internal/control"
)

// bufferSize is how many messages are kept while the broker is unreachable.
const bufferSize = 100

// RealPublisher publishes to an actual MQTT broker. Messages published while
// disconnected are buffered and replayed on reconnect.
type RealPublisher struct {
	client paho.Client
	log    *zap.Logger

	mu      sync.Mutex
	pending *ringBuffer
}

// NewRealPublisher creates a publisher for the given broker and starts
// connecting in the background. A retained OFFLINE system event is
// registered as the last will.
func NewRealPublisher(broker, clientID string, log *zap.Logger) (*RealPublisher, error) {
	will, err := FormatSystemPayload(SystemEvent{Timestamp: time.Now(), Event: "OFFLINE", Reason: "LWT"})
	if err != nil {
		return nil, fmt.Errorf("format will: %w", err)
	}

	p := &RealPublisher{
		log:     log,
		pending: newRingBuffer(bufferSize),
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetWill(TopicSystem, string(will), 1, true).
		SetOnConnectHandler(func(paho.Client) {
			log.Info("mqtt connected", zap.String("broker", broker))
			p.flush()
		}).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Warn("mqtt connection lost", zap.Error(err))
		})

	p.client = paho.NewClient(opts)
	p.client.Connect()
	return p, nil
}

// PublishStatus sends a status snapshot to the MQTT broker.
func (p *RealPublisher) PublishStatus(ts time.Time, snap control.Snapshot) error {
	payload, err := FormatStatusPayload(ts, snap)
	if err != nil {
		return fmt.Errorf("format status payload: %w", err)
	}
	// QoS 0 (at-most-once), retained so new subscribers see the last state
	return p.send(pendingMsg{topic: TopicStatus, payload: payload, qos: 0, retained: true})
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	// QoS 1 (at-least-once) for lifecycle events
	return p.send(pendingMsg{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained})
}

func (p *RealPublisher) send(m pendingMsg) error {
	if !p.client.IsConnectionOpen() {
		p.buffer(m)
		return nil
	}
	if err := p.publish(m); err != nil {
		p.buffer(m)
		return err
	}
	return nil
}

func (p *RealPublisher) publish(m pendingMsg) error {
	token := p.client.Publish(m.topic, m.qos, m.retained, m.payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish %s timeout", m.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", m.topic, err)
	}
	return nil
}

func (p *RealPublisher) buffer(m pendingMsg) {
	p.mu.Lock()
	dropped := p.pending.push(m)
	p.mu.Unlock()
	if dropped {
		p.log.Warn("mqtt buffer full, dropping oldest", zap.Int("capacity", bufferSize))
	}
}

// flush replays buffered messages oldest first.
func (p *RealPublisher) flush() {
	p.mu.Lock()
	msgs := p.pending.drainAll()
	p.mu.Unlock()

	for i, m := range msgs {
		if err := p.publish(m); err != nil {
			p.log.Warn("mqtt replay failed", zap.Error(err), zap.Int("remaining", len(msgs)-i))
			for _, rest := range msgs[i:] {
				p.buffer(rest)
			}
			return
		}
	}
	if len(msgs) > 0 {
		p.log.Info("mqtt replayed buffered messages", zap.Int("count", len(msgs)))
	}
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second quiesce
	return nil
}
