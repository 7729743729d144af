// Package mqtt mirrors the monitor's status to an MQTT broker, with
// abstraction for testing.
package mqtt

import (
	"encoding/json"
	"math"
	"time"

	"github.com/sweeney/envmon/internal/control"
)

// TopicStatus is the MQTT topic for status updates.
const TopicStatus = "environment/monitor/status"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "environment/monitor/system"

// Publisher publishes monitor state to MQTT.
type Publisher interface {
	// PublishStatus sends a status snapshot to the broker.
	// Returns error if publishing fails (should not crash the process).
	PublishStatus(ts time.Time, snap control.Snapshot) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown).
type SystemEvent struct {
	Timestamp time.Time
	Event     string // e.g., "STARTUP", "SHUTDOWN"
	Reason    string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	Retained  bool   // Whether the message should be retained by the broker
}

// StatusPayload represents the MQTT status message.
type StatusPayload struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Timestamp string      `json:"timestamp"`
	Mode      string      `json:"mode"`
	Fan       string      `json:"fan"`
	Light     string      `json:"light"`
	Reading   ReadingJSON `json:"reading"`
	Faults    FaultsJSON  `json:"faults"`
}

// ReadingJSON is the JSON representation of a reading.
type ReadingJSON struct {
	Temperature float64 `json:"temperature_c"`
	Humidity    float64 `json:"humidity_pct"`
	Pressure    float64 `json:"pressure_hpa"`
	Light       uint32  `json:"light_lux"`
}

// FaultsJSON is the JSON representation of consecutive sensor failures.
type FaultsJSON struct {
	TempHumidity int `json:"temp_humidity"`
	Pressure     int `json:"pressure"`
	Light        int `json:"light"`
}

// FormatStatusPayload creates the JSON payload for a status snapshot.
func FormatStatusPayload(ts time.Time, snap control.Snapshot) ([]byte, error) {
	r := snap.Reading
	payload := StatusPayload{
		Status: StatusInner{
			Timestamp: ts.UTC().Format(time.RFC3339),
			Mode:      snap.Mode.String(),
			Fan:       onOff(snap.FanOn),
			Light:     onOff(snap.LightOn),
			Reading: ReadingJSON{
				Temperature: round2(r.Temperature),
				Humidity:    round2(r.Humidity),
				Pressure:    round2(r.Pressure),
				Light:       r.Light,
			},
			Faults: FaultsJSON{
				TempHumidity: snap.Faults.TempHumidity,
				Pressure:     snap.Faults.Pressure,
				Light:        snap.Faults.Light,
			},
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
