package player

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/lobby/internal/model"
)

const (
	ActionShow  = "show"
	ActionBlank = "blank"

	publishTimeout = 5 * time.Second
)

// Command tells the screen hardware what to render.
type Command struct {
	Action      string            `json:"action"`
	Index       int               `json:"index"`
	ContentType model.ContentType `json:"content_type,omitempty"`
	URL         string            `json:"url"`
	Duration    int               `json:"duration"`
	Remaining   int64             `json:"remaining"`
	SentAt      time.Time         `json:"sent_at"`
}

// Display renders commands.
type Display interface {
	Show(cmd Command) error
}

// LogDisplay only logs commands. Used when no broker is configured.
type LogDisplay struct{}

func (LogDisplay) Show(cmd Command) error {
	log.Info().
		Str("action", cmd.Action).
		Int("index", cmd.Index).
		Str("content_type", string(cmd.ContentType)).
		Str("url", cmd.URL).
		Int64("remaining_ms", cmd.Remaining).
		Msg("[player] display")
	return nil
}

// publisher is the part of mqtt.Client the display needs.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTDisplay publishes commands to the device's command topic. Messages are
// retained so a TV that powers on late gets the current slot at once.
type MQTTDisplay struct {
	client publisher
	topic  string
}

// NewMQTTDisplay connects to the broker. topicFormat gets the device id.
func NewMQTTDisplay(brokerURL, clientID, topicFormat, deviceID string) (*MQTTDisplay, func(), error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.OnConnect = func(mqtt.Client) {
		log.Info().Str("broker", brokerURL).Msg("[player] connected to MQTT broker")
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Msg("[player] MQTT connection lost")
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.WaitTimeout(publishTimeout) && token.Error() != nil {
		return nil, nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	closeFn := func() { client.Disconnect(250) }
	return newMQTTDisplay(client, topicFormat, deviceID), closeFn, nil
}

func newMQTTDisplay(client publisher, topicFormat, deviceID string) *MQTTDisplay {
	return &MQTTDisplay{client: client, topic: fmt.Sprintf(topicFormat, deviceID)}
}

func (d *MQTTDisplay) Topic() string {
	return d.topic
}

func (d *MQTTDisplay) Show(cmd Command) error {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return err
	}

	token := d.client.Publish(d.topic, 1, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s timed out", d.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", d.topic, err)
	}
	return nil
}
