// Package mqtt pushes fetched dataset records to an MQTT broker as
// retained JSON messages.
package mqtt

import (
	"encoding/json"
	"fmt"
	"log/slog"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type Publisher struct {
	client mqtt.Client
	logger *slog.Logger
	prefix string
}

func NewPublisher(broker string, port int16, username string, password string, topicPrefix string) *Publisher {
	logger := slog.Default().With(slog.String("module", "mqtt"))

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", broker, port))
	opts.SetClientID("energinetd")
	opts.SetUsername(username)
	opts.SetPassword(password)
	opts.SetAutoReconnect(true)
	opts.OnConnect = func(client mqtt.Client) {
		logger.Info("MQTT connected")
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		logger.Warn("MQTT connection lost", slog.Any("error", err))
	}

	mqtt.CRITICAL = newPahoLogger(logger, slog.LevelError)
	mqtt.ERROR = newPahoLogger(logger, slog.LevelError)
	mqtt.WARN = newPahoLogger(logger, slog.LevelWarn)

	return &Publisher{
		client: mqtt.NewClient(opts),
		logger: logger,
		prefix: topicPrefix,
	}
}

func (p *Publisher) Connect() error {
	p.logger.Debug("connecting MQTT client")
	if token := p.client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

func (p *Publisher) Disconnect() {
	p.logger.Info("disconnecting MQTT client")
	p.client.Disconnect(250)
}

// Publish sends payload as retained JSON under "<prefix>/<topic>".
func (p *Publisher) Publish(topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode MQTT payload: %w", err)
	}

	token := p.client.Publish(p.prefix+"/"+topic, 0, true, data)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, token.Error())
	}

	return nil
}
