package homie

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/angas/spotprice-go/config"
)

const publishTimeout = 10 * time.Second

// Publisher owns the broker connection and the Homie device tree.
// Discovery metadata is (re)published on every connection
// establishment, before any value publish.
type Publisher struct {
	mqttClient mqtt.Client
	logger     *slog.Logger
	device     Device

	// OnReady is invoked after the discovery metadata has been
	// published on a new broker connection. The driver uses it to
	// force a fresh value publish after a reconnect.
	OnReady func()
}

func NewPublisher(cnfg config.AppConfigMqtt, device Device) *Publisher {
	logger := slog.Default().With("module", "homie")

	p := &Publisher{
		logger: logger,
		device: device,
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cnfg.Host, cnfg.Port))
	opts.SetClientID(device.Id)
	if cnfg.Username != "" {
		opts.SetUsername(cnfg.Username)
		opts.SetPassword(cnfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetWill(device.topic("$state"), StateLost, 1, true)
	opts.OnConnect = func(client mqtt.Client) {
		logger.Info("broker connected")
		if err := p.publishDescriptor(); err != nil {
			logger.Error("failed to publish discovery metadata", slog.Any("error", err))
			return
		}
		if p.OnReady != nil {
			p.OnReady()
		}
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		logger.Warn("broker connection lost", slog.Any("error", err))
	}

	mqttLogger := slog.Default().With("module", "mqtt")
	mqtt.CRITICAL = newMqttLogger(mqttLogger, slog.LevelError)
	mqtt.ERROR = newMqttLogger(mqttLogger, slog.LevelError)
	mqtt.WARN = newMqttLogger(mqttLogger, slog.LevelWarn)

	p.mqttClient = mqtt.NewClient(opts)
	return p
}

func (p *Publisher) Connect() error {
	p.logger.Debug("connecting MQTT client")
	if token := p.mqttClient.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

func (p *Publisher) Disconnect() {
	if p.mqttClient.IsConnected() {
		// Leave a clean retained state behind instead of triggering the will.
		if err := p.publish(p.device.topic("$state"), StateDisconnected); err != nil {
			p.logger.Warn("failed to publish disconnected state", slog.Any("error", err))
		}
	}
	p.mqttClient.Disconnect(250)
	p.logger.Debug("MQTT client disconnected")
}

// PublishValue publishes a property value, retained with QoS 1.
func (p *Publisher) PublishValue(nodeId, propertyId, payload string) error {
	return p.publish(p.device.ValueTopic(nodeId, propertyId), payload)
}

func (p *Publisher) publishDescriptor() error {
	for _, attr := range p.device.descriptor() {
		if err := p.publish(attr.topic, attr.payload); err != nil {
			return fmt.Errorf("publishing %s: %w", attr.topic, err)
		}
	}
	p.logger.Debug("discovery metadata published", slog.String("device", p.device.Id))
	return nil
}

func (p *Publisher) publish(topic, payload string) error {
	token := p.mqttClient.Publish(topic, 1, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		return errors.New("publish timed out waiting for broker ack")
	}
	return token.Error()
}
