package mqtt

import (
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// NewMQTTClient creates a connected MQTT client. The broker is optional
// infrastructure; callers pass the client around nil-guarded.
func NewMQTTClient(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().AddBroker(broker).SetClientID(clientID)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return client, nil
}
