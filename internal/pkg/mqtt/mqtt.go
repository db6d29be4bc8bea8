package mqtt

import (
	"errors"
	"time"

	paho_mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

const connectTimeout = 5 * time.Second

type service struct {
	client paho_mqtt.Client
	logger *zap.Logger
}

func New(client paho_mqtt.Client) *service {
	return &service{
		client: client,
		logger: zap.L(),
	}
}

func (s *service) Connect() error {
	token := s.client.Connect()
	if token.WaitTimeout(connectTimeout) {
		return nil
	}
	if err := token.Error(); err != nil {
		return err
	}
	return errors.New("unable to connect in time")
}

func (s *service) Disconnect() {
	s.client.Disconnect(250)
}
