package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/anicoll/nem-integration/internal/pkg/model"
	"github.com/anicoll/nem-integration/internal/pkg/publisher"
)

var (
	configuredRegions   = map[model.RegionID]struct{}{}
	configuredRegionsMu sync.Mutex
)

// Write publishes each flattened summary field as a home-assistant sensor
// state. An empty unit marks a text sensor.
func (s *service) Write(ctx context.Context, data []map[string]any) error {
	for _, d := range data {
		if err := s.publishState(d); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) publishState(data map[string]any) error {
	unit := data["unit_of_measurement"].(string)
	topic := fmt.Sprintf("homeassistant/sensor/%s/%s/state", data["identifier"], data["slug"].(string))

	payload := map[string]string{
		"value": data["value"].(string),
	}
	if unit != "" {
		payload["unit_of_measurement"] = unit
	}

	publishData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	token := s.client.Publish(topic, 0, false, publishData)
	if token.WaitTimeout(time.Second * 10) {
		return nil
	}
	if err := token.Error(); err != nil {
		return err
	}
	return nil
}

// RegisterRegion announces a region device on the home-assistant discovery
// topic. Repeated registration is a no-op.
func (s *service) RegisterRegion(region model.RegionID) error {
	configuredRegionsMu.Lock()
	defer configuredRegionsMu.Unlock()
	if _, exists := configuredRegions[region]; exists {
		return nil
	}
	identifier := publisher.Identifier(region)
	registerMessage := registerMsg(region, identifier)

	topic := fmt.Sprintf("homeassistant/sensor/%s/config", identifier)

	payload, err := json.Marshal(registerMessage)
	if err != nil {
		return err
	}
	token := s.client.Publish(topic, 1, true, payload)
	if err := token.Error(); err != nil {
		return err
	}
	if token.WaitTimeout(time.Second * 5) {
		configuredRegions[region] = struct{}{}
	}
	return nil
}

type registerDevice struct {
	Name         string   `json:"name"`
	Identifiers  []string `json:"identifiers"`
	Model        string   `json:"model"`
	Manufacturer string   `json:"manufacturer"`
}

type registerMessage struct {
	Tilda      string         `json:"~"`
	Name       string         `json:"name"`
	ID         string         `json:"unique_id"`
	StateTopic string         `json:"state_topic"`
	Device     registerDevice `json:"device"`
}

func registerMsg(region model.RegionID, identifier string) registerMessage {
	name := fmt.Sprintf("NEM %s", region.String())
	return registerMessage{
		Tilda:      fmt.Sprintf("homeassistant/sensor/%s", identifier),
		Name:       name,
		ID:         identifier,
		StateTopic: "~/state",
		Device: registerDevice{
			Name:         name,
			Identifiers:  []string{identifier},
			Model:        region.String(),
			Manufacturer: "AEMO",
		},
	}
}
