package eventbus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Типы событий жизненного цикла
const (
	TypeResourceReload = "resource_reload"
	TypeWorldLoad      = "world_load"
	TypeWorldUnload    = "world_unload"
	TypeConfigChanged  = "config_changed"
)

// ResourceReload ресурс-паки изменились; PackDirs пуст если каталоги прежние
type ResourceReload struct {
	PackDirs []string `json:"pack_dirs,omitempty"`
	Reason   string   `json:"reason,omitempty"`
}

// WorldLoad мир загружен; движок заново собирает поколение из паков
type WorldLoad struct {
	World string `json:"world"`
}

// WorldUnload мир выгружен
type WorldUnload struct {
	World string `json:"world"`
}

// ConfigChanged изменились настройки движка
type ConfigChanged struct {
	MasterVolume *float64 `json:"master_volume,omitempty"`
	Reload       bool     `json:"reload,omitempty"`
}

// NewEnvelope упаковывает полезную нагрузку в событие с новым UUID
func NewEnvelope(source, eventType string, priority int, payload interface{}) (*Envelope, error) {
	var data []byte
	if payload != nil {
		var err error
		data, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("ошибка сериализации %s: %w", eventType, err)
		}
	}
	return &Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    source,
		EventType: eventType,
		Priority:  priority,
		Payload:   data,
	}, nil
}

// Decode разбирает полезную нагрузку события
func (ev *Envelope) Decode(v interface{}) error {
	if len(ev.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(ev.Payload, v); err != nil {
		return fmt.Errorf("событие %s %s: %w", ev.EventType, ev.ID, err)
	}
	return nil
}
