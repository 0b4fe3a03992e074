package eventbus

import "context"

var globalBus EventBus

// Init устанавливает глобальную шину.
func Init(bus EventBus) { globalBus = bus }

// Publish отправляет событие в глобальную шину, если она инициализирована.
func Publish(ctx context.Context, ev *Envelope) error {
	if globalBus == nil {
		return nil
	}
	return globalBus.Publish(ctx, ev)
}

// Emit упаковывает и публикует событие в глобальную шину
func Emit(ctx context.Context, source, eventType string, payload interface{}) error {
	ev, err := NewEnvelope(source, eventType, PriorityHigh, payload)
	if err != nil {
		return err
	}
	return Publish(ctx, ev)
}
