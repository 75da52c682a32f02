package compositor

import "context"

// Layer names what a hook event is about.
type Layer string

const (
	LayerBackground Layer = "background"
	LayerOutline    Layer = "outline"
	LayerSlot       Layer = "slot"
	LayerPrinted    Layer = "printed-image"
	LayerSticker    Layer = "sticker"
	LayerText       Layer = "text"
)

// Hooks receives one event per layer as the compositor works through a
// scene. Events arrive in paint order on the rendering goroutine.
type Hooks interface {
	OnLayerDrawn(ctx context.Context, layer Layer, id string)
	OnLayerSkipped(ctx context.Context, layer Layer, id string, err error)
}

// NoopHooks ignores every event.
type NoopHooks struct{}

func (NoopHooks) OnLayerDrawn(context.Context, Layer, string) {}
func (NoopHooks) OnLayerSkipped(context.Context, Layer, string, error) {}
