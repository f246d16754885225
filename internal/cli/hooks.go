package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/racktower/pkg/observability"
)

// debugHooks traces engine, store and cache events at debug level.
type debugHooks struct {
	logger *log.Logger
}

func registerHooks(l *log.Logger) {
	h := debugHooks{logger: l}
	observability.SetLayoutHooks(h)
	observability.SetStoreHooks(h)
	observability.SetCacheHooks(h)
}

func (h debugHooks) OnPlace(instanceID, moduleID string, anchor, span int, moved bool) {
	h.logger.Debug("place", "instance", instanceID, "module", moduleID, "anchor", anchor, "span", span, "moved", moved)
}

func (h debugHooks) OnRemove(instanceID string) {
	h.logger.Debug("remove", "instance", instanceID)
}

func (h debugHooks) OnResize(from, to int, removed []string) {
	h.logger.Debug("resize", "from", from, "to", to, "removed", removed)
}

func (h debugHooks) OnClear(height int) {
	h.logger.Debug("clear", "height", height)
}

func (h debugHooks) OnReject(op string, err error) {
	h.logger.Debug("rejected", "op", op, "error", err)
}

func (h debugHooks) OnLoad(_ context.Context, backend string, slots int, d time.Duration, err error) {
	h.logger.Debug("load state", "backend", backend, "slots", slots, "duration", d, "error", err)
}

func (h debugHooks) OnSave(_ context.Context, backend string, size int, d time.Duration, err error) {
	h.logger.Debug("save state", "backend", backend, "bytes", size, "duration", d, "error", err)
}

func (h debugHooks) OnMigrate(_ context.Context, fromSlots, toSlots int) {
	h.logger.Info("upgraded layout to half-U slots", "from", fromSlots, "to", toSlots)
}

func (h debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}
