package tools

import (
	"context"

	"github.com/google/uuid"

	"filechat/pkg/events"
	"filechat/pkg/logger"
)

// Run executes cmd in the calling goroutine and publishes its outcome to
// the bus: a busy status up front, then a notice with the result text and a
// final idle-or-error status. The consumer drains both before its next
// redraw, so their relative order is not load-bearing.
func Run(ctx context.Context, cmd Command, bus *events.Bus, log *logger.Logger) {
	id := uuid.NewString()[:8]
	if log != nil {
		log.Info("command %s [%s] started", cmd.Name(), id)
	}

	bus.Publish(events.StatusEvent{Status: events.Requesting()})

	msg, err := cmd.Execute(ctx)
	if err != nil {
		if log != nil {
			log.Warn("command %s [%s] failed: %v", cmd.Name(), id, err)
		}
		bus.Publish(events.NoticeEvent{Text: "Operation failed: " + err.Error()})
		bus.Publish(events.StatusEvent{Status: events.ErrorStatus(err.Error())})
		return
	}

	if log != nil {
		log.Info("command %s [%s] done", cmd.Name(), id)
	}
	bus.Publish(events.NoticeEvent{Text: msg})
	bus.Publish(events.StatusEvent{Status: events.Idle()})
}

// Spawn runs cmd on its own goroutine so a slow filesystem operation never
// stalls the interaction loop.
func Spawn(ctx context.Context, cmd Command, bus *events.Bus, log *logger.Logger) {
	go Run(ctx, cmd, bus, log)
}
