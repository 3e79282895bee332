package farm

import (
	"context"
	"log"
	"time"

	"farmstead.gg/internal/protocol"
)

// Request is one action submitted to the run loop. Resp must be buffered;
// the loop never blocks on a slow client.
type Request struct {
	Act  protocol.ActMsg
	Resp chan Response
}

type Response struct {
	OK      bool
	Code    string
	Message string
	State   protocol.StateMsg
}

// Inbox is where transports submit requests.
func (g *Game) Inbox() chan<- Request { return g.inbox }

// LoopConfig wires the run loop to its collaborators.
type LoopConfig struct {
	// Now defaults to time.Now.
	Now func() time.Time
	// AutosaveEvery defaults to the tuning interval.
	AutosaveEvery time.Duration
	// Save flushes the current state; it runs synchronously on the loop
	// goroutine, so it always sees a consistent snapshot.
	Save   func(now int64) error
	Logger *log.Logger
}

// Run drives the game until ctx is cancelled. It is the single goroutine
// that mutates game state: every plant/harvest, every autosave and the final
// shutdown save happen here, one at a time. The final save is never skipped.
func (g *Game) Run(ctx context.Context, lc LoopConfig) error {
	now := lc.Now
	if now == nil {
		now = time.Now
	}
	every := lc.AutosaveEvery
	if every <= 0 {
		every = time.Duration(g.tune.AutosaveSeconds) * time.Second
	}

	save := func(reason string) {
		if lc.Save == nil {
			return
		}
		if err := lc.Save(now().Unix()); err != nil && lc.Logger != nil {
			lc.Logger.Printf("save (%s): %v", reason, err)
		}
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			save("shutdown")
			return ctx.Err()
		case <-ticker.C:
			save("autosave")
		case req := <-g.inbox:
			resp := g.handle(req.Act, now().Unix())
			if req.Resp != nil {
				select {
				case req.Resp <- resp:
				default:
				}
			}
		}
	}
}

func (g *Game) handle(act protocol.ActMsg, now int64) Response {
	var err error
	switch act.Action {
	case protocol.ActPlant:
		_, err = g.Plant(act.X, act.Y, act.Crop, now)
	case protocol.ActHarvest:
		_, err = g.Harvest(act.X, act.Y, now)
	case protocol.ActState:
		// Pure read; fall through to the state snapshot below.
	default:
		return Response{
			Code:    protocol.ErrBadRequest,
			Message: "unknown action " + act.Action,
			State:   g.State(now),
		}
	}
	resp := Response{OK: err == nil, State: g.State(now)}
	if err != nil {
		resp.Code = CodeFor(err)
		resp.Message = err.Error()
	}
	return resp
}
