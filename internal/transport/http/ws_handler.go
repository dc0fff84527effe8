package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/raunak51299/LocalChatApp/internal/core"
	"github.com/raunak51299/LocalChatApp/internal/proto"
)

// WSHandler upgrades HTTP connections and bridges them to core.Client.
type WSHandler struct {
	hub     *core.Hub
	origins []string
	log     *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler. origins is the allowed
// origin list for the upgrade handshake; entries may carry a scheme,
// which is stripped because origin patterns match the host only.
func NewWSHandler(hub *core.Hub, origins []string, logger *zerolog.Logger) stdhttp.Handler {
	patterns := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimPrefix(origin, "http://")
		origin = strings.TrimPrefix(origin, "https://")
		patterns = append(patterns, origin)
	}
	return &WSHandler{hub: hub, origins: patterns, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	client := core.NewClient(uuid.NewString())
	h.hub.RegisterClient(client)
	defer h.hub.UnregisterClient(client)

	h.log.Debug().Str("conn_id", client.ID).Msg("ws connected")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("conn_id", client.ID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		cmd, err := inboundToCommand(inbound)
		if err != nil {
			h.log.Debug().Err(err).Str("conn_id", client.ID).Str("event", inbound.Event).Msg("malformed inbound event")
			if writeErr := wsjson.Write(ctx, conn, proto.Outbound{
				Event: proto.OutboundError,
				Data:  "invalid event payload",
			}); writeErr != nil {
				return writeErr
			}
			continue
		}
		if cmd != nil {
			client.Commands <- cmd
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
