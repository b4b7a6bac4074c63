package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/onyxdrift/onyxdrift-server/internal/auth"
	"github.com/onyxdrift/onyxdrift-server/internal/core"
	"github.com/onyxdrift/onyxdrift-server/internal/metrics"
	"github.com/onyxdrift/onyxdrift-server/internal/proto"
	"github.com/onyxdrift/onyxdrift-server/internal/utils"
)

// WSHandler upgrades HTTP connections and bridges them to core.Client.
type WSHandler struct {
	hub       *core.Hub
	verifier  *auth.Verifier
	rateLimit int
	log       *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *core.Hub, verifier *auth.Verifier, rateLimit int, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{hub: hub, verifier: verifier, rateLimit: rateLimit, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	identity, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	metrics.ConnectionsActive.Inc()
	defer metrics.ConnectionsActive.Dec()

	client := core.NewClient(utils.NewConnID())
	h.hub.Attach(client)
	defer h.hub.Detach(client)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client, identity)
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
		if s := websocket.CloseStatus(err); s > 0 {
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
			h.log.Warn().Err(err).Str("conn_id", client.ConnID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

// authenticate resolves the verified user identity for the upgrade
// request. With verification disabled it returns an empty identity and
// the announced userId is trusted as-is.
func (h *WSHandler) authenticate(w stdhttp.ResponseWriter, r *stdhttp.Request) (string, bool) {
	if h.verifier == nil || !h.verifier.Enabled() {
		return "", true
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		if header := r.Header.Get("Authorization"); header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				token = parts[1]
			}
		}
	}
	if token == "" {
		h.log.Debug().Msg("ws upgrade without token")
		stdhttp.Error(w, "missing token", stdhttp.StatusUnauthorized)
		return "", false
	}

	claims, err := h.verifier.Verify(token)
	if err != nil {
		h.log.Debug().Err(err).Msg("ws upgrade with invalid token")
		stdhttp.Error(w, "invalid token", stdhttp.StatusUnauthorized)
		return "", false
	}
	return claims.UserID(), true
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client, identity string) error {
	limiter := newRateLimiter(h.rateLimit)

	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		if !limiter.allow(time.Now()) {
			metrics.FramesRejected.WithLabelValues("rate_limited").Inc()
			if err := wsjson.Write(ctx, conn, proto.Outbound{
				Type:  proto.OutboundTypeError,
				Error: &proto.Error{Code: core.ErrCodeRateLimited, Msg: "too many messages"},
			}); err != nil {
				return err
			}
			continue
		}

		cmd, protoErr, err := inboundToCommand(inbound, identity)
		if err != nil {
			h.log.Warn().Err(err).Str("conn_id", client.ConnID).Str("type", inbound.Type).Msg("failed to map inbound")
			return err
		}
		if protoErr != nil {
			metrics.FramesRejected.WithLabelValues(protoErr.Code).Inc()
			h.log.Debug().Str("conn_id", client.ConnID).Str("code", protoErr.Code).Msg("inbound frame rejected")
			if writeErr := wsjson.Write(ctx, conn, proto.Outbound{
				Type:  proto.OutboundTypeError,
				Error: protoErr,
			}); writeErr != nil {
				return writeErr
			}
			continue
		}
		if cmd != nil {
			select {
			case client.Commands <- cmd:
			case <-ctx.Done():
				return ctx.Err()
			}
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
				h.log.Error().Err(err).Str("conn_id", client.ConnID).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
