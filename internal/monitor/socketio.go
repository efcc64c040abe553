package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/idilsaglam/hcadmin/internal/model"
)

// socketTarget splits the configured socket URL into the server origin and
// the Engine.IO path. A path on the URL is a proxy prefix, not a namespace.
func socketTarget(raw string) (origin, path string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("socket url: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return "", "", fmt.Errorf("socket url %q: unsupported scheme", raw)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("socket url %q: missing host", raw)
	}
	path = strings.TrimSuffix(u.Path, "/") + "/socket.io"
	return u.Scheme + "://" + u.Host, path, nil
}

// dialSocket joins the default namespace over the websocket transport. Events
// are handed to on from the client's goroutines; nothing is delivered before
// on is registered. The returned socket never reconnects.
func dialSocket(raw string, on map[string]func(args ...any)) (*socket.Socket, error) {
	origin, path, err := socketTarget(raw)
	if err != nil {
		return nil, err
	}
	opts := socket.DefaultOptions()
	opts.SetPath(path)
	opts.SetTransports(types.NewSet(socket.WebSocket))
	opts.SetReconnection(false)
	opts.SetAutoConnect(false)

	sock := socket.NewManager(origin, opts).Socket("/", opts)
	for name, fn := range on {
		if err := sock.On(types.EventName(name), fn); err != nil {
			return nil, fmt.Errorf("socket listener %s: %w", name, err)
		}
	}
	return sock.Connect(), nil
}

// decodeOnline converts the first event argument into presence counts.
func decodeOnline(args []any) (model.OnlineUsers, error) {
	var u model.OnlineUsers
	if len(args) == 0 || args[0] == nil {
		return u, nil
	}
	b, err := json.Marshal(args[0])
	if err != nil {
		return u, err
	}
	if err := json.Unmarshal(b, &u); err != nil {
		return u, err
	}
	return u, nil
}

// socketError builds an error from the arguments of a connect_error or
// disconnect event.
func socketError(what string, args []any) error {
	for _, a := range args {
		switch v := a.(type) {
		case error:
			return fmt.Errorf("%s: %w", what, v)
		case string:
			if v != "" {
				return fmt.Errorf("%s: %s", what, v)
			}
		case map[string]any:
			if msg, ok := v["message"].(string); ok && msg != "" {
				return fmt.Errorf("%s: %s", what, msg)
			}
		}
	}
	return errors.New(what)
}

// watchSocket forwards push events until ctx ends, then leaves the namespace.
func (m *Monitor) watchSocket(ctx context.Context, raw string) error {
	sock, err := dialSocket(raw, map[string]func(args ...any){
		"connect": func(...any) {
			m.log.Debug().Str("url", raw).Msg("socket connected")
			m.emit(ctx, Connected{})
		},
		"connect_error": func(args ...any) {
			if ctx.Err() != nil {
				return
			}
			err := socketError("socket connect failed", args)
			m.log.Warn().Err(err).Str("url", raw).Msg("socket connect failed")
			m.emit(ctx, Disconnected{Err: err})
		},
		"disconnect": func(args ...any) {
			if ctx.Err() != nil {
				return
			}
			err := socketError("socket closed", args)
			m.log.Warn().Err(err).Msg("socket closed")
			m.emit(ctx, Disconnected{Err: err})
		},
		EventOnlineUsers: func(args ...any) {
			u, err := decodeOnline(args)
			if err != nil {
				m.log.Warn().Err(err).Msg("bad onlineUsersUpdate payload")
				return
			}
			m.emit(ctx, OnlineUpdate{Users: u, At: m.now()})
		},
	})
	if err != nil {
		return err
	}
	<-ctx.Done()
	sock.Disconnect()
	return nil
}
