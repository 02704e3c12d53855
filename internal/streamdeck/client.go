package streamdeck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/petems/clipslot/internal/slot"
	"github.com/rs/zerolog"
)

const (
	writeWait        = 10 * time.Second
	handshakeTimeout = 10 * time.Second
	maxMessageSize   = 512 * 1024
)

var errNotRegistered = errors.New("not connected to host")

// Handler receives key events. Calls for one context never overlap.
type Handler interface {
	OnAppear(ctx context.Context, contextID string, s slot.Settings)
	Forget(contextID string)
	OnPressStart(ctx context.Context, contextID string, s slot.Settings)
	OnPressEnd(ctx context.Context, contextID string, s slot.Settings)
	OnSettingsChanged(ctx context.Context, contextID string, s slot.Settings)
	OnCommand(ctx context.Context, contextID, name string) error
}

// Client is the plugin side of the host's WebSocket connection.
type Client struct {
	args LaunchArgs
	log  zerolog.Logger
	host string

	connMu sync.Mutex
	conn   *websocket.Conn

	dispatch *dispatcher
}

// New creates a client for the given launch arguments.
func New(args LaunchArgs, log zerolog.Logger) *Client {
	return &Client{
		args:     args,
		log:      log.With().Str("component", "streamdeck").Logger(),
		host:     "127.0.0.1",
		dispatch: newDispatcher(),
	}
}

// Connect dials the host and registers the plugin.
func (c *Client) Connect(ctx context.Context) error {
	if err := c.args.Validate(); err != nil {
		return err
	}

	url := fmt.Sprintf("ws://%s:%d", c.host, c.args.Port)
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to host: %w", err)
	}
	conn.SetReadLimit(maxMessageSize)

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()

	if err := c.write(registration{Event: c.args.RegisterEvent, UUID: c.args.PluginUUID}); err != nil {
		conn.Close()
		return fmt.Errorf("failed to register plugin: %w", err)
	}

	c.log.Info().Str("url", url).Msg("Registered with host")
	return nil
}

// Run reads events until the host closes the connection or ctx is done.
// The host restarts the plugin if it needs it again, so there is no
// reconnect.
func (c *Client) Run(ctx context.Context, h Handler) error {
	c.connMu.Lock()
	conn := c.conn
	c.connMu.Unlock()
	if conn == nil {
		return errNotRegistered
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			c.Close()
		case <-stop:
		}
	}()
	defer c.dispatch.stop()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Info().Msg("Host closed connection")
				return nil
			}
			return fmt.Errorf("read from host: %w", err)
		}

		var ev inbound
		if err := json.Unmarshal(message, &ev); err != nil {
			c.log.Warn().Err(err).Msg("Failed to parse host event")
			continue
		}
		c.route(ctx, h, ev)
	}
}

func (c *Client) route(ctx context.Context, h Handler, ev inbound) {
	if ev.Context == "" {
		c.log.Debug().Str("event", ev.Event).Msg("Ignoring global event")
		return
	}
	log := c.log.With().Str("event", ev.Event).Str("context", ev.Context).Logger()

	switch ev.Event {
	case EventWillAppear, EventKeyDown, EventKeyUp, EventDidReceiveSettings:
		s, err := decodeSettings(ev.Payload)
		if err != nil {
			log.Warn().Err(err).Msg("Bad settings payload")
			return
		}
		var fn func()
		switch ev.Event {
		case EventWillAppear:
			fn = func() { h.OnAppear(ctx, ev.Context, s) }
		case EventKeyDown:
			fn = func() { h.OnPressStart(ctx, ev.Context, s) }
		case EventKeyUp:
			fn = func() { h.OnPressEnd(ctx, ev.Context, s) }
		default:
			fn = func() { h.OnSettingsChanged(ctx, ev.Context, s) }
		}
		c.dispatch.dispatch(ev.Context, fn, false)

	case EventWillDisappear:
		c.dispatch.dispatch(ev.Context, func() { h.Forget(ev.Context) }, true)

	case EventSendToPlugin:
		var msg pluginMessage
		if err := json.Unmarshal(ev.Payload, &msg); err != nil || msg.Command == "" {
			log.Warn().RawJSON("payload", ev.Payload).Msg("Ignoring message without command")
			return
		}
		c.dispatch.dispatch(ev.Context, func() {
			if err := h.OnCommand(ctx, ev.Context, msg.Command); err != nil {
				log.Warn().Err(err).Msg("Command failed")
			}
		}, false)

	default:
		log.Debug().Msg("Unhandled event")
	}
}

func decodeSettings(payload json.RawMessage) (slot.Settings, error) {
	if len(payload) == 0 {
		return slot.Settings{}, nil
	}
	var p keyPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return slot.Settings{}, fmt.Errorf("decode payload: %w", err)
	}
	return slot.Decode(p.Settings)
}

// Close closes the connection with a normal closure frame.
func (c *Client) Close() error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return nil
	}
	c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait),
	)
	err := c.conn.Close()
	c.conn = nil
	return err
}

// Host display and persistence API.

func (c *Client) SetTitle(ctx context.Context, contextID, title string) error {
	return c.send(ctx, eventSetTitle, contextID, titlePayload{Title: title, Target: targetBoth})
}

func (c *Client) SetState(ctx context.Context, contextID string, state slot.State) error {
	return c.send(ctx, eventSetState, contextID, statePayload{State: int(state)})
}

// SetImage overrides the key image; an empty image restores the default.
func (c *Client) SetImage(ctx context.Context, contextID, image string) error {
	return c.send(ctx, eventSetImage, contextID, imagePayload{Image: image, Target: targetBoth})
}

func (c *Client) ShowOK(ctx context.Context, contextID string) error {
	return c.send(ctx, eventShowOk, contextID, nil)
}

func (c *Client) SetSettings(ctx context.Context, contextID string, s slot.Settings) error {
	return c.send(ctx, eventSetSettings, contextID, s)
}

// LogMessage writes a line to the host's own plugin log.
func (c *Client) LogMessage(ctx context.Context, message string) error {
	return c.send(ctx, eventLogMessage, "", logPayload{Message: message})
}

func (c *Client) send(ctx context.Context, event, contextID string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.write(outbound{Event: event, Context: contextID, Payload: payload}); err != nil {
		return fmt.Errorf("%s: %w", event, err)
	}
	return nil
}

func (c *Client) write(v any) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return errNotRegistered
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(v); err != nil {
		return fmt.Errorf("write to host: %w", err)
	}
	return nil
}
