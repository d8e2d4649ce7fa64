package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

// WatchURL turns an http(s) server URL into the /ws endpoint of a session
func WatchURL(baseURL, sessionID string) (string, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path += "/ws"
	u.RawQuery = url.Values{"session": {sessionID}}.Encode()
	return u.String(), nil
}

// Watch connects to a session's live feed and calls onMessage for every
// message until ctx is done, the server closes, or onMessage fails.
func Watch(ctx context.Context, baseURL, sessionID string, onMessage func(*Message) error) error {
	wsURL, err := WatchURL(baseURL, sessionID)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	defer conn.Close()

	// Unblock ReadMessage once ctx is done
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				return nil
			}
			return err
		}

		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			return fmt.Errorf("decode message: %w", err)
		}
		if err := onMessage(&message); err != nil {
			return err
		}
	}
}
