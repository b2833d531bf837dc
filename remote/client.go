package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/nathoo/tallgrass/types"
)

// Client talks to a Server over one websocket connection.
type Client struct {
	Conn *websocket.Conn
}

// Dial connects to a server at url, for example ws://localhost:8765/.
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", url, err)
	}
	return &Client{Conn: conn}, nil
}

// Close sends a close frame and closes the connection.
func (c *Client) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.Conn.WriteMessage(websocket.CloseMessage, msg)
	return c.Conn.Close()
}

func (c *Client) roundTrip(req Request) (types.Result, error) {
	if err := c.Conn.WriteJSON(req); err != nil {
		return types.Result{}, fmt.Errorf("sending %s: %w", req.Op, err)
	}
	var reply Reply
	if err := c.Conn.ReadJSON(&reply); err != nil {
		return types.Result{}, fmt.Errorf("reading %s reply: %w", req.Op, err)
	}
	if reply.Error != "" {
		return reply.Result, errors.New(reply.Error)
	}
	return reply.Result, nil
}

// Reset starts a new episode. A nil seed or map keeps the server's choice.
func (c *Client) Reset(seed *int64, mapIndex *int) (types.Observation, error) {
	r, err := c.roundTrip(Request{Op: OpReset, Seed: seed, Map: mapIndex})
	return r.Observation, err
}

// Step sends one action.
func (c *Client) Step(action int) (types.Result, error) {
	return c.roundTrip(Request{Op: OpStep, Action: action})
}
