package net

import (
	"encoding/json"
	"errors"
	"fmt"

	"PerfectCircle/internal/state"
)

// Client to server.
const (
	MsgDown  = "down"
	MsgMove  = "move"
	MsgUp    = "up"
	MsgReset = "reset"
)

// Server to client.
const (
	MsgConfig = "config"
	MsgState  = "state"
)

var ErrUnknownMessage = errors.New("unknown message type")

type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p,omitempty"`
}

// CanvasConfig is sent once per connection so the page can size its canvas.
type CanvasConfig struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	CenterRadius float64 `json:"centerRadius"`
	StrokeWidth  float64 `json:"strokeWidth"`
}

func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("encode envelope: empty type")
	}
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", t, err)
		}
		raw = b
	}
	return json.Marshal(Envelope{T: t, P: raw})
}

func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, fmt.Errorf("decode envelope: empty message")
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return e, nil
}

func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("empty payload for type %q", env.T)
	}
	err := json.Unmarshal(env.P, &out)
	return out, err
}

// Dispatch applies one client message to the tracker.
func Dispatch(tr *state.Tracker, env Envelope) error {
	switch env.T {
	case MsgDown:
		p, err := DecodePayload[state.Point](env)
		if err != nil {
			return err
		}
		tr.BeginSession(p)
	case MsgMove:
		p, err := DecodePayload[state.Point](env)
		if err != nil {
			return err
		}
		tr.ExtendSession(p)
	case MsgUp:
		tr.EndSession()
	case MsgReset:
		tr.Reset()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, env.T)
	}
	return nil
}
