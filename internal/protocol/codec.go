package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

var ErrUnknownType = errors.New("unknown message type")

// Envelope is the framing every message travels in.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type decoder func(json.RawMessage) (Message, error)

var (
	decoders = map[string]decoder{}
	zeros    = map[string]Message{}
)

func register[T Message]() {
	var zero T
	typ := zero.MessageType()
	decoders[typ] = func(raw json.RawMessage) (Message, error) {
		var m T
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &m); err != nil {
				return nil, err
			}
		}
		return m, nil
	}
	zeros[typ] = zero
}

func init() {
	register[ServerTimeSettings]()
	register[ServerSettings]()
	register[AssignObjectsRequest]()
	register[AssignObjectsResponse]()
	register[ActivateRequest]()
	register[NotifyActivate]()
	register[LockChangeRequest]()
	register[NotifyLockChange]()
	register[ScriptAnimationRequest]()
	register[NotifyScriptAnimation]()
	register[NotifyPlayerJoined]()
	register[NotifyPlayerLeft]()
	register[NotifyPlayerPosition]()
	register[NotifyPlayerCellChanged]()
	register[PlayerRespawnRequest]()
	register[NotifyPlayerRespawn]()
	register[RequestSetWaypoint]()
	register[RequestDelWaypoint]()
	register[NotifySetWaypoint]()
	register[NotifyDelWaypoint]()
	register[PlayerLevelRequest]()
	register[EnterExteriorCellRequest]()
	register[EnterInteriorCellRequest]()
	register[ShiftGridCellRequest]()
	register[PlayerDialogueRequest]()
}

// Encode wraps a message in its envelope.
func Encode(m Message) ([]byte, error) {
	payload, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", m.MessageType(), err)
	}
	return json.Marshal(Envelope{Type: m.MessageType(), Payload: payload})
}

// Decode unwraps an envelope into its concrete message value.
func Decode(data []byte) (Message, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshalling envelope: %w", err)
	}
	dec, ok := decoders[env.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
	m, err := dec(env.Payload)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling %s: %w", env.Type, err)
	}
	return m, nil
}

// Types lists every registered message type in sorted order.
func Types() []string {
	types := make([]string, 0, len(zeros))
	for t := range zeros {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// Zero returns the zero value of a registered message type.
func Zero(typ string) (Message, bool) {
	m, ok := zeros[typ]
	return m, ok
}
