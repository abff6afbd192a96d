package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Schema reflects the JSON schema of a message payload.
func Schema(typ string) ([]byte, error) {
	m, ok := Zero(typ)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
	s := jsonschema.Reflect(m)
	return json.MarshalIndent(s, "", "  ")
}
