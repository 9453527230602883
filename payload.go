package chunkstage

import (
	"bytes"
	"encoding/json"
)

// payloadJSON is the entry function JSON form of a stage call.
type payloadJSON struct {
	FunctionID FunctionID        `json:"function_id"`
	TypeArgs   []string          `json:"type_args"`
	Args       []json.RawMessage `json:"args"`
}

// MarshalJSON encodes the call in entry function JSON form:
//
//	{"function_id": "0x..::large_packages::stage_code_chunk",
//	 "type_args": [],
//	 "args": [{"type": "hex", "value": "0x.."}, ...]}
func (c *StageCall) MarshalJSON() ([]byte, error) {
	args := make([]json.RawMessage, len(c.args))
	for i, a := range c.args {
		raw, err := marshalArg(a)
		if err != nil {
			return nil, &StageError{Entry: c.entry, Err: err}
		}
		args[i] = raw
	}

	return json.Marshal(payloadJSON{
		FunctionID: c.function,
		TypeArgs:   c.TypeArgs(),
		Args:       args,
	})
}

// MarshalIndent encodes the call like MarshalJSON with indentation.
func (c *StageCall) MarshalIndent() ([]byte, error) {
	raw, err := c.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
