package core

import (
	"encoding/json"
)

// ToolResult is what a tool call hands back to the model: the raw backend
// JSON on success, or {"error": "..."}.
type ToolResult struct {
	Data json.RawMessage
	Err  string
}

func Success(data json.RawMessage) ToolResult {
	return ToolResult{Data: data}
}

func Failure(err error) ToolResult {
	return ToolResult{Err: err.Error()}
}

func (r ToolResult) Failed() bool { return r.Err != "" }

func (r ToolResult) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{r.Err})
	}
	if len(r.Data) == 0 {
		return []byte("null"), nil
	}
	return r.Data, nil
}

// String is the tool message content for this result.
func (r ToolResult) String() string {
	b, err := r.MarshalJSON()
	if err != nil {
		return `{"error":"unencodable tool result"}`
	}
	return string(b)
}
