package service

import (
	"encoding/json"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// GenericLoginFailure is shown when the backend gives no usable message.
const GenericLoginFailure = "Login failed. Please check your credentials and try again."

// messageExpr probes the error-payload shapes the backend variants emit.
// The deployed variants disagree on the key; the first non-null wins.
const messageExpr = "message || error || detail"

// BackendMessage extracts a human-readable failure message from a backend
// error payload. An empty, unparseable, or message-less body yields the
// generic fallback; this function never fails.
func BackendMessage(payload []byte) string {
	if len(payload) == 0 {
		return GenericLoginFailure
	}

	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return GenericLoginFailure
	}

	result, err := jmespath.Search(messageExpr, doc)
	if err != nil {
		return GenericLoginFailure
	}

	if msg, ok := result.(string); ok && strings.TrimSpace(msg) != "" {
		return msg
	}
	return GenericLoginFailure
}
