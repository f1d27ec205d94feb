package upstream

import (
	"bytes"
	"encoding/json"
	"strings"

	xerrors "estate-portal/internal/pkg/errors"
)

// Meta is the pagination block some listing endpoints attach.
type Meta struct {
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	Total       int `json:"total,omitempty"`
}

type envelope struct {
	Status  *bool           `json:"status"`
	Success *bool           `json:"success"`
	Message json.RawMessage `json:"message"`
	Error   json.RawMessage `json:"error"`
	Data    json.RawMessage `json:"data"`
	Meta    *Meta           `json:"meta"`
}

// ok reports the envelope's own success flag. Envelopes without one are
// judged by the HTTP status alone.
func (e *envelope) ok() bool {
	if e.Status != nil {
		return *e.Status
	}
	if e.Success != nil {
		return *e.Success
	}
	return true
}

func (e *envelope) message() string {
	return extractMessage(e.Message, e.Error)
}

// extractMessage digs a human readable message out of whatever shape the
// upstream uses: a string, a list of strings, or an object carrying
// message/error. It returns the empty string when nothing usable exists.
func extractMessage(raws ...json.RawMessage) string {
	for _, raw := range raws {
		if msg := messageFrom(raw, 0); msg != "" {
			return msg
		}
	}
	return ""
}

func messageFrom(raw json.RawMessage, depth int) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || depth > 3 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	switch raw[0] {
	case '"':
		var s string
		if json.Unmarshal(raw, &s) == nil {
			return strings.TrimSpace(s)
		}
	case '[':
		var list []json.RawMessage
		if json.Unmarshal(raw, &list) == nil {
			parts := make([]string, 0, len(list))
			for _, item := range list {
				if msg := messageFrom(item, depth+1); msg != "" {
					parts = append(parts, msg)
				}
			}
			return strings.Join(parts, "; ")
		}
	case '{':
		var obj map[string]json.RawMessage
		if json.Unmarshal(raw, &obj) == nil {
			for _, k := range []string{"message", "error", "detail", "msg"} {
				if msg := messageFrom(obj[k], depth+1); msg != "" {
					return msg
				}
			}
		}
	}
	return ""
}

// apiError builds the typed error for a failed response.
func apiError(status int, body []byte) *xerrors.APIError {
	msg := ""
	var env envelope
	if json.Unmarshal(body, &env) == nil {
		msg = env.message()
	}
	if msg == "" {
		msg = xerrors.DefaultMessage
	}
	kind := xerrors.ErrUpstream
	if status >= 400 {
		kind = xerrors.KindForStatus(status)
	}
	return &xerrors.APIError{StatusCode: status, Message: msg, Kind: kind}
}
