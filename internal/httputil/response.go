package httputil

import (
	"encoding/json"
	"maps"
	"net/http"
)

// ReasonInternal is the problem reason for unexpected failures
const ReasonInternal = "internal"

// RespondJSON writes data as JSON with status. The body is encoded before the
// header is sent, so an encoding failure still yields a clean 500.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		RespondProblem(w, http.StatusInternalServerError, ReasonInternal, "failed to encode response", nil)
		return
	}
	writeBody(w, status, "application/json", payload)
}

// ProblemDetail is an RFC 7807 problem document. Reason is the stable machine
// string clients switch on; Extra fields are flattened into the top level.
type ProblemDetail struct {
	Type     string         `json:"type"`
	Title    string         `json:"title"`
	Status   int            `json:"status"`
	Detail   string         `json:"detail,omitempty"`
	Instance string         `json:"instance,omitempty"`
	Reason   string         `json:"reason,omitempty"`
	Extra    map[string]any `json:"-"`
}

// MarshalJSON flattens Extra. Standard members win over extras of the same name.
func (p ProblemDetail) MarshalJSON() ([]byte, error) {
	type plain ProblemDetail
	base, err := json.Marshal(plain(p))
	if err != nil || len(p.Extra) == 0 {
		return base, err
	}

	var members map[string]any
	if err := json.Unmarshal(base, &members); err != nil {
		return nil, err
	}
	merged := maps.Clone(p.Extra)
	maps.Copy(merged, members)
	return json.Marshal(merged)
}

// RespondError writes a problem document with no machine reason
func RespondError(w http.ResponseWriter, status int, detail string) {
	RespondProblem(w, status, "", detail, nil)
}

// RespondProblem writes an application/problem+json response
func RespondProblem(w http.ResponseWriter, status int, reason, detail string, extras map[string]any) {
	payload, err := json.Marshal(ProblemDetail{
		Type:   problemType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
		Reason: reason,
		Extra:  extras,
	})
	if err != nil {
		writeBody(w, http.StatusInternalServerError, "text/plain; charset=utf-8", []byte("internal server error"))
		return
	}
	writeBody(w, status, "application/problem+json", payload)
}

func writeBody(w http.ResponseWriter, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// problemTypes links the statuses this API returns to their RFC 9110 sections
var problemTypes = map[int]string{
	http.StatusBadRequest:            "https://www.rfc-editor.org/rfc/rfc9110#name-400-bad-request",
	http.StatusUnauthorized:          "https://www.rfc-editor.org/rfc/rfc9110#name-401-unauthorized",
	http.StatusForbidden:             "https://www.rfc-editor.org/rfc/rfc9110#name-403-forbidden",
	http.StatusNotFound:              "https://www.rfc-editor.org/rfc/rfc9110#name-404-not-found",
	http.StatusConflict:              "https://www.rfc-editor.org/rfc/rfc9110#name-409-conflict",
	http.StatusRequestEntityTooLarge: "https://www.rfc-editor.org/rfc/rfc9110#name-413-content-too-large",
	http.StatusInternalServerError:   "https://www.rfc-editor.org/rfc/rfc9110#name-500-internal-server-error",
}

func problemType(status int) string {
	if t, ok := problemTypes[status]; ok {
		return t
	}
	return "about:blank"
}
