package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// input holds a request's decoded parameters.
//
// The body is decoded exactly once at the boundary: a JSON object when the
// Content-Type says so, form-encoded fields otherwise. The routing
// parameters (action, user_id, box_id, limit) may arrive via the query
// string or the body, query winning; action-specific fields such as
// credentials come from the body only.
type input struct {
	query url.Values
	form  url.Values
	json  map[string]any
}

// decodeInput parses the query string and body of a request.
//
// Decoding is deliberately tolerant: an unreadable or malformed body leaves
// the body fields empty rather than failing the request, since the action
// discriminator may still be present in the query string and the dispatcher
// owns the resulting "missing field" responses.
func decodeInput(r *http.Request) *input {
	in := &input{query: r.URL.Query()}

	if r.Method != http.MethodPost || r.Body == nil {
		return in
	}

	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var fields map[string]any
		if err := json.NewDecoder(r.Body).Decode(&fields); err == nil {
			in.json = fields
		}
		return in
	}

	if err := r.ParseForm(); err == nil {
		// PostForm holds body fields only; the query stays separate so
		// body-only fields cannot be smuggled in via the URL.
		in.form = r.PostForm
	}

	return in
}

// action returns the action discriminator.
func (in *input) action() string {
	return in.param("action")
}

// field returns a body field as a string, empty when absent.
func (in *input) field(key string) string {
	if in.json != nil {
		return stringValue(in.json[key])
	}
	return in.form.Get(key)
}

// param returns a parameter that may arrive via the query string or the
// body. A non-empty query value wins.
func (in *input) param(key string) string {
	if v := in.query.Get(key); v != "" {
		return v
	}
	return in.field(key)
}

// paramInt returns a query-or-body parameter as an integer. Absent or
// non-numeric values yield def, mirroring the loose integer coercion the
// original server applied.
func (in *input) paramInt(key string, def int64) int64 {
	v := strings.TrimSpace(in.param(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

// fieldInt returns a body field as an integer, def when absent or invalid.
func (in *input) fieldInt(key string, def int64) int64 {
	v := strings.TrimSpace(in.field(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

// stringValue coerces a decoded JSON value to its string form. Clients send
// ids both as strings and as numbers; both must be accepted.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		return ""
	}
}
