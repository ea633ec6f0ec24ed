package api

import (
	"net/http"
	"testing"
)

const (
	formContentType = "application/x-www-form-urlencoded"
	jsonContentType = "application/json"
)

func TestDispatch_UnknownAction(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api?action=reboot", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	env := decodeEnvelope(t, rec)
	if env["success"] != false || env["message"] != "Invalid action" {
		t.Errorf("envelope = %v, want failure with Invalid action", env)
	}
}

func TestDispatch_MissingAction(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api", "", "")
	env := decodeEnvelope(t, rec)
	if env["message"] != "Invalid action" {
		t.Errorf("message = %v, want Invalid action", env["message"])
	}
}

func TestDispatch_MethodMismatch(t *testing.T) {
	s := newTestServer(t)

	// Every POST-only action must refuse a GET before touching any logic.
	for _, action := range []string{"register", "login", "add_device", "water_plant"} {
		rec := doRequest(t, s, http.MethodGet, "/api?action="+action, "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d, want 200", action, rec.Code)
		}
		env := decodeEnvelope(t, rec)
		if env["message"] != "POST method required" {
			t.Errorf("%s: message = %v, want POST method required", action, env["message"])
		}
	}
}

func TestDispatch_ActionFromFormBody(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api", formContentType, "action=register")
	env := decodeEnvelope(t, rec)
	if env["message"] != "Missing fields" {
		t.Errorf("message = %v, want Missing fields (register dispatched from body)", env["message"])
	}
}

func TestDispatch_ActionFromJSONBody(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api", jsonContentType,
		`{"action": "water_plant", "device_id": "7"}`)
	env := decodeEnvelope(t, rec)
	if env["success"] != true {
		t.Fatalf("envelope = %v, want success", env)
	}
	if env["message"] != "Watering command sent to device 7" {
		t.Errorf("message = %v", env["message"])
	}
}

func TestDispatch_QueryWinsOverBody(t *testing.T) {
	s := newTestServer(t)

	// Body says register, query says login: login must run.
	rec := doRequest(t, s, http.MethodPost, "/api?action=login", formContentType,
		"action=register")
	env := decodeEnvelope(t, rec)
	if env["message"] != "Missing email or password" {
		t.Errorf("message = %v, want Missing email or password", env["message"])
	}
}

func TestDispatch_MalformedJSONBody(t *testing.T) {
	s := newTestServer(t)

	// A broken body must not take the endpoint down; the action in the
	// query still dispatches and the handler reports the missing fields.
	rec := doRequest(t, s, http.MethodPost, "/api?action=register", jsonContentType, "{not json")
	env := decodeEnvelope(t, rec)
	if env["message"] != "Missing fields" {
		t.Errorf("message = %v, want Missing fields", env["message"])
	}
}

func TestDispatch_ResponseHeaders(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api?action=nope", "", "")
	if got := rec.Header().Get("Content-Type"); got != "application/json; charset=UTF-8" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST" {
		t.Errorf("Access-Control-Allow-Methods = %q, want GET, POST", got)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestDispatch_Preflight(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodOptions, "/api", "", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("OPTIONS status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}
