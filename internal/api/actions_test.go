package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/oasisapp/plantbox-core/internal/box"
)

// registerUser registers an account through the API and returns its id via
// a follow-up login.
func registerUser(t *testing.T, s *Server, name, email, password string) int64 {
	t.Helper()

	form := url.Values{
		"action":   {"register"},
		"name":     {name},
		"email":    {email},
		"password": {password},
	}
	rec := doRequest(t, s, http.MethodPost, "/api", formContentType, form.Encode())
	env := decodeEnvelope(t, rec)
	if env["success"] != true {
		t.Fatalf("register failed: %v", env)
	}

	login := url.Values{
		"action":   {"login"},
		"email":    {email},
		"password": {password},
	}
	rec = doRequest(t, s, http.MethodPost, "/api", formContentType, login.Encode())
	env = decodeEnvelope(t, rec)
	if env["success"] != true {
		t.Fatalf("login after register failed: %v", env)
	}

	userField, ok := env["user"].(map[string]any)
	if !ok {
		t.Fatalf("login response has no user object: %v", env)
	}
	id, ok := userField["id"].(float64)
	if !ok {
		t.Fatalf("user id missing: %v", userField)
	}
	return int64(id)
}

func TestRegister(t *testing.T) {
	s := newTestServer(t)

	form := url.Values{
		"action":   {"register"},
		"name":     {"Alice"},
		"email":    {"alice@x.com"},
		"password": {"secret123"},
	}
	rec := doRequest(t, s, http.MethodPost, "/api", formContentType, form.Encode())
	env := decodeEnvelope(t, rec)

	if env["success"] != true {
		t.Fatalf("envelope = %v, want success", env)
	}
	if env["message"] != "Registration successful" {
		t.Errorf("message = %v", env["message"])
	}
	// The contract returns no id and never echoes a credential.
	if _, present := env["user"]; present {
		t.Error("register response must not carry a user object")
	}
	if strings.Contains(rec.Body.String(), "secret123") {
		t.Error("register response leaks the password")
	}
}

func TestRegister_MissingFields(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		form url.Values
	}{
		{"no name", url.Values{"email": {"a@x.com"}, "password": {"pw"}}},
		{"no email", url.Values{"name": {"A"}, "password": {"pw"}}},
		{"no password", url.Values{"name": {"A"}, "email": {"a@x.com"}}},
		{"empty body", url.Values{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.form.Set("action", "register")
			rec := doRequest(t, s, http.MethodPost, "/api", formContentType, tt.form.Encode())
			env := decodeEnvelope(t, rec)
			if env["success"] != false || env["message"] != "Missing fields" {
				t.Errorf("envelope = %v, want Missing fields", env)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := newTestServer(t)
	registerUser(t, s, "First", "dup@x.com", "pw123456")

	form := url.Values{
		"action":   {"register"},
		"name":     {"Second"},
		"email":    {"dup@x.com"},
		"password": {"other-pw"},
	}
	rec := doRequest(t, s, http.MethodPost, "/api", formContentType, form.Encode())
	env := decodeEnvelope(t, rec)
	if env["success"] != false || env["message"] != "Email already exists" {
		t.Errorf("envelope = %v, want Email already exists", env)
	}
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	id := registerUser(t, s, "Bob", "bob@x.com", "hunter22")

	form := url.Values{
		"action":   {"login"},
		"email":    {"bob@x.com"},
		"password": {"hunter22"},
	}
	rec := doRequest(t, s, http.MethodPost, "/api", formContentType, form.Encode())
	env := decodeEnvelope(t, rec)

	if env["success"] != true || env["message"] != "Login successful" {
		t.Fatalf("envelope = %v", env)
	}
	userField := env["user"].(map[string]any)
	if int64(userField["id"].(float64)) != id {
		t.Errorf("user id = %v, want %d", userField["id"], id)
	}
	if userField["name"] != "Bob" || userField["email"] != "bob@x.com" {
		t.Errorf("user view = %v", userField)
	}
	// No token, no hash.
	if _, present := env["token"]; present {
		t.Error("login response must not carry a token")
	}
	if strings.Contains(rec.Body.String(), "argon2id") {
		t.Error("login response leaks the password hash")
	}
}

func TestLogin_Failures(t *testing.T) {
	s := newTestServer(t)
	registerUser(t, s, "Carol", "carol@x.com", "pw123456")

	tests := []struct {
		name    string
		form    url.Values
		message string
	}{
		{"missing email", url.Values{"password": {"pw"}}, "Missing email or password"},
		{"missing password", url.Values{"email": {"carol@x.com"}}, "Missing email or password"},
		{"unknown user", url.Values{"email": {"ghost@x.com"}, "password": {"pw"}}, "User not found"},
		{"wrong password", url.Values{"email": {"carol@x.com"}, "password": {"wrong"}}, "Invalid password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.form.Set("action", "login")
			rec := doRequest(t, s, http.MethodPost, "/api", formContentType, tt.form.Encode())
			env := decodeEnvelope(t, rec)
			if env["success"] != false || env["message"] != tt.message {
				t.Errorf("envelope = %v, want %q", env, tt.message)
			}
		})
	}
}

func TestGetDevices_Empty(t *testing.T) {
	s := newTestServer(t)

	// Bare array, not an envelope, even with no user_id at all.
	rec := doRequest(t, s, http.MethodGet, "/api?action=get_devices", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	items := decodeArray(t, rec)
	if len(items) != 0 {
		t.Errorf("devices = %v, want []", items)
	}
	if !strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "[") {
		t.Errorf("body = %q, want a bare JSON array", rec.Body.String())
	}
}

func TestAddDeviceAndGetDevices(t *testing.T) {
	s := newTestServer(t)
	id := registerUser(t, s, "Dave", "dave@x.com", "pw123456")

	form := url.Values{
		"action":     {"add_device"},
		"user_id":    {intString(id)},
		"name":       {"Balcony Pot"},
		"plant_name": {"Chili"},
	}
	rec := doRequest(t, s, http.MethodPost, "/api", formContentType, form.Encode())
	env := decodeEnvelope(t, rec)
	if env["success"] != true || env["message"] != "Device added successfully" {
		t.Fatalf("envelope = %v", env)
	}

	device := env["device"].(map[string]any)
	if _, ok := device["id"].(string); !ok {
		t.Errorf("device id = %T (%v), want string", device["id"], device["id"])
	}
	if device["name"] != "Balcony Pot" || device["plantName"] != "Chili" {
		t.Errorf("device view = %v", device)
	}

	rec = doRequest(t, s, http.MethodGet, "/api?action=get_devices&user_id="+intString(id), "", "")
	items := decodeArray(t, rec)
	if len(items) != 1 {
		t.Fatalf("devices = %v, want one entry", items)
	}
	got := items[0]
	if got["status"] != "online" {
		t.Errorf("status = %v, want online", got["status"])
	}
	if got["battery"] != float64(100) {
		t.Errorf("battery = %v, want 100", got["battery"])
	}
	if got["moisture"] != float64(0) || got["light"] != float64(0) || got["temp"] != float64(0) {
		t.Errorf("new device sensors = %v, want zeroes", got)
	}
}

func TestGetDevices_UnknownPlantLabel(t *testing.T) {
	s := newTestServer(t)

	// A box with no plant set at all (NULL column) renders the placeholder.
	b := &box.Box{OwnerID: 9, Name: "Bare Pot"}
	if err := s.boxes.Create(context.Background(), b); err != nil {
		t.Fatalf("creating box: %v", err)
	}

	rec := doRequest(t, s, http.MethodGet, "/api?action=get_devices&user_id=9", "", "")
	items := decodeArray(t, rec)
	if len(items) != 1 {
		t.Fatalf("devices = %v, want one entry", items)
	}
	if items[0]["plantName"] != "Ismeretlen" {
		t.Errorf("plantName = %v, want Ismeretlen", items[0]["plantName"])
	}
}

func TestAddDevice_RequiresUserID(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api", formContentType, "action=add_device")
	env := decodeEnvelope(t, rec)
	if env["success"] != false || env["message"] != "User ID required" {
		t.Errorf("envelope = %v, want User ID required", env)
	}
}

func TestAddDevice_Defaults(t *testing.T) {
	s := newTestServer(t)

	form := url.Values{
		"action":  {"add_device"},
		"user_id": {"5"},
	}
	rec := doRequest(t, s, http.MethodPost, "/api", formContentType, form.Encode())
	env := decodeEnvelope(t, rec)
	if env["success"] != true {
		t.Fatalf("envelope = %v", env)
	}

	device := env["device"].(map[string]any)
	if device["name"] != "New Device" {
		t.Errorf("name = %v, want New Device", device["name"])
	}
	if device["plantName"] != "Unknown Plant" {
		t.Errorf("plantName = %v, want Unknown Plant", device["plantName"])
	}
}

func TestWaterPlant(t *testing.T) {
	s := newTestServer(t)

	form := url.Values{
		"action":    {"water_plant"},
		"device_id": {"42"},
		"amount":    {"250"},
	}
	rec := doRequest(t, s, http.MethodPost, "/api", formContentType, form.Encode())
	env := decodeEnvelope(t, rec)
	if env["success"] != true {
		t.Fatalf("envelope = %v", env)
	}
	if env["message"] != "Watering command sent to device 42" {
		t.Errorf("message = %v", env["message"])
	}

	// The command is acknowledged without persistence: the referenced box
	// does not even have to exist, and no row appears anywhere.
	var count int
	if err := s.db.DB.QueryRow("SELECT COUNT(*) FROM sensor_log").Scan(&count); err != nil {
		t.Fatalf("counting sensor_log rows: %v", err)
	}
	if count != 0 {
		t.Errorf("sensor_log rows = %d, want 0 after water_plant", count)
	}
}

func TestWaterPlant_RequiresDeviceID(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api", formContentType, "action=water_plant")
	env := decodeEnvelope(t, rec)
	if env["success"] != false || env["message"] != "Device ID required" {
		t.Errorf("envelope = %v, want Device ID required", env)
	}
}

func TestGetDeviceLog_RequiresBoxID(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api?action=get_device_log", "", "")
	env := decodeEnvelope(t, rec)
	if env["success"] != false || env["message"] != "Box ID required" {
		t.Errorf("envelope = %v, want Box ID required", env)
	}
}

func TestGetDeviceLog(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	b := &box.Box{OwnerID: 1, Name: "Logged Pot"}
	if err := s.boxes.Create(ctx, b); err != nil {
		t.Fatalf("creating box: %v", err)
	}

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		moisture := int64(10 * i)
		e := &box.SensorLogEntry{
			BoxID:     b.ID,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Moisture:  &moisture,
		}
		if err := s.boxes.InsertLogEntry(ctx, e); err != nil {
			t.Fatalf("inserting log entry: %v", err)
		}
	}

	rec := doRequest(t, s, http.MethodGet,
		"/api?action=get_device_log&box_id="+intString(b.ID)+"&limit=3", "", "")
	items := decodeArray(t, rec)
	if len(items) != 3 {
		t.Fatalf("rows = %d, want 3", len(items))
	}

	// Newest first, raw columns passed through verbatim.
	first, _ := items[0]["timestamp"].(string)
	second, _ := items[1]["timestamp"].(string)
	if first <= second {
		t.Errorf("rows not newest-first: %q then %q", first, second)
	}
	if _, present := items[0]["szarassag"]; !present {
		t.Error("expected szarassag column in raw row")
	}
	if _, present := items[0]["vizszint"]; !present {
		t.Error("expected vizszint column in raw row")
	}
}

func TestGetDeviceLog_UnknownBox(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api?action=get_device_log&box_id=999", "", "")
	items := decodeArray(t, rec)
	if len(items) != 0 {
		t.Errorf("rows = %v, want []", items)
	}
}
