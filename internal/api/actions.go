package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/oasisapp/plantbox-core/internal/auth"
	"github.com/oasisapp/plantbox-core/internal/box"
	"github.com/oasisapp/plantbox-core/internal/user"
)

// Default values applied when optional add_device / water_plant fields are
// absent. The plant name placeholder is what shipped clients display.
const (
	defaultDeviceName    = "New Device"
	defaultPlantName     = "Unknown Plant"
	unknownPlantLabel    = "Ismeretlen"
	defaultWaterAmountML = 100
)

// handleRegister creates a new account.
//
// Duplicate prevention rides on the schema's uniqueness constraints: the
// insert is a single statement and a violation maps to the client-facing
// "Email already exists", so concurrent registrations of the same email
// cannot both succeed.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request, in *input) {
	name := in.field("name")
	email := in.field("email")
	password := in.field("password")

	if name == "" || email == "" || password == "" {
		fail(w, "Missing fields")
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error("hashing password failed", "error", err)
		fail(w, "Registration failed")
		return
	}

	u := &user.User{
		Username:     email,
		PasswordHash: hash,
		Email:        email,
		Name:         name,
	}
	if err := s.users.Create(r.Context(), u); err != nil {
		if errors.Is(err, user.ErrEmailExists) {
			fail(w, "Email already exists")
			return
		}
		// Store details stay server-side; the client gets an opaque message.
		s.logger.Error("creating user failed", "error", err, "email", email)
		fail(w, "Registration failed")
		return
	}

	s.logger.Info("user registered", "user_id", u.ID)
	writeEnvelope(w, envelope{Success: true, Message: "Registration successful"})
}

// handleLogin verifies credentials and returns the account view. There is
// no token or session: the response body is the whole authentication
// contract.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request, in *input) {
	email := in.field("email")
	password := in.field("password")

	if email == "" || password == "" {
		fail(w, "Missing email or password")
		return
	}

	u, err := s.users.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			fail(w, "User not found")
			return
		}
		s.logger.Error("looking up user failed", "error", err)
		fail(w, "Login failed")
		return
	}

	match, err := auth.VerifyPassword(password, u.PasswordHash)
	if err != nil {
		s.logger.Error("verifying password failed", "error", err, "user_id", u.ID)
		fail(w, "Invalid password")
		return
	}
	if !match {
		fail(w, "Invalid password")
		return
	}

	writeEnvelope(w, envelope{
		Success: true,
		Message: "Login successful",
		User:    &userView{ID: u.ID, Name: u.Name, Email: u.Email},
	})
}

// handleGetDevices returns the caller's boxes as a bare JSON array.
//
// user_id defaults to 0 when absent, which matches no rows; the original
// server behaved the same way and clients rely on receiving [].
func (s *Server) handleGetDevices(w http.ResponseWriter, r *http.Request, in *input) {
	userID := in.paramInt("user_id", 0)

	boxes, err := s.boxes.ListByOwner(r.Context(), userID)
	if err != nil {
		s.logger.Error("listing boxes failed", "error", err, "user_id", userID)
		writeJSON(w, http.StatusOK, []deviceView{})
		return
	}

	views := make([]deviceView, 0, len(boxes))
	for _, b := range boxes {
		views = append(views, newDeviceView(b))
	}
	writeJSON(w, http.StatusOK, views)
}

// handleAddDevice creates a box with zeroed sensors for the given owner.
func (s *Server) handleAddDevice(w http.ResponseWriter, r *http.Request, in *input) {
	userID := in.paramInt("user_id", 0)
	if userID == 0 {
		fail(w, "User ID required")
		return
	}

	name := in.field("name")
	if name == "" {
		name = defaultDeviceName
	}
	plant := in.field("plant_name")
	if plant == "" {
		plant = defaultPlantName
	}

	b := &box.Box{OwnerID: userID, Name: name, Plant: plant}
	if err := s.boxes.Create(r.Context(), b); err != nil {
		s.logger.Error("creating box failed", "error", err, "user_id", userID)
		fail(w, "Error adding device")
		return
	}

	s.logger.Info("box added", "box_id", b.ID, "user_id", userID)
	view := newDeviceView(*b)
	writeEnvelope(w, envelope{
		Success: true,
		Message: "Device added successfully",
		Device:  &view,
	})
}

// handleWaterPlant acknowledges a watering command.
//
// Delivery to hardware is not implemented: nothing is persisted and no
// device is contacted. The simulated dispatch is logged so operators can
// see what the app asked for.
func (s *Server) handleWaterPlant(w http.ResponseWriter, _ *http.Request, in *input) {
	deviceID := in.field("device_id")
	if deviceID == "" {
		fail(w, "Device ID required")
		return
	}

	amount := in.fieldInt("amount", defaultWaterAmountML)
	s.logger.Info("watering command simulated",
		"device_id", deviceID,
		"amount_ml", amount,
	)

	writeEnvelope(w, envelope{
		Success: true,
		Message: fmt.Sprintf("Watering command sent to device %s", deviceID),
	})
}

// handleGetDeviceLog returns raw sensor_log rows for a box as a bare JSON
// array, newest first, at most limit rows.
func (s *Server) handleGetDeviceLog(w http.ResponseWriter, r *http.Request, in *input) {
	boxID := in.paramInt("box_id", 0)
	if boxID == 0 {
		fail(w, "Box ID required")
		return
	}
	limit := int(in.paramInt("limit", 0))

	entries, err := s.boxes.LogEntries(r.Context(), boxID, limit)
	if err != nil {
		s.logger.Error("querying sensor log failed", "error", err, "box_id", boxID)
		writeJSON(w, http.StatusOK, []map[string]any{})
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// newDeviceView maps a stored box to the shape the mobile app renders.
// Status and battery are synthesised constants; a missing plant name shows
// the historical placeholder.
func newDeviceView(b box.Box) deviceView {
	plantName := b.Plant
	if plantName == "" {
		plantName = unknownPlantLabel
	}
	return deviceView{
		ID:        strconv.FormatInt(b.ID, 10),
		Name:      b.Name,
		PlantName: plantName,
		Status:    "online",
		Moisture:  b.Moisture,
		Light:     b.Light,
		Temp:      b.Temperature,
		Battery:   100,
	}
}
