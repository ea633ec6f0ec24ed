package box

import (
	"errors"
	"time"
)

// Box represents one smart-pot device owned by a user.
//
// The sensor columns keep their historical Hungarian names in the schema
// (szarassag, feny, ho, para, legnyomas, vizszint); the struct exposes them
// under their English meanings. All sensor values default to zero at
// creation and are written by the external ingestion path, never by the
// mobile API.
type Box struct {
	ID      int64  `json:"box_id"`
	OwnerID int64  `json:"owner_id"`
	Name    string `json:"name"`

	// Plant is the plant name; empty means not set (NULL in the schema).
	Plant string `json:"plant,omitempty"`

	Moisture    int     `json:"szarassag"`
	Light       int     `json:"feny"`
	Temperature float64 `json:"ho"`
	Humidity    float64 `json:"para"`
	Pressure    float64 `json:"legnyomas"`
	WaterLevel  float64 `json:"vizszint"`
}

// SensorLogEntry is one time-series reading for a box. Every sensor field
// is nullable: the ingestion writer records only the sensors a device
// actually reported.
type SensorLogEntry struct {
	ID        int64     `json:"id"`
	BoxID     int64     `json:"box_id"`
	Timestamp time.Time `json:"timestamp"`

	Moisture    *int64   `json:"szarassag"`
	Light       *int64   `json:"feny"`
	Temperature *float64 `json:"ho"`
	Humidity    *float64 `json:"para"`
	Pressure    *float64 `json:"legnyomas"`
	WaterLevel  *float64 `json:"vizszint"`
}

// Sentinel errors for box operations.
var ErrNotFound = errors.New("box not found")
