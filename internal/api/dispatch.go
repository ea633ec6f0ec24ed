package api

import (
	"net/http"
)

// actionSpec declares one action of the multiplexed endpoint: its method
// precondition and its handler. The typed registry replaces the original
// free-form action switch so that method checks happen uniformly before any
// business logic runs.
type actionSpec struct {
	// postOnly actions reject non-POST requests with "POST method required".
	postOnly bool
	handle   func(s *Server, w http.ResponseWriter, r *http.Request, in *input)
}

// actions is the registry of every action the endpoint serves.
var actions = map[string]actionSpec{
	"register":       {postOnly: true, handle: (*Server).handleRegister},
	"login":          {postOnly: true, handle: (*Server).handleLogin},
	"get_devices":    {handle: (*Server).handleGetDevices},
	"add_device":     {postOnly: true, handle: (*Server).handleAddDevice},
	"water_plant":    {postOnly: true, handle: (*Server).handleWaterPlant},
	"get_device_log": {handle: (*Server).handleGetDeviceLog},
}

// handleAction decodes the request once and dispatches on the action
// discriminator. Unknown and missing actions share one response; a method
// mismatch answers before the handler is consulted.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	in := decodeInput(r)

	spec, ok := actions[in.action()]
	if !ok {
		fail(w, "Invalid action")
		return
	}

	if spec.postOnly && r.Method != http.MethodPost {
		fail(w, "POST method required")
		return
	}

	spec.handle(s, w, r, in)
}
