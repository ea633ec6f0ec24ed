// Package api provides the HTTP server for PlantBox Core.
//
// The mobile app speaks a single action-multiplexed endpoint: every call
// carries an "action" discriminator (register, login, get_devices,
// add_device, water_plant, get_device_log) and every response is HTTP 200
// JSON. Most actions answer with a {success, message, ...} envelope;
// get_devices and get_device_log answer with bare JSON arrays. That
// asymmetry is a compatibility contract with shipped clients and must not
// be "fixed".
//
// The server follows the same lifecycle pattern as the other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api
