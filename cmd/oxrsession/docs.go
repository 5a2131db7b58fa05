package main

// General API documentation for swaggo. Regenerate with `swag init -g cmd/oxrsession/docs.go`.
//
// @title           oxrsession diagnostics API
// @version         1.0
// @description     Read-only view of an OpenXR session: lifecycle state, frame counters and binding profiles.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
