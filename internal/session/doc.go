// Package session is the OpenXR lifecycle core: it brings up the runtime
// connection, walks the session state machine, owns the per-view swapchain
// surfaces and produces one correctly paced frame per tick. It is structured
// into small files by concern:
//
//   - manager.go: Manager type, construction and bring-up order.
//   - config.go: Config and package defaults; NewWithConfig applies defaults.
//   - check.go: the single checking point every runtime call goes through.
//   - bringup.go: loader, instance, system and graphics requirements.
//   - state.go: StateMachine driven by session-state-changed events.
//   - spaces.go, actions.go, input.go: reference/action spaces, the action
//     set and the per-tick input snapshot.
//   - viewsurface.go: swapchains, render targets, acquire/wait/release.
//   - frame.go: the frame orchestrator and the Renderer collaborator.
//   - pump.go: the event pump.
//   - capabilities.go: optional hand tracking and passthrough.
//   - run.go: the tick loop, teardown and host poll policy.
//   - status_report.go, metrics.go, events.go: observability.
//
// The loop itself is single-threaded. Only Status and Snapshot may be called
// from other goroutines.
package session
