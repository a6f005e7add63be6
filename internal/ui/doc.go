// Package ui contains the Bubble Tea program that renders the watch face and
// executes remote commands.
//
// Message flow:
//   - Model.Update routes each tea.Msg through a typed handler registry.
//   - pump.TickMsg drains the command queue. Every queued command runs inside
//     Update, so widget callbacks and remote commands never race.
//   - watchTickMsg advances the clock, step counter and heart rate
//     measurement once per second.
//   - Terminal keys and remote key commands share the same key map. Remote
//     keys cannot quit the program.
//
// Widgets live in a tree rooted at the display (internal/widget). The model
// publishes automation ids into the registry when it is built, and the
// command handlers in handlers.go resolve them there. Screenshots are
// rasterised from the same tree by frame.go.
//
// Options.Manual disables every timer so tests can drive the model through
// Harness with explicit messages.
package ui
