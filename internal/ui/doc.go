// Package ui contains the Bubble Tea program that shows a volute program
// running: its text with every live thread's next instruction highlighted,
// the run status, the thread debug panel and a label finder.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages. Messages are
//     routed through a typed handler registry so each tea.Msg is handled by a
//     focused function.
//   - Key presses map to actions through the bindings in input.go. While the
//     label finder is open, keys go to the finder instead
//     (navigation.go).
//   - Run control (commands.go) steps the driver synchronously. Fast-forward
//     schedules a tick per step at the configured interval.
//   - Left clicks on program text are hit-tested against the rendered grid
//     (mouse.go) and delivered to the driver as click events.
//
// Backend interactions:
//   - When a backend.Watcher is supplied, Update waits for its events and
//     reloads the buffer and restarts the run on every change of the file.
package ui
