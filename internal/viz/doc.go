// Package viz runs a fluid simulation live in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view of one simulator with a density or velocity canvas
//   - [Canvas]: Braille-based pixel canvas used for the velocity field
//   - a preset picker started by [RunInteractive]
//
// # Key Bindings
//
//	Arrows/HJKL - Move the injection cursor
//	D           - Inject density at the cursor
//	V           - Inject velocity at the cursor
//	Mouse       - Left drag injects density, right drag velocity
//	Tab         - Toggle density/velocity view
//	Space       - Pause/Resume simulation
//	R           - Reset the fluid
//	T           - Cycle color themes
//	G           - Toggle GIF recording
//	?           - Show help overlay
package viz
