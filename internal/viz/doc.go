// Package viz renders simulation results in the terminal.
//
//   - [RenderSections]: per-section summary table with danger highlighting
//   - [Viewer]: Bubble Tea program that scrubs through a run frame by frame
//
// # Key Bindings
//
//	Space - Play/Pause
//	←/→   - Step one frame
//	[/]   - Jump one second
//	Home  - First frame
//	End   - Last frame
//	Tab   - Toggle tension/strain
//	Q     - Quit
package viz
