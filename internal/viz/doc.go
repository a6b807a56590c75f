// Package viz holds the look of the landing scene: color themes, the
// lipgloss styles built from them, color blending for the continue glow
// and entice sweep, and a braille canvas for the backdrop.
//
// # Themes
//
//	midnight - default, blue on ink
//	paper    - dark ink on cream
//	ember    - coral and gold
//	retro    - green phosphor
package viz
