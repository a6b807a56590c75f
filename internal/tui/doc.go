// Package tui is the terminal front end of the landing sequence.
//
// [Model] is a Bubble Tea model that drives a story session from a 16ms
// frame tick and draws the loader, envelope, letter, continue button and
// feed over a braille backdrop. [LiveRenderer] prints just the animating
// letter body without taking over the screen.
//
// # Key Bindings
//
//	Enter/Space - open the envelope, continue once the letter settles
//	Esc         - close the feed
//	F           - reopen the feed
//	?           - toggle full help
//	Q           - quit
//
// # Mouse
//
// Pointer motion near the continue button lights its border; a click on it
// continues. The wheel scrolls the backdrop with a parallax offset.
package tui
