// Package render builds the view model of each screen from the engine state
// and defines the renderer contract front ends use to turn it into output.
package render
