// Package view is an interactive terminal browser for a resolved document.
//
// The table lists every fragment with its kind and value; the pane beneath
// shows the selected value in full. The document is polled for changes and
// reloaded as a whole, so the display never mixes fragments from two
// versions of the file.
//
// Keys:
//
//	/        filter fragments by fuzzy name match (enter keeps, esc clears)
//	r        reload now
//	q        quit
package view
