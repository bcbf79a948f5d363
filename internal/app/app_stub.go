//go:build !ebiten

package app

import (
	"errors"

	"sandfall/internal/session"
)

// ErrNoGUI is returned by Run when the binary was built without the ebiten tag.
var ErrNoGUI = errors.New("the GUI requires building with the 'ebiten' tag")

// Run always fails in the headless build.
func Run(*session.Session, int, int, int) error {
	return ErrNoGUI
}
