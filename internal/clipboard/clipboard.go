// Package clipboard provides access to the system clipboard.
package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrUnavailable reports that no clipboard utility exists on this system.
var ErrUnavailable = errors.New("clipboard: no clipboard utility available (install xclip or wl-copy)")

// Copy writes text to the system clipboard.
func Copy(text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	return clipboard.WriteAll(text)
}
