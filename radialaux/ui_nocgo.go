//go:build tinygo || !cgo

package radialaux

import (
	"errors"

	"github.com/soypat/gradial/overlay"
)

func ui(h *overlay.Host, cfg UIConfig) error {
	return errors.New("require cgo for UI rendering")
}
