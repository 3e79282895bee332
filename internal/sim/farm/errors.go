package farm

import (
	"errors"

	"farmstead.gg/internal/protocol"
)

// Model-layer refusals. Callers surface these to the player; none of them is
// ever a process failure.
var (
	ErrInvalidTimestamp  = errors.New("invalid timestamp")
	ErrOutOfBounds       = errors.New("plot out of bounds")
	ErrSlotOccupied      = errors.New("plot already occupied")
	ErrEmptySlot         = errors.New("plot is empty")
	ErrCropNotReady      = errors.New("crop not ready")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrCropLocked        = errors.New("crop not unlocked")
	ErrUnknownCrop       = errors.New("unknown crop type")
)

// CodeFor maps a model error to its stable wire code.
func CodeFor(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidTimestamp):
		return protocol.ErrInvalidTimestamp
	case errors.Is(err, ErrOutOfBounds):
		return protocol.ErrOutOfBounds
	case errors.Is(err, ErrSlotOccupied):
		return protocol.ErrSlotOccupied
	case errors.Is(err, ErrEmptySlot):
		return protocol.ErrEmptySlot
	case errors.Is(err, ErrCropNotReady):
		return protocol.ErrCropNotReady
	case errors.Is(err, ErrInsufficientFunds):
		return protocol.ErrNoFunds
	case errors.Is(err, ErrCropLocked):
		return protocol.ErrCropLocked
	case errors.Is(err, ErrUnknownCrop):
		return protocol.ErrUnknownCrop
	default:
		return protocol.ErrInternal
	}
}
