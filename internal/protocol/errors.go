package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Model layer: refusals the caller is expected to handle.
	ErrInvalidTimestamp = "E_INVALID_TIMESTAMP"
	ErrOutOfBounds      = "E_OUT_OF_BOUNDS"
	ErrSlotOccupied     = "E_SLOT_OCCUPIED"
	ErrEmptySlot        = "E_EMPTY_SLOT"
	ErrCropNotReady     = "E_CROP_NOT_READY"
	ErrNoFunds          = "E_NO_FUNDS"
	ErrCropLocked       = "E_CROP_LOCKED"
	ErrUnknownCrop      = "E_UNKNOWN_CROP"

	// Startup/persistence layer.
	ErrConfigInvalid = "E_CONFIG_INVALID"
	ErrSaveCorrupt   = "E_SAVE_CORRUPT"

	ErrBadRequest = "E_BAD_REQUEST"
	ErrInternal   = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest:  {},
	ErrInvalidTimestamp: {},
	ErrOutOfBounds:      {},
	ErrSlotOccupied:     {},
	ErrEmptySlot:        {},
	ErrCropNotReady:     {},
	ErrNoFunds:          {},
	ErrCropLocked:       {},
	ErrUnknownCrop:      {},
	ErrConfigInvalid:    {},
	ErrSaveCorrupt:      {},
	ErrBadRequest:       {},
	ErrInternal:         {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
