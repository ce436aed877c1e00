package services

import (
	"errors"

	"steel-ledger/mtrledger/internal/constants"
	"steel-ledger/mtrledger/internal/tabular"
)

var (
	ErrNoFile            = errors.New(constants.MsgUploadFile)
	ErrNoRows            = errors.New(constants.MsgNoDataRows)
	ErrPayloadNotMapping = errors.New(constants.MsgPayloadNotMap)
	ErrPayloadNotList    = errors.New(constants.MsgPayloadNotList)
	ErrMissingKeys       = errors.New(constants.MsgKeysRequired)
	ErrWriteBusy         = errors.New(constants.MsgWriteBusy)
	ErrMtrNotFound       = errors.New(constants.MsgMtrNotFound)
	ErrInvalidStatus     = errors.New(constants.MsgInvalidStatus)
)

var validationErrors = []error{
	ErrNoFile,
	ErrNoRows,
	ErrPayloadNotMapping,
	ErrPayloadNotList,
	ErrMissingKeys,
	ErrInvalidStatus,
	tabular.ErrUnsupportedFormat,
	tabular.ErrInvalidDelimiter,
	tabular.ErrInvalidEncoding,
	tabular.ErrUnreadableFile,
}

// IsValidation reports whether err is something the caller can fix by changing the input.
func IsValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
