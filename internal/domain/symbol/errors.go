package symbol

import "errors"

var (
	ErrSymbolNotFound   = errors.New("symbol not found")
	ErrUnknownCode      = errors.New("code is not in the symbol catalog")
	ErrIndexOutOfRange  = errors.New("catalog index out of range")
	ErrInvalidDirection = errors.New("direction must be up or down")
	ErrInvalidOperation = errors.New("invalid catalog operation")
)
