package logo

import "errors"

var (
	ErrUnsupportedType      = errors.New("unsupported image type")
	ErrTooLarge             = errors.New("image too large")
	ErrCompressionExhausted = errors.New("image cannot be compressed below the storage budget")
	ErrStorageQuotaExceeded = errors.New("storage quota exceeded")
	ErrNoLogo               = errors.New("no logo stored")
)
