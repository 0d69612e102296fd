package render

import "errors"

// ErrRenderFailure wraps any unexpected drawing or markup error.
var ErrRenderFailure = errors.New("render failed")
