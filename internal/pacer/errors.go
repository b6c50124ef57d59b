package pacer

import "errors"

// ErrInvalidBandwidth is a sentinel error for malformed bandwidth strings.
// Wrap this with fmt.Errorf("...: %w", ErrInvalidBandwidth) to add context.
var ErrInvalidBandwidth = errors.New("invalid bandwidth string")
