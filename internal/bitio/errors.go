package bitio

import "errors"

// ErrCorruption is returned when a Reader encounters a buffer that cannot
// contain a valid sentinel-terminated bitstream (e.g. a trailing zero byte,
// meaning no closing bit was ever written), or when more bits are consumed
// than the buffer can supply.
var ErrCorruption = errors.New("bitio: corrupt stream: no sentinel bit found")
