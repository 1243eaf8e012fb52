// Package vidpak is a lossless codec for 12-bit-per-channel image frames,
// intended for real-time video packing where each frame is compressed
// independently.
//
// A frame is partitioned into rectangular tiles; within each tile, every
// pixel is predicted from its already-decoded neighbors and the
// prediction residuals are entropy-coded with a tabled finite state
// entropy (FSE) coder specialized for 16-bit symbols. Each tile falls
// back to an uncompressed or run-length form when the entropy coder
// cannot beat them.
//
// The package has no knowledge of image file formats, command-line
// tooling, or timing harnesses; callers supply pre-allocated buffers and
// own the strides describing how pixels are laid out in memory. See
// cmd/vidpakctl for an example driver that decodes still images into
// planes and round-trips them through this package.
//
// Basic usage:
//
//	ctx, err := vidpak.CreateContext(width, height, 12, tileWidth, tileHeight)
//	n, err := ctx.Pack(src, dst, 1, width)
//	err = ctx.Unpack(dst[:n], out, 1, width)
package vidpak
