package vidpak

// Context holds the immutable parameters of a pack/unpack session plus
// the scratch buffer the tile predictor uses as residual working space.
// A Context is not safe for concurrent Pack/Unpack calls: the scratch
// buffer is exclusively owned by whichever call is in flight. Distinct
// Contexts share no state and may be used concurrently.
type Context struct {
	Width, Height   int
	BitsPerPixel    int
	TileWidth       int
	TileHeight      int
	tilesX, tilesY  int
	scratch         []uint16
}

// CreateContext validates the frame and tile geometry and allocates the
// scratch buffer a Pack/Unpack call needs. bpp must be 12: this codec has
// no other bit depth. TileHeight must be a multiple of 4 (the predictor's
// four-slice layout requires it) and both tile dimensions must evenly
// divide the frame dimensions, matching the stricter of the two
// historical variants rather than the clipped-tile extension.
func CreateContext(width, height, bpp, tileWidth, tileHeight int) (*Context, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidArgument
	}
	if bpp != 12 {
		return nil, ErrInvalidArgument
	}
	if tileWidth <= 0 || tileHeight <= 0 {
		return nil, ErrInvalidArgument
	}
	if tileHeight%4 != 0 {
		return nil, ErrInvalidArgument
	}
	if tileWidth > width || tileHeight > height {
		return nil, ErrInvalidArgument
	}
	if width%tileWidth != 0 || height%tileHeight != 0 {
		return nil, ErrInvalidArgument
	}

	return &Context{
		Width:        width,
		Height:       height,
		BitsPerPixel: bpp,
		TileWidth:    tileWidth,
		TileHeight:   tileHeight,
		tilesX:       width / tileWidth,
		tilesY:       height / tileHeight,
		scratch:      make([]uint16, tileWidth*tileHeight),
	}, nil
}

// Close releases the context's scratch buffer. The Context must not be
// used afterward.
func (ctx *Context) Close() {
	ctx.scratch = nil
}

// MaxPackedSize returns the largest number of bytes Pack can write for
// this context: every tile taking the raw fallback shape, plus the
// tile-size table. It is a pure function of the context's dimensions.
func (ctx *Context) MaxPackedSize() int {
	return ctx.Width*ctx.Height*2 + 4*ctx.tilesX*ctx.tilesY
}
