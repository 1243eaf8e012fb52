// Command vidpakctl is a demonstration driver for the vidpak codec. It
// decodes a still image, expands each color channel into a 12-bit plane,
// round-trips the planes through vidpak.Pack/Unpack, and reports
// compression statistics. It is not part of the codec itself; callers
// embedding vidpak in a real pipeline own their own buffers and planes.
package main

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	"golang.org/x/image/bmp"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/deepteams/vidpak"
	"github.com/deepteams/vidpak/internal/pool"
)

var log = logrus.New()

func main() {
	if err := rootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func rootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "vidpakctl",
		Short: "pack and unpack 12-bit image planes with vidpak",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(packCmd(), unpackCmd(), benchCmd())
	return root
}

// expandImage splits an image into per-channel 12-bit planes, mirroring
// the approach of widening 8-bit source imagery up to this codec's native
// depth by left-shifting into the high bits. Each plane's height is
// padded up to a multiple of tileHeight so CreateContext's divisibility
// precondition holds; padded rows replicate the last real row.
func expandImage(img image.Image, tileWidth, tileHeight int) (planes [3][]uint16, w, h int) {
	b := img.Bounds()
	w, h = b.Dx(), b.Dy()
	padW := ((w + tileWidth - 1) / tileWidth) * tileWidth
	padH := ((h + tileHeight - 1) / tileHeight) * tileHeight

	for c := range planes {
		planes[c] = make([]uint16, padW*padH)
	}
	for y := 0; y < padH; y++ {
		sy := y
		if sy >= h {
			sy = h - 1
		}
		for x := 0; x < padW; x++ {
			sx := x
			if sx >= w {
				sx = w - 1
			}
			r, g, bl, _ := img.At(b.Min.X+sx, b.Min.Y+sy).RGBA()
			planes[0][y*padW+x] = uint16(r>>4) & 0xFFF
			planes[1][y*padW+x] = uint16(g>>4) & 0xFFF
			planes[2][y*padW+x] = uint16(bl>>4) & 0xFFF
		}
	}
	return planes, padW, padH
}

func decodeInput(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err == nil {
		return img, nil
	}
	// Fall back to BMP, which the standard library doesn't register.
	if _, serr := f.Seek(0, 0); serr != nil {
		return nil, err
	}
	return bmp.Decode(f)
}

func packCmd() *cobra.Command {
	var tileWidth, tileHeight int

	cmd := &cobra.Command{
		Use:   "pack <input-image> <output.vpk>",
		Short: "pack a still image's channels into a vidpak bitstream",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := decodeInput(args[0])
			if err != nil {
				return fmt.Errorf("vidpakctl: decoding %s: %w", args[0], err)
			}

			planes, w, h := expandImage(img, tileWidth, tileHeight)
			ctx, err := vidpak.CreateContext(w, h, 12, tileWidth, tileHeight)
			if err != nil {
				return fmt.Errorf("vidpakctl: creating context: %w", err)
			}
			defer ctx.Close()

			out, err := os.Create(args[1])
			if err != nil {
				return err
			}
			defer out.Close()

			header := pool.Get(12)
			defer pool.Put(header)
			putUint32LE(header[0:4], uint32(w))
			putUint32LE(header[4:8], uint32(h))
			putUint32LE(header[8:12], uint32(tileWidth)<<16|uint32(tileHeight))
			if _, err := out.Write(header); err != nil {
				return err
			}

			start := time.Now()
			totalRaw, totalPacked := 0, 0
			dst := pool.Get(ctx.MaxPackedSize())
			defer pool.Put(dst)
			for c, plane := range planes {
				n, err := ctx.Pack(plane, dst, 1, w)
				if err != nil {
					return fmt.Errorf("vidpakctl: packing channel %d: %w", c, err)
				}
				sizeBuf := pool.Get(4)
				putUint32LE(sizeBuf, uint32(n))
				if _, err := out.Write(sizeBuf); err != nil {
					pool.Put(sizeBuf)
					return err
				}
				pool.Put(sizeBuf)
				if _, err := out.Write(dst[:n]); err != nil {
					return err
				}
				totalRaw += len(plane) * 2
				totalPacked += n
				log.Debugf("channel %d: %d -> %d bytes", c, len(plane)*2, n)
			}

			log.WithFields(logrus.Fields{
				"width":    w,
				"height":   h,
				"raw":      totalRaw,
				"packed":   totalPacked,
				"ratio":    float64(totalRaw) / float64(totalPacked),
				"duration": time.Since(start),
			}).Info("pack complete")
			return nil
		},
	}
	cmd.Flags().IntVar(&tileWidth, "tile-width", 16, "tile width in pixels")
	cmd.Flags().IntVar(&tileHeight, "tile-height", 16, "tile height in pixels (must be a multiple of 4)")
	return cmd
}

func unpackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unpack <input.vpk> <output.bmp>",
		Short: "unpack a vidpak bitstream and write a BMP preview",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if len(data) < 12 {
				return fmt.Errorf("vidpakctl: %s is too short to be a vidpak file", args[0])
			}
			w := int(getUint32LE(data[0:4]))
			h := int(getUint32LE(data[4:8]))
			packed := getUint32LE(data[8:12])
			tileWidth, tileHeight := int(packed>>16), int(packed&0xFFFF)

			ctx, err := vidpak.CreateContext(w, h, 12, tileWidth, tileHeight)
			if err != nil {
				return fmt.Errorf("vidpakctl: creating context: %w", err)
			}
			defer ctx.Close()

			pos := 12
			var planes [3][]uint16
			for c := range planes {
				if pos+4 > len(data) {
					return fmt.Errorf("vidpakctl: truncated channel %d length", c)
				}
				n := int(getUint32LE(data[pos : pos+4]))
				pos += 4
				if pos+n > len(data) {
					return fmt.Errorf("vidpakctl: truncated channel %d payload", c)
				}
				plane := make([]uint16, w*h)
				if err := ctx.Unpack(data[pos:pos+n], plane, 1, w); err != nil {
					return fmt.Errorf("vidpakctl: unpacking channel %d: %w", c, err)
				}
				planes[c] = plane
				pos += n
			}

			img := image.NewNRGBA(image.Rect(0, 0, w, h))
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					i := y*w + x
					img.SetNRGBA(x, y, toNRGBA(planes[0][i], planes[1][i], planes[2][i]))
				}
			}

			out, err := os.Create(args[1])
			if err != nil {
				return err
			}
			defer out.Close()
			if err := bmp.Encode(out, img); err != nil {
				return err
			}
			log.WithFields(logrus.Fields{"width": w, "height": h}).Info("unpack complete")
			return nil
		},
	}
	return cmd
}

func benchCmd() *cobra.Command {
	var width, height, tileWidth, tileHeight, iterations int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "pack/unpack a synthetic gradient frame repeatedly and report throughput",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := vidpak.CreateContext(width, height, 12, tileWidth, tileHeight)
			if err != nil {
				return fmt.Errorf("vidpakctl: creating context: %w", err)
			}
			defer ctx.Close()

			src := make([]uint16, width*height)
			for y := 0; y < height; y++ {
				for x := 0; x < width; x++ {
					src[y*width+x] = uint16((x*7 + y*13) & 0xFFF)
				}
			}

			dst := pool.Get(ctx.MaxPackedSize())
			defer pool.Put(dst)
			out := make([]uint16, width*height)

			start := time.Now()
			var packedBytes int
			for i := 0; i < iterations; i++ {
				n, err := ctx.Pack(src, dst, 1, width)
				if err != nil {
					return fmt.Errorf("vidpakctl: pack iteration %d: %w", i, err)
				}
				if err := ctx.Unpack(dst[:n], out, 1, width); err != nil {
					return fmt.Errorf("vidpakctl: unpack iteration %d: %w", i, err)
				}
				packedBytes = n
			}
			elapsed := time.Since(start)

			log.WithFields(logrus.Fields{
				"iterations":    iterations,
				"frame":         fmt.Sprintf("%dx%d", width, height),
				"packed_bytes":  packedBytes,
				"total_elapsed": elapsed,
				"per_iteration": elapsed / time.Duration(iterations),
			}).Info("bench complete")
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 1920, "frame width")
	cmd.Flags().IntVar(&height, "height", 1080, "frame height")
	cmd.Flags().IntVar(&tileWidth, "tile-width", 16, "tile width")
	cmd.Flags().IntVar(&tileHeight, "tile-height", 8, "tile height")
	cmd.Flags().IntVar(&iterations, "iterations", 100, "number of pack/unpack round trips")
	return cmd
}

func toNRGBA(r, g, b uint16) color.NRGBA {
	return color.NRGBA{R: uint8(r >> 4), G: uint8(g >> 4), B: uint8(b >> 4), A: 255}
}

func putUint32LE(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func getUint32LE(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
