// bmap decodes, inspects and edits bitmap images.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/xfmoulet/qoi"
	xbmp "golang.org/x/image/bmp"

	"github.com/anas-shakeel/bmapcodec/internal/adjustments"
	"github.com/anas-shakeel/bmapcodec/internal/bmp"
	"github.com/anas-shakeel/bmapcodec/internal/filters"
)

const usage = `usage: bmap [-permissive] [-v] <command> [args]

commands:
  info    <file>
  convert <in> <out>
  export  <in> <out.qoi>
  filter  <invert|greyL|greyM|greyA|greyR|greyG|greyB|luma|brightness|contrast> <in> <out> [factor]
  crop    <in> <out> x y w h
  resize  <in> <out> w h
  print   <file>
  checker <out> w h

Files ending in .zst are read and written zstd-compressed.
`

func main() {
	permissive := flag.Bool("permissive", false, "decode past header errors and report them")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	log.SetHandler(cli.Default)
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), flag.Args()[1:], *permissive); err != nil {
		log.WithError(err).Fatal(flag.Arg(0))
	}
}

func run(cmd string, args []string, permissive bool) error {
	read := func(filename string) (*bmp.BitmapImage, error) {
		b, err := bmp.ReadBitmap(filename, bmp.WithPermissive(permissive))
		var report *bmp.Report
		if errors.As(err, &report) && b != nil {
			return b, nil // already logged per error by the decoder
		}
		return b, err
	}

	switch cmd {
	case "info":
		if err := need(args, 1); err != nil {
			return err
		}
		b, err := read(args[0])
		if err != nil {
			return err
		}
		b.PrintMetadata(os.Stdout)
		crossCheck(args[0], b)
		return nil

	case "print":
		if err := need(args, 1); err != nil {
			return err
		}
		b, err := read(args[0])
		if err != nil {
			return err
		}
		b.PrintBitmap(os.Stdout)
		return nil

	case "convert":
		if err := need(args, 2); err != nil {
			return err
		}
		b, err := read(args[0])
		if err != nil {
			return err
		}
		return save(b, args[1])

	case "export":
		if err := need(args, 2); err != nil {
			return err
		}
		b, err := read(args[0])
		if err != nil {
			return err
		}
		// Top-down so the exported image is upright.
		if !b.TopDown() {
			if b, err = adjustments.FlipVertical(b); err != nil {
				return err
			}
		}
		out, err := os.Create(args[1])
		if err != nil {
			return err
		}
		defer out.Close()
		if err := qoi.Encode(out, b.Image()); err != nil {
			return err
		}
		log.WithField("file", args[1]).Info("exported")
		return out.Close()

	case "filter":
		if err := need(args, 3); err != nil {
			return err
		}
		b, err := read(args[1])
		if err != nil {
			return err
		}
		if err := applyFilter(b, args[0], args[3:]); err != nil {
			return err
		}
		return save(b, args[2])

	case "crop":
		if err := need(args, 6); err != nil {
			return err
		}
		n, err := ints(args[2:6])
		if err != nil {
			return err
		}
		b, err := read(args[0])
		if err != nil {
			return err
		}
		if b, err = adjustments.Crop(b, n[0], n[1], n[2], n[3]); err != nil {
			return err
		}
		return save(b, args[1])

	case "resize":
		if err := need(args, 4); err != nil {
			return err
		}
		n, err := ints(args[2:4])
		if err != nil {
			return err
		}
		b, err := read(args[0])
		if err != nil {
			return err
		}
		if b, err = adjustments.ResizeNearest(b, n[0], n[1]); err != nil {
			return err
		}
		return save(b, args[1])

	case "checker":
		if err := need(args, 3); err != nil {
			return err
		}
		n, err := ints(args[1:3])
		if err != nil {
			return err
		}
		b, err := bmp.CreateBitmap(n[0], n[1])
		if err != nil {
			return err
		}
		b.Checker()
		return save(b, args[0])
	}

	flag.Usage()
	return fmt.Errorf("unknown command %q", cmd)
}

func applyFilter(b *bmp.BitmapImage, name string, args []string) error {
	factor := 1.0
	if len(args) > 0 {
		f, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid factor %q: %w", args[0], err)
		}
		factor = f
	}

	switch {
	case name == "invert":
		filters.Invert(b)
	case name == "luma":
		filters.GrayscaleLuma(b)
	case name == "brightness":
		return filters.Brightness(b, factor, "multiply")
	case name == "contrast":
		filters.Contrast(b, factor)
	case strings.HasPrefix(name, "grey") && len(name) == 5:
		filters.Greyscale(b, name[4])
	default:
		return fmt.Errorf("unknown filter %q", name)
	}
	return nil
}

func save(b *bmp.BitmapImage, filename string) error {
	b.UpdateMeta()
	if err := b.Save(filename); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"file":   filename,
		"width":  b.Width(),
		"height": b.Height(),
	}).Info("saved")
	return nil
}

// crossCheck compares the dimensions against the x/image decoder, which
// reads a narrower set of headers.
func crossCheck(filename string, b *bmp.BitmapImage) {
	f, err := os.Open(filename)
	if err != nil {
		return
	}
	defer f.Close()

	cfg, err := xbmp.DecodeConfig(f)
	if err != nil {
		log.WithError(err).Debug("x/image/bmp cannot read this file")
		return
	}
	if cfg.Width != b.Width() || cfg.Height != b.Height() {
		log.WithFields(log.Fields{
			"width":  cfg.Width,
			"height": cfg.Height,
		}).Warn("x/image/bmp reads different dimensions")
		return
	}
	log.Debug("x/image/bmp agrees on dimensions")
}

func need(args []string, n int) error {
	if len(args) < n {
		return fmt.Errorf("expected %d arguments, got %d", n, len(args))
	}
	return nil
}

func ints(args []string) ([]int, error) {
	n := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", a, err)
		}
		n[i] = v
	}
	return n, nil
}
