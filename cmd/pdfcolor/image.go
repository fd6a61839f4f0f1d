// seehuhn.de/go/pdfcolor - colour space conversion for PDF rendering
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/spf13/cobra"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/term"

	"seehuhn.de/go/pdfcolor/graphics/color"
	"seehuhn.de/go/pdfcolor/pixmap"
)

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Convert an image file (raw output + JSON sidecar)",
	RunE:  runImage,
}

func init() {
	imageCmd.Flags().StringP("input", "i", "", "input image (PNG, JPEG, GIF, TIFF, BMP or WebP)")
	imageCmd.Flags().StringP("output", "o", "", "output file for the raw samples, \"-\" for stdout")
	imageCmd.Flags().String("to", "cmyk", "destination colour space")
	imageCmd.Flags().String("src-profile", "", "ICC profile for the input image")
	imageCmd.Flags().String("dst-profile", "", "ICC profile for the destination space")
	imageCmd.Flags().String("output-intent", "", "ICC profile (CMYK) used as output intent")
	imageCmd.Flags().Bool("alpha", false, "keep the alpha channel")
	imageCmd.MarkFlagRequired("input")
	imageCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(imageCmd)
}

type imageMeta struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Space     string `json:"space"`
	Channels  int    `json:"channels"`
	Alpha     bool   `json:"alpha"`
	Stride    int    `json:"stride"`
	Intent    string `json:"intent"`
	Links     int    `json:"links_built"`
	CacheHits int    `json:"link_cache_hits"`
}

func runImage(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	to, _ := cmd.Flags().GetString("to")
	srcProfile, _ := cmd.Flags().GetString("src-profile")
	dstProfile, _ := cmd.Flags().GetString("dst-profile")
	intentProfile, _ := cmd.Flags().GetString("output-intent")
	keepAlpha, _ := cmd.Flags().GetBool("alpha")

	if outputPath == "-" && term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("refusing to write binary data to a terminal")
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("decoding: %w", err)
	}

	src, err := toPixmap(img, srcProfile, keepAlpha)
	if err != nil {
		return err
	}
	ds, err := parseSpace(to, dstProfile)
	if err != nil {
		return err
	}
	dst, err := pixmap.New(ds, src.Width, src.Height, nil, keepAlpha)
	if err != nil {
		return err
	}

	p, err := params(cmd)
	if err != nil {
		return err
	}
	opt := &pixmap.ConvertOptions{
		Defaults: color.NewDefaults(),
		Params:   p,
	}
	if intentProfile != "" {
		oi, err := parseSpace("cmyk", intentProfile)
		if err != nil {
			return err
		}
		if err := opt.Defaults.SetOutputIntent(oi); err != nil {
			return err
		}
	}

	env := newEnv(cmd)
	if err := pixmap.Convert(cmd.Context(), env, dst, src, opt); err != nil {
		return err
	}

	if outputPath == "-" {
		_, err = os.Stdout.Write(dst.Samples)
	} else {
		err = os.WriteFile(outputPath, dst.Samples, 0644)
	}
	if err != nil {
		return fmt.Errorf("writing samples: %w", err)
	}
	if outputPath == "-" {
		return nil
	}

	st := env.Cache().Stats()
	meta := imageMeta{
		Width:     dst.Width,
		Height:    dst.Height,
		Space:     ds.Name(),
		Channels:  dst.N(),
		Alpha:     dst.Alpha,
		Stride:    dst.Stride,
		Intent:    p.Intent.String(),
		Links:     st.Builds,
		CacheHits: st.Hits,
	}
	metaJSON, _ := json.MarshalIndent(meta, "", "  ")
	metaPath := strings.TrimSuffix(outputPath, ".raw") + ".json"
	if err := os.WriteFile(metaPath, metaJSON, 0644); err != nil {
		return fmt.Errorf("writing sidecar: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "converted %dx%d image to %s (%d bytes)\n",
		dst.Width, dst.Height, ds.Name(), len(dst.Samples))
	return nil
}

// toPixmap copies the samples of img into a new pixmap.  Gray and CMYK
// images keep their colour model, all other images are converted to RGB.
func toPixmap(img image.Image, profile string, alpha bool) (*pixmap.Pixmap, error) {
	b := img.Bounds()
	switch img := img.(type) {
	case *image.Gray:
		space, err := parseSpace("gray", profile)
		if err != nil {
			return nil, err
		}
		p, err := pixmap.New(space, b.Dx(), b.Dy(), nil, alpha)
		if err != nil {
			return nil, err
		}
		for y := range p.Height {
			for x := range p.Width {
				px := p.Pixel(x, y)
				px[0] = img.GrayAt(b.Min.X+x, b.Min.Y+y).Y
				if alpha {
					px[1] = 255
				}
			}
		}
		return p, nil

	case *image.CMYK:
		space, err := parseSpace("cmyk", profile)
		if err != nil {
			return nil, err
		}
		p, err := pixmap.New(space, b.Dx(), b.Dy(), nil, alpha)
		if err != nil {
			return nil, err
		}
		for y := range p.Height {
			for x := range p.Width {
				c := img.CMYKAt(b.Min.X+x, b.Min.Y+y)
				px := p.Pixel(x, y)
				px[0], px[1], px[2], px[3] = c.C, c.M, c.Y, c.K
				if alpha {
					px[4] = 255
				}
			}
		}
		return p, nil
	}

	space, err := parseSpace("rgb", profile)
	if err != nil {
		return nil, err
	}
	p, err := pixmap.New(space, b.Dx(), b.Dy(), nil, alpha)
	if err != nil {
		return nil, err
	}
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	for y := range p.Height {
		for x := range p.Width {
			i := rgba.PixOffset(x, y)
			px := p.Pixel(x, y)
			copy(px[:3], rgba.Pix[i:i+3])
			if alpha {
				px[3] = rgba.Pix[i+3]
			}
		}
	}
	if !alpha {
		// without alpha, composite onto white
		for y := range p.Height {
			for x := range p.Width {
				a := rgba.Pix[rgba.PixOffset(x, y)+3]
				px := p.Pixel(x, y)
				for c := range 3 {
					px[c] = byte(min(int(px[c])+255-int(a), 255))
				}
			}
		}
	}
	return p, nil
}
