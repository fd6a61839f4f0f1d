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

// Pdfcolor converts images and single colours between colour spaces.
package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"seehuhn.de/go/pdfcolor"
	"seehuhn.de/go/pdfcolor/cmm"
	"seehuhn.de/go/pdfcolor/convert"
	"seehuhn.de/go/pdfcolor/graphics/color"
)

var rootCmd = &cobra.Command{
	Use:           "pdfcolor",
	Short:         "Colour conversion for PDF rendering",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log degraded conversions to stderr")
	rootCmd.PersistentFlags().String("intent", "relative", "rendering intent (perceptual, relative, saturation, absolute)")
	rootCmd.PersistentFlags().Bool("bpc", false, "use black point compensation")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// newEnv creates the conversion context for a command.
func newEnv(cmd *cobra.Command) *convert.Context {
	verbose, _ := cmd.Flags().GetBool("verbose")
	var w io.Writer = io.Discard
	if verbose {
		w = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return convert.NewContext(&convert.Options{Logger: logger})
}

func params(cmd *cobra.Command) (convert.Params, error) {
	intentName, _ := cmd.Flags().GetString("intent")
	bpc, _ := cmd.Flags().GetBool("bpc")
	intent, err := parseIntent(intentName)
	if err != nil {
		return convert.Params{}, err
	}
	return convert.Params{Intent: intent, BlackPoint: bpc}, nil
}

func parseIntent(s string) (cmm.RenderingIntent, error) {
	switch strings.ToLower(s) {
	case "perceptual":
		return cmm.Perceptual, nil
	case "relative", "relative-colorimetric":
		return cmm.RelativeColorimetric, nil
	case "saturation":
		return cmm.Saturation, nil
	case "absolute", "absolute-colorimetric":
		return cmm.AbsoluteColorimetric, nil
	default:
		return 0, pdfcolor.Errorf(pdfcolor.InvalidArgument, "intent",
			"unknown rendering intent %q", s)
	}
}

// parseSpace returns the colour space with the given name.  If profile is
// not empty, the space is backed by the ICC profile in that file.
func parseSpace(name, profile string) (color.Space, error) {
	var kind color.Kind
	var dev color.Space
	switch strings.ToLower(name) {
	case "gray", "grey":
		kind, dev = color.KindGray, color.DeviceGray
	case "rgb":
		kind, dev = color.KindRGB, color.DeviceRGB
	case "bgr":
		kind, dev = color.KindBGR, color.DeviceBGR
	case "cmyk":
		kind, dev = color.KindCMYK, color.DeviceCMYK
	case "lab":
		kind, dev = color.KindLab, color.LabD50
	case "srgb":
		return color.SRGB(), nil
	default:
		return nil, fmt.Errorf("unknown colour space %q", name)
	}

	if profile == "" {
		return dev, nil
	}
	data, err := os.ReadFile(profile)
	if err != nil {
		return nil, err
	}
	return color.ICCBased(data, kind)
}
