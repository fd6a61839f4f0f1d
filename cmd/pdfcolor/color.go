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
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"seehuhn.de/go/pdfcolor/graphics/color"
	"seehuhn.de/go/pdfcolor/internal/float"
)

var colorCmd = &cobra.Command{
	Use:   "color [flags] value...",
	Short: "Convert a single colour",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runColor,
}

func init() {
	colorCmd.Flags().String("from", "rgb", "source colour space")
	colorCmd.Flags().String("to", "cmyk", "destination colour space")
	colorCmd.Flags().String("src-profile", "", "ICC profile for the source space")
	colorCmd.Flags().String("dst-profile", "", "ICC profile for the destination space")
	rootCmd.AddCommand(colorCmd)
}

func runColor(cmd *cobra.Command, args []string) error {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	srcProfile, _ := cmd.Flags().GetString("src-profile")
	dstProfile, _ := cmd.Flags().GetString("dst-profile")

	ss, err := parseSpace(from, srcProfile)
	if err != nil {
		return err
	}
	ds, err := parseSpace(to, dstProfile)
	if err != nil {
		return err
	}
	if len(args) != ss.Channels() {
		return fmt.Errorf("%s needs %d values, got %d", ss.Name(), ss.Channels(), len(args))
	}

	in := make([]float64, len(args))
	for i, arg := range args {
		in[i], err = strconv.ParseFloat(arg, 64)
		if err != nil {
			return err
		}
	}
	color.Clamp(ss, in, in)

	p, err := params(cmd)
	if err != nil {
		return err
	}
	env := newEnv(cmd)
	cv, err := env.NewConverter(ss, ds, nil, nil, p)
	if err != nil {
		return err
	}
	defer cv.Close()

	out := make([]float64, ds.Channels())
	cv.Convert(out, in)

	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n",
		float.Join(out, 4), strings.Join(cv.Steps(), ", "))
	return nil
}
