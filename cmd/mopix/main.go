package main

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	_ "golang.org/x/image/bmp"

	"github.com/tmpim/mopix"
	"github.com/tmpim/mopix/palettegen"
	"github.com/tmpim/mopix/testpattern"
)

func main() {
	log.SetFlags(0)

	app := &cli.App{
		Name:  "mopix",
		Usage: "convert photographs into fixed-palette engraving squares",
		Commands: []*cli.Command{
			convertCommand(),
			compareCommand(),
			patternsCommand(),
			paletteCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func pipelineFlags() []cli.Flag {
	defaults := mopix.DefaultOptions()
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "retinex",
			Usage: "apply multi-scale Retinex illumination normalization",
			Value: defaults.ApplyIlluminationNormalization,
		},
		&cli.Float64SliceFlag{
			Name:  "scales",
			Usage: "Gaussian scales for the Retinex illumination estimate",
			Value: cli.NewFloat64Slice(defaults.IlluminationScales...),
		},
		&cli.BoolFlag{
			Name:  "saturation",
			Usage: "apply value-adaptive saturation enhancement",
			Value: defaults.ApplySaturationEnhancement,
		},
		&cli.Float64Flag{
			Name:  "strength",
			Usage: "saturation boost factor (1.0 = no change)",
			Value: defaults.SaturationStrength,
		},
		&cli.StringFlag{
			Name:  "dither",
			Usage: `dither kernel: "floyd-steinberg", "atkinson" or "none"`,
			Value: defaults.DitherKernel,
		},
		&cli.StringFlag{
			Name:  "palette",
			Usage: "JSON palette file (defaults to the reference MOPA palette)",
		},
	}
}

func optionsFromFlags(c *cli.Context) mopix.Options {
	return mopix.Options{
		ApplyIlluminationNormalization: c.Bool("retinex"),
		IlluminationScales:             c.Float64Slice("scales"),
		ApplySaturationEnhancement:     c.Bool("saturation"),
		SaturationStrength:             c.Float64("strength"),
		DitherKernel:                   c.String("dither"),
	}
}

func convertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Convert an image to engraving SVG plus a PNG preview",
		ArgsUsage: "IMAGE",
		Flags: append(pipelineFlags(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output SVG path",
				Value:   "output.svg",
			},
			&cli.StringFlag{
				Name:    "preview",
				Aliases: []string{"p"},
				Usage:   "output preview PNG path",
				Value:   "preview.png",
			},
			&cli.Float64Flag{
				Name:  "square-mm",
				Usage: "engraved square size in millimeters",
				Value: 0.25,
			},
		),
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				cli.ShowCommandHelpAndExit(c, "convert", 1)
			}

			palette, err := loadPalette(c.String("palette"))
			if err != nil {
				return err
			}

			img, err := decodeImage(c.Args().Get(0))
			if err != nil {
				return err
			}

			result, err := mopix.Convert(img, palette, optionsFromFlags(c))
			if err != nil {
				return err
			}

			if err := writeSVGFile(c.String("output"), result, c.Float64("square-mm")); err != nil {
				return err
			}
			if err := writePreviewFile(c.String("preview"), result.Quantized); err != nil {
				return err
			}

			log.Print(result.Report.Summary())
			log.Println("SVG written to", c.String("output"))
			log.Println("Preview written to", c.String("preview"))
			return nil
		},
	}
}

// compareVariants is the configuration matrix the compare command runs over
// every input: the plain nearest-color baseline, then each kernel with the
// enhancement stages enabled.
func compareVariants() []mopix.Options {
	baseline := mopix.Options{DitherKernel: "none", SaturationStrength: 1}

	variants := []mopix.Options{baseline}
	for _, kernel := range []string{"none", "floyd-steinberg", "atkinson"} {
		opts := mopix.DefaultOptions()
		opts.DitherKernel = kernel
		variants = append(variants, opts)
	}
	return variants
}

func variantName(opts mopix.Options) string {
	if !opts.ApplyIlluminationNormalization && !opts.ApplySaturationEnhancement {
		return "baseline-" + opts.DitherKernel
	}
	return "enhanced-" + opts.DitherKernel
}

func compareCommand() *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Usage:     "Run the variant matrix over images and write all outputs",
		ArgsUsage: "IMAGE...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "out-dir",
				Usage: "directory for comparison outputs",
				Value: "comparison",
			},
			&cli.Float64Flag{
				Name:  "square-mm",
				Usage: "engraved square size in millimeters",
				Value: 0.25,
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "parallel conversions (0 = number of CPUs)",
			},
			&cli.StringFlag{
				Name:  "palette",
				Usage: "JSON palette file (defaults to the reference MOPA palette)",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				cli.ShowCommandHelpAndExit(c, "compare", 1)
			}

			palette, err := loadPalette(c.String("palette"))
			if err != nil {
				return err
			}

			outDir := c.String("out-dir")
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			var jobs []mopix.Job
			for _, path := range c.Args().Slice() {
				img, err := decodeImage(path)
				if err != nil {
					return err
				}
				base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				for _, opts := range compareVariants() {
					jobs = append(jobs, mopix.Job{
						Name:    base + "_" + variantName(opts),
						Image:   img,
						Options: opts,
					})
				}
			}

			results, err := mopix.ConvertAll(context.Background(), jobs, palette, c.Int("workers"))
			if err != nil {
				return err
			}

			for _, res := range results {
				svgPath := filepath.Join(outDir, res.Name+".svg")
				if err := writeSVGFile(svgPath, res.Result, c.Float64("square-mm")); err != nil {
					return err
				}
				if err := writePreviewFile(filepath.Join(outDir, res.Name+".png"), res.Result.Quantized); err != nil {
					return err
				}
				log.Printf("%s:\n%s", res.Name, res.Result.Report.Summary())
			}

			log.Printf("%d outputs written to %s", len(results), outDir)
			return nil
		},
	}
}

func patternsCommand() *cli.Command {
	return &cli.Command{
		Name:  "patterns",
		Usage: "Generate synthetic calibration images",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "out-dir",
				Usage: "directory for generated patterns",
				Value: "patterns",
			},
			&cli.StringFlag{
				Name:  "palette",
				Usage: "JSON palette file for the patch chart",
			},
		},
		Action: func(c *cli.Context) error {
			palette, err := loadPalette(c.String("palette"))
			if err != nil {
				return err
			}

			outDir := c.String("out-dir")
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			black := color.RGBA{A: 255}
			white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
			red := color.RGBA{R: 255, A: 255}
			blue := color.RGBA{B: 255, A: 255}

			patterns := map[string]image.Image{
				"gradient_gray":       testpattern.LinearGradient(512, 64, black, white, false),
				"gradient_red_blue":   testpattern.LinearGradient(512, 64, red, blue, false),
				"gradient_radial":     testpattern.RadialGradient(256, 256, white, black),
				"hue_sweep":           testpattern.HueSweep(512, 64, 1, 1),
				"saturation_ramp_red": testpattern.SaturationRamp(512, 64, 0, 1),
				"value_ramp_red":      testpattern.ValueRamp(512, 64, 0, 1),
				"checkerboard_2px":    testpattern.Checkerboard(256, 256, 2, red, blue),
				"palette_chart":       testpattern.PaletteChart(palette, 80, 5),
			}

			for name, img := range patterns {
				path := filepath.Join(outDir, name+".png")
				if err := writePNGFile(path, img); err != nil {
					return err
				}
				log.Println("Wrote", path)
			}
			return nil
		},
	}
}

func paletteCommand() *cli.Command {
	return &cli.Command{
		Name:      "palette",
		Usage:     "Derive a candidate device palette from a sample image",
		ArgsUsage: "IMAGE",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "colors",
				Usage: "number of palette entries",
				Value: 10,
			},
			&cli.StringFlag{
				Name:  "method",
				Usage: `derivation method: "mediancut", "kmeans" or "dominant"`,
				Value: "mediancut",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write the palette as JSON to this path",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				cli.ShowCommandHelpAndExit(c, "palette", 1)
			}

			method, err := palettegen.MethodByName(c.String("method"))
			if err != nil {
				return err
			}

			img, err := decodeImage(c.Args().Get(0))
			if err != nil {
				return err
			}

			palette, err := palettegen.Derive(img, c.Int("colors"), method)
			if err != nil {
				return err
			}

			for _, entry := range palette {
				fmt.Printf("%-10s %s\n", entry.Name, entry.Hex())
			}

			if path := c.String("output"); path != "" {
				if err := savePalette(path, palette); err != nil {
					return err
				}
				log.Println("Palette written to", path)
			}
			return nil
		},
	}
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

type paletteFileEntry struct {
	Name string `json:"name"`
	R    uint8  `json:"r"`
	G    uint8  `json:"g"`
	B    uint8  `json:"b"`
}

func loadPalette(path string) (mopix.Palette, error) {
	if path == "" {
		return mopix.DefaultPalette(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []paletteFileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("palette %s: %w", path, err)
	}

	palette := make(mopix.Palette, len(entries))
	for i, e := range entries {
		palette[i] = mopix.Entry{Name: e.Name, R: e.R, G: e.G, B: e.B}
	}

	return palette, palette.Validate()
}

func savePalette(path string, palette mopix.Palette) error {
	entries := make([]paletteFileEntry, len(palette))
	for i, e := range palette {
		entries[i] = paletteFileEntry{Name: e.Name, R: e.R, G: e.G, B: e.B}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func writeSVGFile(path string, result *mopix.Result, squareMM float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := mopix.WriteSVG(f, result.Raster, result.Palette, squareMM); err != nil {
		return err
	}
	return f.Close()
}

func writePreviewFile(path string, quantized *mopix.Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := mopix.WritePreview(f, quantized); err != nil {
		return err
	}
	return f.Close()
}

func writePNGFile(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return err
	}
	return f.Close()
}
