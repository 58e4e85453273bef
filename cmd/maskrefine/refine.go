package main

import (
	"context"
	"errors"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/UnendingLoop/MaskRefiner/internal/imgio"
	"github.com/UnendingLoop/MaskRefiner/internal/refiner"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	inputPath  string
	maskPath   string
	outputPath string
)

var errNoMaskSource = errors.New("no mask source: provide --mask, an input with alpha, or --rembg-url")

var refineCmd = &cobra.Command{
	Use:   "refine",
	Short: "Refine a single image and write the composed PNG",
	Long: `Refine one image. The raw mask comes from (in priority order):
an explicit --mask file, the alpha channel of the input itself, or a
remote segmentation server (--rembg-url / MASKREFINE_REMBG_URL).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		img, err := imgio.Open(inputPath)
		if err != nil {
			return err
		}
		if maxSize > 0 {
			img = imgio.FitWithin(img, maxSize)
		}

		mask, err := rawMask(ctx, img)
		if err != nil {
			return err
		}

		bg, err := background()
		if err != nil {
			return err
		}

		res, err := refiner.New(log.Logger).Refine(img, mask, pipelineOptions(), bg)
		if err != nil {
			return err
		}

		out := outputPath
		if out == "" {
			stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
			out = stem + "_nobg.png"
		}
		if err := imgio.SavePNG(res.Image, out); err != nil {
			return err
		}

		log.Info().Str("output", out).Msg("Done")
		return nil
	},
}

// rawMask - источник сырой маски: файл с маской, альфа исходника, либо
// внешняя модель сегментации
func rawMask(ctx context.Context, img image.Image) (*image.Gray, error) {
	if maskPath != "" {
		maskImg, err := imgio.Open(maskPath)
		if err != nil {
			return nil, err
		}
		return imgio.MaskFromImage(maskImg), nil
	}

	if alpha, err := imgio.AlphaFromImage(img); err == nil && imgio.HasUsefulAlpha(alpha) {
		return alpha, nil
	}

	seg := segmenter()
	if seg == nil {
		return nil, errNoMaskSource
	}
	return seg.Segment(ctx, img)
}

func init() {
	refineCmd.Flags().StringVarP(&inputPath, "input", "i", "", "input image (png/jpg/webp)")
	refineCmd.Flags().StringVarP(&maskPath, "mask", "m", "", "raw mask file (grayscale or alpha PNG); skips segmentation")
	refineCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output PNG path (default <input>_nobg.png)")
	registerPipelineFlags(refineCmd)
	_ = refineCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(refineCmd)
}
