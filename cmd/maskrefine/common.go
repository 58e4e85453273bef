package main

import (
	"github.com/UnendingLoop/MaskRefiner/internal/imgio"
	"github.com/UnendingLoop/MaskRefiner/internal/model"
	"github.com/UnendingLoop/MaskRefiner/internal/segment"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Общие флаги обработки - одни и те же для refine и batch
var (
	noEnhance     bool
	kernelSize    int
	featherRadius int
	alphaMatting  bool
	removeSpill   bool
	bgColor       string
	bgImage       string
	maxSize       int
)

func registerPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&noEnhance, "no-enhance", false, "skip morphological edge enhancement")
	cmd.Flags().IntVar(&kernelSize, "kernel", model.DefaultKernel, "morphology kernel size (odd, 1-15)")
	cmd.Flags().IntVar(&featherRadius, "feather", model.DefaultFeather, "edge feathering radius (0-10, 0 = off)")
	cmd.Flags().BoolVar(&alphaMatting, "matting", false, "apply trimap-based alpha matting")
	cmd.Flags().BoolVar(&removeSpill, "spill", false, "suppress background color spill on transparent output")
	cmd.Flags().StringVar(&bgColor, "bg-color", "", "replacement background color, hex like #1a2b3c")
	cmd.Flags().StringVar(&bgImage, "bg-image", "", "replacement background image path")
	cmd.Flags().IntVar(&maxSize, "max-size", 1024, "cap the longest image side before processing (0 = off)")
}

func pipelineOptions() model.RefinementOptions {
	return model.RefinementOptions{
		EnhanceEdges:  !noEnhance,
		KernelSize:    kernelSize,
		FeatherRadius: featherRadius,
		AlphaMatting:  alphaMatting,
		RemoveSpill:   removeSpill,
	}
}

func background() (*model.Background, error) {
	return imgio.ParseBackground(bgColor, bgImage)
}

// segmenter returns the remote client when an endpoint is configured,
// nil otherwise
func segmenter() segment.Segmenter {
	url := viper.GetString("rembg_url")
	if url == "" {
		return nil
	}
	return segment.NewRembgClient(url, viper.GetString("model"), log.Logger)
}
