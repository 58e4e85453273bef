package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "maskrefine",
	Short: "Refine segmentation masks and compose transparent cut-outs",
	Long: `maskrefine post-processes raw alpha masks produced by background-removal
models (rembg/u2net/isnet/rmbg): morphological edge cleanup, feathering,
optional trimap-based alpha matting, then composition - transparent PNG or
a replacement background.

The segmentation model itself stays external: point --rembg-url at a running
rembg server, or supply a ready mask file with --mask.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().String("rembg-url", "", "base URL of a rembg-style segmentation server")
	rootCmd.PersistentFlags().String("model", "", "segmentation model name passed to the server (u2net, isnet-general-use, ...)")

	// энвы с префиксом MASKREFINE_ перекрывают дефолты флагов
	viper.SetEnvPrefix("MASKREFINE")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("rembg_url", rootCmd.PersistentFlags().Lookup("rembg-url"))
	_ = viper.BindPFlag("model", rootCmd.PersistentFlags().Lookup("model"))
}
