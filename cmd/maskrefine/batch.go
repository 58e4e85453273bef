package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"syscall"

	"github.com/UnendingLoop/MaskRefiner/internal/model"
	"github.com/UnendingLoop/MaskRefiner/internal/refiner"
	"github.com/UnendingLoop/MaskRefiner/internal/worker"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	inputDir  string
	outputDir string
	workers   int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Refine every supported image in a directory",
	Long: `Process all png/jpg/webp files of a directory through independent
pipelines with a bounded worker pool. A failed file is logged and skipped,
the batch continues.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		paths, err := listImages(inputDir)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no supported images found in %q", inputDir)
		}

		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}

		bg, err := background()
		if err != nil {
			return err
		}

		batch := worker.NewBatch(
			refiner.New(log.Logger),
			segmenter(),
			pipelineOptions(),
			bg,
			outputDir,
			maxSize,
			log.Logger,
		)

		log.Info().Int("files", len(paths)).Int("workers", workers).Msg("Starting batch")
		return batch.Run(ctx, paths, workers)
	},
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if model.InImageExtMap[strings.ToLower(filepath.Ext(e.Name()))] {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func init() {
	batchCmd.Flags().StringVar(&inputDir, "input-dir", "", "directory with source images")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "output", "directory for result PNGs")
	batchCmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "parallel pipelines")
	registerPipelineFlags(batchCmd)
	_ = batchCmd.MarkFlagRequired("input-dir")

	rootCmd.AddCommand(batchCmd)
}
