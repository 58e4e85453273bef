// Package worker contains the batch runner: it feeds image files through
// independent refinement pipelines with bounded concurrency.
package worker

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/UnendingLoop/MaskRefiner/internal/imgio"
	"github.com/UnendingLoop/MaskRefiner/internal/model"
	"github.com/UnendingLoop/MaskRefiner/internal/refiner"
	"github.com/UnendingLoop/MaskRefiner/internal/segment"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Batch runs the same pipeline over many files. Pipelines are independent
// and share no mutable state, so jobs simply fan out over a channel - the
// pool size bounds memory (each job allocates a few mask-sized buffers).
type Batch struct {
	refiner   *refiner.Refiner
	segmenter segment.Segmenter
	opts      model.RefinementOptions
	bg        *model.Background
	outDir    string
	maxSize   int
	log       zerolog.Logger
}

func NewBatch(ref *refiner.Refiner, seg segment.Segmenter, opts model.RefinementOptions, bg *model.Background, outDir string, maxSize int, log zerolog.Logger) *Batch {
	return &Batch{
		refiner:   ref,
		segmenter: seg,
		opts:      opts,
		bg:        bg,
		outDir:    outDir,
		maxSize:   maxSize,
		log:       log,
	}
}

// Run processes the files with the given number of workers. A failed file is
// logged and counted but does not stop the batch; ctx cancellation does.
func (b *Batch) Run(ctx context.Context, paths []string, workers int) error {
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan string)
	var wg sync.WaitGroup
	var failed atomic.Int64

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case path, ok := <-jobs:
					if !ok {
						return
					}
					if err := b.processFile(ctx, path); err != nil {
						failed.Add(1)
						b.log.Error().Err(err).Str("file", path).Msg("Failed to process file")
					}
				}
			}
		}()
	}

	// раздаем задачи, на отмене контекста просто перестаем кормить воркеров
feed:
	for _, p := range paths {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- p:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d files failed", n, len(paths))
	}
	return nil
}

func (b *Batch) processFile(ctx context.Context, path string) error {
	jobID := uuid.New()
	logger := b.log.With().Str("job_id", jobID.String()).Str("file", path).Logger()

	img, err := imgio.Open(path)
	if err != nil {
		return fmt.Errorf("load source: %w", err)
	}
	if b.maxSize > 0 {
		img = imgio.FitWithin(img, b.maxSize)
	}

	mask, err := b.rawMask(ctx, img)
	if err != nil {
		return fmt.Errorf("obtain raw mask: %w", err)
	}

	res, err := b.refiner.Refine(img, mask, b.opts, b.bg)
	if err != nil {
		return fmt.Errorf("refine: %w", err)
	}

	out := b.outputPath(path)
	if err := imgio.SavePNG(res.Image, out); err != nil {
		return fmt.Errorf("save result: %w", err)
	}

	logger.Info().Str("output", out).Msg("File processed")
	return nil
}

// rawMask - если у исходника уже есть осмысленная альфа, считаем что
// сегментация была сделана раньше; иначе зовем внешнюю модель
func (b *Batch) rawMask(ctx context.Context, img image.Image) (*image.Gray, error) {
	if alpha, err := imgio.AlphaFromImage(img); err == nil && imgio.HasUsefulAlpha(alpha) {
		return alpha, nil
	}

	if b.segmenter == nil {
		return nil, errors.New("source has no alpha channel and no segmentation endpoint is configured")
	}
	return b.segmenter.Segment(ctx, img)
}

func (b *Batch) outputPath(srcPath string) string {
	base := filepath.Base(srcPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(b.outDir, stem+"_nobg.png")
}
