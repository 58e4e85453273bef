// Package refiner provides business-logic of the app: it drives a raw
// segmentation mask through the refinement stages and composes the result.
package refiner

import (
	"fmt"
	"image"

	"github.com/UnendingLoop/MaskRefiner/internal/maskproc"
	"github.com/UnendingLoop/MaskRefiner/internal/model"
	"github.com/rs/zerolog"
)

// Refiner is a stateless pipeline: rawMask -> [enhance] -> [feather] ->
// [matte] -> composite. Stages are optional per options but the order is
// fixed - feathering a noisy mask would blur the noise into soft edges,
// and matting an un-enhanced mask misclassifies the trimap boundary.
// Safe for concurrent use, every call works on its own allocations.
type Refiner struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Refiner {
	return &Refiner{log: log}
}

// RefineMask runs the mask stages only, without composition. Inputs are
// validated once here; the stages assume ranges are already checked.
func (r *Refiner) RefineMask(img image.Image, mask *image.Gray, opts model.RefinementOptions) (*image.Gray, error) {
	if img == nil {
		return nil, model.ErrEmptySource
	}
	if mask == nil {
		return nil, model.ErrEmptyMask
	}
	if img.Bounds().Dx() != mask.Bounds().Dx() || img.Bounds().Dy() != mask.Bounds().Dy() {
		return nil, model.ErrDimensionMismatch
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var err error
	// этапы идут строго в этом порядке: чистка -> смягчение -> матирование
	if opts.EnhanceEdges {
		mask, err = maskproc.EnhanceEdges(mask, opts.KernelSize)
		if err != nil {
			return nil, fmt.Errorf("enhance edges: %w", err)
		}
		r.log.Debug().Int("kernel", opts.KernelSize).Msg("Edges enhanced")
	}

	if opts.FeatherRadius > 0 {
		mask, err = maskproc.Feather(mask, opts.FeatherRadius)
		if err != nil {
			return nil, fmt.Errorf("feather: %w", err)
		}
		r.log.Debug().Int("radius", opts.FeatherRadius).Msg("Mask feathered")
	}

	if opts.AlphaMatting {
		mask, err = maskproc.AlphaMatte(img, mask)
		if err != nil {
			return nil, fmt.Errorf("alpha matte: %w", err)
		}
		r.log.Debug().Msg("Alpha matting applied")
	}

	return mask, nil
}

// Refine is the full pipeline: refined mask plus the composed output image.
// With a nil background the output is transparent; spill removal only makes
// sense there - against a real background the blend handles the rim itself.
func (r *Refiner) Refine(img image.Image, mask *image.Gray, opts model.RefinementOptions, bg *model.Background) (*model.CompositeResult, error) {
	refined, err := r.RefineMask(img, mask, opts)
	if err != nil {
		return nil, err
	}

	res, err := maskproc.Composite(img, refined, bg)
	if err != nil {
		return nil, fmt.Errorf("composite: %w", err)
	}

	transparent := bg == nil || (bg.Image == nil && bg.Color == nil)
	if opts.RemoveSpill && transparent {
		res.Image = maskproc.RemoveColorSpill(res.Image)
		r.log.Debug().Msg("Color spill removed")
	}

	return res, nil
}
