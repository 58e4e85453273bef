package worker

import (
	"context"
	"image"
)

// mockSegmenter - ручной мок внешней модели для тестов пакета
type mockSegmenter struct {
	segmentFn func(ctx context.Context, img image.Image) (*image.Gray, error)
}

func (m *mockSegmenter) Segment(ctx context.Context, img image.Image) (*image.Gray, error) {
	return m.segmentFn(ctx, img)
}
