package timeline

import "github.com/okian/cutbeat/internal/domain/model"

// ReferenceColumns and ReferenceDirections describe the built-in three-lane chart.
var (
	ReferenceColumns = []int{0, 2, 1, 1, 0, 2, 0, 2, 1, 1, 1, 1, 0}

	ReferenceDirections = []model.Direction{
		model.LeftToRight, model.RightToLeft, model.TopToBottom, model.RightToLeft,
		model.LeftToRight, model.LeftToRight, model.LeftToRight, model.RightToLeft,
		model.LeftToRight, model.BottomToTop, model.BottomToTop, model.TopToBottom,
		model.BottomToTop,
	}
)

// Reference builds the built-in chart with the given options.
func Reference(opts ...Option) (*Timeline, error) {
	return Generate(ReferenceColumns, ReferenceDirections, opts...)
}
