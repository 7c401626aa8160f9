package backend

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrNoSources is returned when a chart configuration names no input files.
	ErrNoSources = errors.New("no data sources configured")
	// ErrInvalidWindow is returned for a negative moving window.
	ErrInvalidWindow = errors.New("moving window must be positive")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ChartConfig is the part of the configuration the chart pipeline consumes.
type ChartConfig struct {
	// XField selects the column used for x. Nil plots against the record index.
	XField *int `validate:"omitempty,min=0"`
	// YFields selects the plotted columns, one line per entry, in order.
	YFields []int `validate:"required,min=1,dive,min=0"`
	// Separator splits a line into fields.
	Separator string `validate:"required"`
	// MovingWindow enables the windowed sum when positive.
	MovingWindow int
	// Title is drawn in the top right corner when not empty.
	Title string
}

// Validate reports the first problem with c.
func (c ChartConfig) Validate() error {
	if c.MovingWindow < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidWindow, c.MovingWindow)
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid chart configuration: %w", err)
	}
	return nil
}
