package bootstrap

import (
	"time"

	"tablebook/internal/pkg/config"

	"go.uber.org/fx"
)

// LocationModule resolves the booking timezone once; dates and times of day
// from callers are interpreted in this location everywhere.
var LocationModule = fx.Module("location",
	fx.Provide(
		NewLocation,
	),
)

func NewLocation(cfg config.Config) (*time.Location, error) {
	return cfg.Booking.Location()
}
