package components

import (
	"tablebook/internal/infra/postgres"
	infraredis "tablebook/internal/infra/redis"
	"tablebook/internal/infra/uow"
	"tablebook/internal/pkg/config"
	"tablebook/internal/usecase/commands"
	"tablebook/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		// Write side goes through the unit of work; only the read side is
		// injected directly.
		uow.NewPostgresUoW,
		fx.Annotate(
			postgres.NewSettingsRepository,
			fx.As(new(queries.SettingsReader)),
		),
		fx.Annotate(
			postgres.NewHoursRepository,
			fx.As(new(queries.HoursReader)),
		),
		fx.Annotate(
			postgres.NewTableRepository,
			fx.As(new(queries.TableReader)),
		),
		fx.Annotate(
			postgres.NewBlockedTimeRepository,
			fx.As(new(queries.BlockedTimeReader)),
			fx.As(new(queries.BlockedTimeReadStore)),
		),
		fx.Annotate(
			postgres.NewReservationReadStore,
			fx.As(new(queries.ReservationReadStore)),
			fx.As(new(queries.BookingReader)),
		),
		fx.Annotate(
			NewAvailabilityCache,
			fx.As(new(queries.AvailabilityCache)),
			fx.As(new(commands.AvailabilityInvalidator)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) postgres.DBTX {
	return pool
}

func NewAvailabilityCache(client *redis.Client, cfg config.Config) *infraredis.AvailabilityCache {
	return infraredis.NewAvailabilityCache(client, cfg.Redis)
}
