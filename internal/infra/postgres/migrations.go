package postgres

import (
	"context"

	"tablebook/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaSQL is applied on startup. Every statement is idempotent so repeated
// boots against the same database are safe.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS reservation_settings (
    restaurant_id               UUID PRIMARY KEY,
    accepts_reservations        BOOLEAN      NOT NULL DEFAULT TRUE,
    min_party_size              INTEGER      NOT NULL DEFAULT 1,
    max_party_size              INTEGER      NOT NULL DEFAULT 20,
    reservation_duration_min    INTEGER      NOT NULL DEFAULT 120,
    advance_booking_days        INTEGER      NOT NULL DEFAULT 30,
    min_advance_hours           INTEGER      NOT NULL DEFAULT 2,
    buffer_minutes              INTEGER      NOT NULL DEFAULT 15,
    slot_interval_minutes       INTEGER      NOT NULL DEFAULT 30,
    cancellation_deadline_hours INTEGER      NOT NULL DEFAULT 24,
    require_confirmation        BOOLEAN      NOT NULL DEFAULT FALSE,
    auto_confirm_threshold      INTEGER      NOT NULL DEFAULT 4,
    send_reminder               BOOLEAN      NOT NULL DEFAULT TRUE,
    reminder_hours_before       INTEGER      NOT NULL DEFAULT 24,
    max_daily_reservations      INTEGER      NOT NULL DEFAULT 0,
    max_hourly_reservations     INTEGER      NOT NULL DEFAULT 0,
    updated_at                  TIMESTAMPTZ  NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS dining_tables (
    id            UUID PRIMARY KEY,
    restaurant_id UUID         NOT NULL,
    section_id    UUID,
    number        TEXT         NOT NULL,
    name          TEXT         NOT NULL DEFAULT '',
    capacity      INTEGER      NOT NULL,
    min_capacity  INTEGER      NOT NULL DEFAULT 1,
    status        TEXT         NOT NULL DEFAULT 'available',
    is_active     BOOLEAN      NOT NULL DEFAULT TRUE,
    created_at    TIMESTAMPTZ  NOT NULL DEFAULT now(),
    updated_at    TIMESTAMPTZ  NOT NULL DEFAULT now(),
    UNIQUE (restaurant_id, number)
);

CREATE INDEX IF NOT EXISTS idx_dining_tables_restaurant
    ON dining_tables (restaurant_id) WHERE is_active;

CREATE TABLE IF NOT EXISTS operating_hours (
    restaurant_id UUID        NOT NULL,
    day_of_week   INTEGER     NOT NULL CHECK (day_of_week BETWEEN 0 AND 6),
    open_minutes  INTEGER     NOT NULL,
    close_minutes INTEGER     NOT NULL,
    is_closed     BOOLEAN     NOT NULL DEFAULT FALSE,
    PRIMARY KEY (restaurant_id, day_of_week)
);

CREATE TABLE IF NOT EXISTS reservations (
    id                  UUID PRIMARY KEY,
    restaurant_id       UUID         NOT NULL,
    customer_id         UUID,
    guest_name          TEXT         NOT NULL,
    guest_email         TEXT         NOT NULL DEFAULT '',
    guest_phone         TEXT         NOT NULL,
    date                DATE         NOT NULL,
    time_minutes        INTEGER      NOT NULL,
    start_at            TIMESTAMPTZ  NOT NULL,
    party_size          INTEGER      NOT NULL,
    duration_min        INTEGER      NOT NULL,
    table_id            UUID REFERENCES dining_tables (id),
    status              TEXT         NOT NULL,
    source              TEXT         NOT NULL,
    confirmation_code   TEXT         NOT NULL UNIQUE,
    confirmed_at        TIMESTAMPTZ,
    confirmed_by        UUID,
    cancelled_at        TIMESTAMPTZ,
    cancelled_by        UUID,
    cancellation_reason TEXT         NOT NULL DEFAULT '',
    seated_at           TIMESTAMPTZ,
    completed_at        TIMESTAMPTZ,
    reminder_sent       BOOLEAN      NOT NULL DEFAULT FALSE,
    reminder_sent_at    TIMESTAMPTZ,
    special_requests    TEXT         NOT NULL DEFAULT '',
    internal_notes      TEXT         NOT NULL DEFAULT '',
    created_at          TIMESTAMPTZ  NOT NULL DEFAULT now(),
    updated_at          TIMESTAMPTZ  NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_reservations_restaurant_start
    ON reservations (restaurant_id, start_at);
CREATE INDEX IF NOT EXISTS idx_reservations_restaurant_status
    ON reservations (restaurant_id, status);

CREATE TABLE IF NOT EXISTS reservation_history (
    id              UUID PRIMARY KEY,
    reservation_id  UUID        NOT NULL REFERENCES reservations (id) ON DELETE CASCADE,
    previous_status TEXT        NOT NULL DEFAULT '',
    new_status      TEXT        NOT NULL,
    changed_by      UUID,
    notes           TEXT        NOT NULL DEFAULT '',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_reservation_history_reservation
    ON reservation_history (reservation_id, created_at);

CREATE TABLE IF NOT EXISTS blocked_times (
    id                 UUID PRIMARY KEY,
    restaurant_id      UUID        NOT NULL,
    start_at           TIMESTAMPTZ NOT NULL,
    end_at             TIMESTAMPTZ NOT NULL,
    reason             TEXT        NOT NULL DEFAULT 'other',
    description        TEXT        NOT NULL DEFAULT '',
    created_by         UUID,
    is_recurring       BOOLEAN     NOT NULL DEFAULT FALSE,
    recurrence_pattern JSONB,
    created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
    CHECK (start_at < end_at)
);

CREATE INDEX IF NOT EXISTS idx_blocked_times_restaurant_window
    ON blocked_times (restaurant_id, start_at, end_at);

CREATE TABLE IF NOT EXISTS blocked_time_tables (
    blocked_time_id UUID NOT NULL REFERENCES blocked_times (id) ON DELETE CASCADE,
    table_id        UUID NOT NULL REFERENCES dining_tables (id) ON DELETE CASCADE,
    PRIMARY KEY (blocked_time_id, table_id)
);
`

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return errs.Wrap(err, "failed to apply schema")
	}
	return nil
}
