package appointmentRepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"sonrisa/database"
	"sonrisa/models"
)

// AppointmentRepository is the persistence boundary for bookings.
//
// Insert is best-effort: a storage failure is logged and a synthetic pending
// appointment is returned instead of an error, so the customer-facing
// conversation never stalls on the database. Confirm returns (nil, nil) when
// the id does not exist and is idempotent for already-confirmed rows.
type AppointmentRepository interface {
	EnsureSchema(ctx context.Context) error
	Insert(ctx context.Context, name, phone, serviceType, price, dateTime string) (models.Appointment, error)
	Confirm(ctx context.Context, id int) (*models.Appointment, error)
	ListRecent(ctx context.Context, limit int) ([]models.Appointment, error)
}

type postgresAppointmentRepo struct {
	pool *pgxpool.Pool
}

// NewPostgresAppointmentRepo returns an AppointmentRepository backed by the
// global pool. A nil pool (database unreachable at boot) yields a repository
// permanently in degraded mode.
func NewPostgresAppointmentRepo() AppointmentRepository {
	return &postgresAppointmentRepo{pool: database.Pool}
}
