package booking

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	appointmentRepo "sonrisa/database/repository/appointment"
	"sonrisa/models"
	"sonrisa/services/notification"
	syncbridge "sonrisa/services/sync"
)

// ConfirmationService finalizes pending appointments.
type ConfirmationService interface {
	ConfirmAppointment(ctx context.Context, id int) models.ConfirmationResult
}

// DefaultConfirmationService implements ConfirmationService. The database
// status change is the transaction; notifying the customer and announcing
// the confirmation on the bridge are best-effort side channels.
type DefaultConfirmationService struct {
	Repo     appointmentRepo.AppointmentRepository
	Notifier notification.MessageSender
	Bridge   syncbridge.Bridge
	Logger   *zap.Logger
}

// ConfirmAppointment confirms the appointment with the given id. Safe to
// call concurrently; re-confirming an already confirmed appointment is
// idempotent through the repository.
func (s *DefaultConfirmationService) ConfirmAppointment(ctx context.Context, id int) models.ConfirmationResult {
	appt, err := s.Repo.Confirm(ctx, id)
	if err != nil {
		s.Logger.Error("failed to confirm appointment", zap.Int("id", id), zap.Error(err))
		return models.ConfirmationResult{Success: false, AppointmentID: id, Message: "Error al confirmar la cita"}
	}
	if appt == nil {
		s.Logger.Warn("confirmation requested for unknown appointment", zap.Int("id", id))
		return models.ConfirmationResult{Success: false, AppointmentID: id, Message: "Error al confirmar la cita"}
	}

	if err := s.Notifier.SendText(ctx, notification.Address(appt.PatientPhone), confirmationText(appt)); err != nil {
		// The confirmation already happened in the database; a failed
		// customer notification does not undo it.
		s.Logger.Error("failed to notify customer of confirmation",
			zap.Int("id", id), zap.String("phone", appt.PatientPhone), zap.Error(err))
	}

	s.Bridge.AppointmentConfirmed(*appt)

	s.Logger.Info("appointment confirmed", zap.Int("id", appt.ID), zap.String("patient", appt.PatientName))
	return models.ConfirmationResult{Success: true, AppointmentID: appt.ID, Message: "Cita confirmada exitosamente"}
}

// confirmationText is the chat message sent to the customer once their
// appointment is confirmed.
func confirmationText(appt *models.Appointment) string {
	return fmt.Sprintf("✅ *Confirmación de Cita*\n\n"+
		"Tu cita ha sido confirmada:\n\n"+
		"• Servicio: %s\n"+
		"• Fecha y hora: %s\n"+
		"• Precio: %s\n\n"+
		"¡Te esperamos! 🦷",
		appt.ServiceType, appt.AppointmentDate, appt.ServicePrice)
}
