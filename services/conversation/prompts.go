package conversation

import (
	"fmt"
	"strings"

	"sonrisa/models"
)

const (
	msgWelcome = "Hola, bienvenido al *Chatbot* de Sonrisa Perfecta 👋"

	msgInvalidOption  = "❌ Opción no válida. Por favor, selecciona un número del 1 al 4."
	msgInvalidConfirm = "❌ Respuesta no válida. Por favor, escribe *sí* para confirmar o *no* para elegir otro servicio."
	msgAskName        = "Por favor, indícanos tu nombre y apellido"
	msgInvalidName    = "❌ Por favor, ingresa un nombre válido (mínimo 3 letras)."
	msgAskDateTime    = "📅 Por favor, indica la fecha y hora en la que prefieres asistir.\n\n" +
		"Formato: *dd/mm/aaaa hh:mm*\n" +
		"Ejemplo: *15/12/2024 14:30*"
	msgInvalidDateTime = "❌ Formato incorrecto. Por favor, usa el formato: *dd/mm/aaaa hh:mm*\n" +
		"Ejemplo: *15/12/2024 14:30*"
	msgRestart  = "❌ Ocurrió un error. Por favor, inicia el proceso nuevamente escribiendo *hola*."
	msgThanks   = "De nada, ¡es un placer atenderte!"
	msgFallback = "Lo siento, no entendí. Escribe *hola* para comenzar."

	msgNoHistory = "No hay citas registradas aún."
)

// menuMessage renders the welcome menu from the service catalog.
func menuMessage() string {
	var b strings.Builder
	b.WriteString("Te damos la bienvenida a nuestra clínica odontológica.\n")
	b.WriteString("Por favor, indícanos el motivo de tu contacto:\n")
	for _, opt := range Catalog {
		fmt.Fprintf(&b, "\n*%s* %s - %s", opt.Digit, opt.Description, opt.Price)
	}
	return b.String()
}

// confirmMessage asks the customer to confirm the chosen service.
func confirmMessage(opt ServiceOption) string {
	return fmt.Sprintf("💵 *Precio del servicio:* %s\n\n"+
		"¿Deseas confirmar tu cita para %s? Responde con *sí* para confirmar o *no* para elegir otro servicio.",
		opt.Price, opt.Description)
}

// summaryMessage closes a completed booking conversation.
func summaryMessage(name, service, price, dateTime string) string {
	return fmt.Sprintf("✅ ¡Perfecto! Hemos registrado tu información:\n\n"+
		"• Nombre: %s\n"+
		"• Servicio: %s\n"+
		"• Precio: %s\n"+
		"• Fecha y hora: %s\n\n"+
		"Un asesor se pondrá en contacto contigo para confirmar tu cita. ¡Gracias!",
		name, service, price, dateTime)
}

// historyMessage renders the appointment report for the historial command.
func historyMessage(appointments []models.Appointment) string {
	if len(appointments) == 0 {
		return msgNoHistory
	}
	var b strings.Builder
	b.WriteString("📊 Historial de Citas:\n\n")
	for i, appt := range appointments {
		fmt.Fprintf(&b, "📍 Cita %d:\n", i+1)
		fmt.Fprintf(&b, "   👤 Nombre: %s\n", appt.PatientName)
		fmt.Fprintf(&b, "   📞 Teléfono: %s\n", appt.PatientPhone)
		fmt.Fprintf(&b, "   🏥 Servicio: %s\n", appt.ServiceType)
		fmt.Fprintf(&b, "   💵 Precio: %s\n", appt.ServicePrice)
		fmt.Fprintf(&b, "   📅 Fecha: %s\n", appt.AppointmentDate)
		fmt.Fprintf(&b, "   ⏰ Registrado: %s\n\n", appt.CreatedAt.Format("02/01/2006 15:04"))
	}
	return b.String()
}
