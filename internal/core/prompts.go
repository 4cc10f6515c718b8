package core

// prompts.go holds the user-facing Spanish strings for the chat replies.
// Keeping them in one file makes them easy to tweak without touching the
// orchestration logic.

const (
	// Tier headers prefixed to every reply.
	headerUrgent      = "ATENCIÓN URGENTE"
	headerAppointment = "Necesitas atención médica"
	headerSelfCare    = "Puedes cuidarte en casa"

	// Tier closing instructions appended after the advice list.
	closingUrgent      = "Si tienes una emergencia médica, llama inmediatamente al 123 o ve al hospital más cercano."
	closingAppointment = "Te recomiendo programar una cita médica pronto."
	closingSelfCare    = "Si los síntomas empeoran, consulta a un médico."

	// enrichmentHeader introduces the remote-completion text when the
	// enrichment call succeeds.
	enrichmentHeader = "Análisis adicional con IA:"

	// apologyMessage is returned when persisting the patient's message
	// fails even after the retry.
	apologyMessage = "Lo sentimos, tuvimos un problema procesando tu mensaje. Por favor inténtalo de nuevo en unos minutos."
)
