package triage

// lexicon.go holds the static phrase lists the classifier matches against.
// The lists are ordered by priority: earlier phrases name the symptom in the
// explanation first. Matching is substring-based over lower-cased input, so
// every phrase here must be lower case.

// emergencyLexicon lists phrases that demand immediate attention. Any hit
// classifies the report as urgent regardless of what else matched.
var emergencyLexicon = []string{
	// chest pain variants
	"dolor pecho", "dolor de pecho", "dolor en el pecho", "me duele el pecho",
	"duele el pecho", "pecho duele", "opresión pecho", "opresión en el pecho",
	"dolor fuerte pecho",

	// breathing trouble
	"no puedo respirar", "dificultad respirar", "dificultad para respirar",
	"falta de aire", "no respiro bien", "respiración dificultosa", "ahogo", "sofoco",

	// bleeding
	"sangra mucho", "sangrado abundante", "sangrado profuso", "hemorragia",
	"vómitos con sangre", "sangre en las heces", "heces negras",

	// neurological emergencies
	"pérdida de conciencia", "pérdida del conocimiento", "perdí el conocimiento",
	"desmayo", "me desmayé", "desvanecimiento", "convulsión", "convulsiones",
	"parálisis", "no puedo mover", "pérdida de sensibilidad",

	// accidents and wounds
	"accidente", "herida grave", "herida profunda", "corte profundo",
	"golpe fuerte", "traumatismo", "caída grave",

	// other urgent pain
	"dolor abdominal intenso", "dolor abdominal severo", "dolor de estómago fuerte",
	"dolor de cabeza insoportable", "dolor de cabeza muy fuerte",
	"dolor insoportable", "dolor extremo", "dolor muy fuerte", "dolor agudo",
}

// appointmentLexicon lists phrases that call for a medical visit within a
// day or two. Checked only when nothing in the emergency lexicon matched.
var appointmentLexicon = []string{
	// fever
	"fiebre alta", "fiebre persistente", "tengo fiebre", "fiebre",
	"temperatura alta", "calentura",

	// headache
	"dolor de cabeza fuerte", "dolor de cabeza persistente", "me duele la cabeza",
	"duele la cabeza", "dolor de cabeza", "dolor cabeza", "migraña", "jaqueca",

	// digestive trouble
	"náuseas", "nausea", "náusea", "nauseas", "vómitos frecuentes", "vómito",
	"vomito", "vomité", "dolor de estómago", "dolor estómago", "dolor abdominal",
	"dolor barriga", "diarrea persistente", "diarrea",

	// other symptoms worth a visit
	"mareos frecuentes", "mareos", "mareo", "vértigo",
	"fatiga extrema", "cansancio extremo", "fatiga", "debilidad",
	"tos persistente", "tos seca", "tos fuerte", "tos",
	"dolor de espalda", "dolor lumbar",
	"pérdida de peso", "pérdida de apetito",
	"visión borrosa", "problemas de visión", "zumbido en los oídos",
	"dolor persistente", "dolor constante", "dolor fuerte", "dolor intenso",
	"dolor moderado",
}

// intensityWords are modifiers that raise confidence and, on their own,
// promote an otherwise unmatched report to the appointment tier.
var intensityWords = []string{
	"muy", "mucho", "intenso", "severo", "grave", "insoportable", "extremo",
}
