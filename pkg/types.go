package pkg

import "time"

// TriageLevel is the urgency tier assigned to a symptom report.
type TriageLevel string

const (
	LevelUrgent      TriageLevel = "urgente"
	LevelAppointment TriageLevel = "cita"
	LevelSelfCare    TriageLevel = "autocuidado"
)

// Sender describes who authored a message. There are only two roles:
// the patient ("user") and the assistant ("bot").
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// ConversationStatus marks whether a conversation still accepts turns.
type ConversationStatus string

const (
	StatusOpen   ConversationStatus = "abierta"
	StatusClosed ConversationStatus = "cerrada"
)

// User is a patient profile keyed by phone number. The name defaults to
// the last digits of the phone when the patient does not provide one.
type User struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"`
	Name      string    `json:"name"`
	Region    string    `json:"region,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Conversation groups the messages of one consultation. A user has at
// most one open conversation at a time; closing it is an explicit action.
type Conversation struct {
	ID        string             `json:"id"`
	UserID    string             `json:"user_id"`
	Status    ConversationStatus `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
}

// Message is one chat message in a conversation. Messages are append-only
// and ordered by creation time.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Sender         Sender    `json:"sender"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// Verdict is the outcome of classifying one symptom report: a tier, a
// deterministic confidence in [0,1], an explanation naming the matched
// symptoms, and an ordered advice list.
type Verdict struct {
	Level       TriageLevel `json:"level"`
	Confidence  float64     `json:"confidence"`
	Explanation string      `json:"explanation"`
	Advice      []string    `json:"advice"`
}

// TriageResult is a persisted Verdict linked to a conversation turn. Only
// verdicts whose confidence exceeds the configured threshold are stored.
type TriageResult struct {
	ID             string      `json:"id"`
	ConversationID string      `json:"conversation_id"`
	Level          TriageLevel `json:"level"`
	Confidence     float64     `json:"confidence"`
	Explanation    string      `json:"explanation"`
	Advice         []string    `json:"advice"`
	CreatedAt      time.Time   `json:"created_at"`
}

// StartSessionRequest opens or resumes a consultation for a phone number.
type StartSessionRequest struct {
	Phone string `json:"phone"`
	Name  string `json:"name,omitempty"`
}

// StartSessionResponse returns the resolved user and their open conversation.
type StartSessionResponse struct {
	User         User         `json:"user"`
	Conversation Conversation `json:"conversation"`
}

// ChatRequest represents a request to send a message from the patient.
type ChatRequest struct {
	Content string `json:"content"`
}

// ChatResponse contains the bot's reply and the triage verdict for the turn.
type ChatResponse struct {
	Reply  string  `json:"reply"`
	Triage Verdict `json:"triage"`
}
