package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// systemInstruction fixes the assistant's role and the tier definitions the
// enrichment must respect. The %s slot carries the scope hint.
const systemInstruction = `Eres un asistente médico para zonas rurales. Tu trabajo es:

1. EVALUAR síntomas y clasificar en:
   - URGENTE: Requiere atención inmediata (dolor pecho, dificultad respirar, sangrado abundante)
   - CITA: Necesita evaluación médica (fiebre alta, dolor intenso persistente)
   - AUTOCUIDADO: Se puede manejar en casa (síntomas leves)

2. DAR recomendaciones claras y específicas
3. SER empático y usar lenguaje simple
4. INCLUIR cuándo buscar ayuda inmediata

Contexto: %s

Responde de forma concisa y práctica. Máximo %d palabras.`

const enrichMaxTokens = 200

// OpenAIEnricher is the direct-mode adapter: it calls the chat-completion
// API itself.
type OpenAIEnricher struct {
	client *openai.Client
	model  string
}

// NewOpenAIEnricher constructs a direct-mode enricher. An empty model falls
// back to gpt-3.5-turbo.
func NewOpenAIEnricher(apiKey, model string) *OpenAIEnricher {
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	return &OpenAIEnricher{client: openai.NewClient(apiKey), model: model}
}

func (e *OpenAIEnricher) Enrich(ctx context.Context, symptoms, scope string) (string, error) {
	if scope == "" {
		scope = "Consulta médica general"
	}
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		MaxTokens:   enrichMaxTokens,
		Temperature: 0.7,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(systemInstruction, scope, enrichMaxTokens),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: "Analiza estos síntomas y proporciona orientación médica: " + symptoms,
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("llm: completion response has no content")
	}
	return resp.Choices[0].Message.Content, nil
}
