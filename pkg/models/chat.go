package models

import (
	"fmt"
	"strings"
)

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one message of a chat exchange. Storing turns is the
// caller's responsibility.
type ConversationTurn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// ChatMode selects how a chat message is answered.
type ChatMode string

const (
	ChatModeLibraryInfo     ChatMode = "library_info"
	ChatModeResourceSearch  ChatMode = "resource_search"
	ChatModeRecommendations ChatMode = "recommendations"
	ChatModeContentCreation ChatMode = "content_creation"
	ChatModePDFSummary      ChatMode = "pdf_summary"
	ChatModeFreeQuery       ChatMode = "free_query"
)

// ChatModes lists every mode in menu order.
var ChatModes = []ChatMode{
	ChatModeLibraryInfo,
	ChatModeResourceSearch,
	ChatModeRecommendations,
	ChatModeContentCreation,
	ChatModePDFSummary,
	ChatModeFreeQuery,
}

var chatModeLabels = map[ChatMode]string{
	ChatModeLibraryInfo:     "📚 Información de la Biblioteca",
	ChatModeResourceSearch:  "📖 Buscar libros o recursos",
	ChatModeRecommendations: "🧠 Recomendaciones bibliográficas",
	ChatModeContentCreation: "📑 Crear informe o contenido",
	ChatModePDFSummary:      "📝 Resumir un recurso PDF",
	ChatModeFreeQuery:       "❓ Hacer una consulta libre",
}

var chatModeIntroductions = map[ChatMode]string{
	ChatModeLibraryInfo: "Indicame tus dudas institucionales sobre la Biblioteca Alonso Gamero por favor. " +
		"Ejemplo: Dirección, Horario, Normas, Servicios ofrecidos, Historia, entre otros.",
	ChatModeResourceSearch: "¿Buscas un libro o recurso en específico? Sé lo más específico posible, indicame el título, " +
		"autor, área, año o tema y reviso si está disponible en la Biblioteca Alonso Gamero. " +
		"Ejemplo: Libros de la editorial Springer.",
	ChatModeRecommendations: "Indicame sobre que tópico te gustaría mi recomendación. Sé lo más específico posible: " +
		"tema, autor, carrera o materia. ¡Así te puedo dar las mejores sugerencias!",
	ChatModeContentCreation: "¿Sobre qué necesitas escribir? Cuéntame el tema, para qué lo necesitas " +
		"(tarea, presentación, resumen, etc.) y cuánto debe abarcar.",
	ChatModePDFSummary: "Pega el texto de tu documento de hasta 5 páginas. Te entregaré un resumen.",
	ChatModeFreeQuery: "Puedes hacer cualquier pregunta relacionada con temas académicos, búsqueda de información, " +
		"recursos o apoyo en tus estudios.",
}

// ParseChatMode accepts either the stable identifier ("resource_search") or
// the display label shown on the chat buttons.
func ParseChatMode(s string) (ChatMode, error) {
	trimmed := strings.TrimSpace(s)
	for _, m := range ChatModes {
		if strings.EqualFold(trimmed, string(m)) || trimmed == chatModeLabels[m] {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown chat mode %q", s)
}

// Valid reports whether m is one of the known modes.
func (m ChatMode) Valid() bool {
	_, ok := chatModeLabels[m]
	return ok
}

// Label returns the display label for the mode.
func (m ChatMode) Label() string {
	return chatModeLabels[m]
}

// Introduction returns the text shown right after the user picks the mode.
func (m ChatMode) Introduction() string {
	intro, ok := chatModeIntroductions[m]
	if !ok {
		return ""
	}
	return fmt.Sprintf("Seleccionaste la opción <strong>%s</strong>, %s", m.Label(), intro)
}

// Greeting is prepended to the first assistant message of a conversation.
func Greeting(name string) string {
	hello := "👋 Hola"
	if first := strings.Fields(name); len(first) > 0 {
		hello += " " + first[0]
	}
	return hello + ", mi nombre es Bagbot y soy tu asistente de biblioteca virtual, " +
		"por favor sé lo más claro y específico posible. Estoy aquí para ayudarte,<br>¿Qué deseas hacer hoy? <br>"
}
