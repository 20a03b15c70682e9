package prompts

import (
	"strings"

	"github.com/bagucv/bagbot-engine/pkg/llm"
)

// PayloadKind tells the answer prompt what the payload holds.
type PayloadKind int

const (
	// PayloadRows is a JSON array with at least one row.
	PayloadRows PayloadKind = iota
	// PayloadEmpty is the JSON array of a query that matched nothing.
	PayloadEmpty
	// PayloadRaw is model output that could not be turned into a safe query.
	PayloadRaw
	// PayloadRejected is model output for an operation other than a read.
	PayloadRejected
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadRows:
		return "rows"
	case PayloadEmpty:
		return "empty"
	case PayloadRaw:
		return "raw"
	case PayloadRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Instructions added for specific payload kinds. Tests match on them.
const (
	noResultsInstruction    = "No se obtuvieron resultados de la consulta SQL: indícale al usuario que no se encontraron registros en la biblioteca y ofrécele una información alternativa."
	notPermittedInstruction = "La operación solicitada no está permitida: indícale al usuario que solo puedes consultar el catálogo y que no puedes crear, modificar ni eliminar registros."
	rawPayloadInstruction   = "El contenido de <sql_response> no es un resultado de la base de datos sino texto sin procesar. No inventes registros a partir de él."
)

// BuildAnswerSynthesisPrompt asks the model to phrase payload as a reply to
// question. The instructions fix the output format: plain text, one record
// per line separated by <br>, no decoration.
func BuildAnswerSynthesisPrompt(question, payload string, kind PayloadKind) []llm.Message {
	var prompt strings.Builder

	prompt.WriteString("Eres un asistente bibliotecario. Dadas la pregunta del usuario y el json de la respuesta SQL de la base de datos, responde de manera clara y útil.\n")
	prompt.WriteString("Presenta cada registro del json como un ítem independiente separándolo con un salto de línea usando la etiqueta <br>.\n")
	prompt.WriteString("Usa texto plano.\n")
	prompt.WriteString("No uses asteriscos, viñetas ni listas numeradas. Evita decorar el texto.\n")
	prompt.WriteString("Si la consulta del usuario te pide eliminar o actualizar, indícale que no puedes realizar esta acción.\n")

	switch kind {
	case PayloadEmpty:
		prompt.WriteString(noResultsInstruction + "\n")
	case PayloadRejected:
		prompt.WriteString(notPermittedInstruction + "\n")
	case PayloadRaw:
		prompt.WriteString(rawPayloadInstruction + "\n")
	}

	var user strings.Builder
	user.WriteString("<user_question>\n")
	user.WriteString(question)
	user.WriteString("\n</user_question>\n")
	user.WriteString("<sql_response>\n")
	user.WriteString(payload)
	user.WriteString("\n</sql_response>")

	return []llm.Message{
		{Role: llm.RoleSystem, Content: prompt.String()},
		{Role: llm.RoleUser, Content: user.String()},
	}
}
