package prompts

import "github.com/bagucv/bagbot-engine/pkg/llm"

// SummaryTemperature is the sampling temperature for document summaries.
const SummaryTemperature = 0.7

const summaryInstructions = "Eres un asistente que resume textos largos de forma clara y concisa, que incluye todas las ideas principales, pero sin exceder 800 palabras. " +
	"Evita usar asteriscos (*) para resaltar texto o crear listas. Usa texto plano y saltos de línea únicamente con \\n para separar los elementos o párrafos y mejorar la legibilidad. " +
	"No agregues información que no esté en el texto que te envió el usuario. " +
	"Agrégale un título como primera línea."

// BuildSummaryPrompt asks for a titled plain-text summary of text.
func BuildSummaryPrompt(text string) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: summaryInstructions},
		{Role: llm.RoleUser, Content: text},
	}
}
