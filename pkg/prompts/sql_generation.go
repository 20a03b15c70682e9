// Package prompts builds the message lists sent to the completion API.
package prompts

import (
	"fmt"
	"strings"

	"github.com/bagucv/bagbot-engine/pkg/llm"
	"github.com/bagucv/bagbot-engine/pkg/models"
)

// RowLimit is the LIMIT the model is told to append to every query.
const RowLimit = 15

// sqlExample is the worked example shown to the model. It must stay valid
// against recursos_libros.
const sqlExample = "SELECT * FROM recursos_libros WHERE UPPER(UNACCENT(autor)) LIKE UPPER(UNACCENT('%Lopez%')) LIMIT 15"

// BuildSQLGenerationPrompt asks the model to translate question into a single
// SELECT over the described tables, returned as a JSON object with the key
// "sql_query".
func BuildSQLGenerationPrompt(schema *models.SchemaInfo, question string) []llm.Message {
	var prompt strings.Builder

	prompt.WriteString("Con el siguiente esquema de base de datos, escribe una consulta SQL que retorne la tabla en la cual se debe buscar la información requerida.\n")
	prompt.WriteString("Retorna la consulta SQL en una estructura JSON con la clave \"sql_query\".\n\n")

	prompt.WriteString("Condiciones:\n")
	prompt.WriteString("- Solo puedes hacer consultas del tipo SELECT. Si el usuario solicita una acción diferente, debes responder que no está permitido.\n")
	prompt.WriteString("- Nunca modifiques el nombre de la tabla ni le apliques funciones como UPPER o UNACCENT.\n")
	prompt.WriteString("- Utiliza LIKE para buscar el valor con comodines %, por ejemplo ('%Lopez%').\n")
	prompt.WriteString("- Para hacer búsquedas insensibles a mayúsculas, minúsculas o acentos, aplica UPPER(UNACCENT(...)) solo a las columnas dentro de la cláusula WHERE y al valor de búsqueda.\n")
	fmt.Fprintf(&prompt, "- La consulta debe retornar como máximo %d filas, por lo tanto, incluye LIMIT %d al final.\n", RowLimit, RowLimit)
	prompt.WriteString("- No incluyas punto y coma (;) al final de la consulta.\n")
	prompt.WriteString("- Retorna únicamente el objeto JSON, como en el siguiente ejemplo.\n\n")

	prompt.WriteString("<example>\n")
	prompt.WriteString("{\n")
	fmt.Fprintf(&prompt, "    \"sql_query\": \"%s\",\n", sqlExample)
	prompt.WriteString("    \"original_query\": \"Enséñame todos los libros del autor Lopez.\"\n")
	prompt.WriteString("}\n")
	prompt.WriteString("</example>\n\n")

	prompt.WriteString("<schema>\n")
	prompt.WriteString(schema.Text())
	prompt.WriteString("\n</schema>")

	return []llm.Message{
		{Role: llm.RoleSystem, Content: prompt.String()},
		{Role: llm.RoleUser, Content: question},
	}
}
