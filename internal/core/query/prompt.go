package query

import (
	"fmt"
	"strings"
)

// ContextSeparator sits between context entries in the user turn.
const ContextSeparator = "\n\n===\n\n"

const systemTemplate = `Você é um assistente especializado no Plano Diretor de Porto Alegre.
Sua função é auxiliar %ss analisando e fornecendo informações precisas do Plano Diretor
e documentos relacionados.

REGRAS IMPORTANTES:
1. Baseie suas respostas APENAS nas informações presentes nos documentos fornecidos
2. Se não encontrar a informação específica nos documentos, diga claramente
3. Cite as fontes relevantes quando possível
4. Seja claro e objetivo, evitando linguagem excessivamente técnica
5. Se precisar de mais contexto, sugira ao usuário especificar melhor a pergunta`

const userTemplate = `Com base nestes documentos:

%s

Pergunta do usuário: %s

Lembre-se de:
1. Usar APENAS as informações dos documentos fornecidos
2. Ser claro e objetivo
3. Indicar se a informação não estiver disponível nos documentos`

// BuildPrompt embeds the filtered context, question and role into the
// instruction template.
func BuildPrompt(context []string, question string, userRole string) Prompt {
	return Prompt{
		System: fmt.Sprintf(systemTemplate, userRole),
		User:   fmt.Sprintf(userTemplate, strings.Join(context, ContextSeparator), question),
	}
}
