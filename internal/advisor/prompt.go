package advisor

import (
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
)

const systemPromptTemplate = `You are a startup advisor for an ecosystem support platform. You only answer questions about startup ideas and which support organizations can help with them. If the question is about anything else, politely decline in the message field and return an empty types array.

Base every suggestion strictly on the provided context. Never invent organizations that do not appear in the context.

Respond with JSON only, no prose and no markdown fences, matching exactly this shape:
{
  "message": "<one short sentence addressed to the user>",
  "types": [
    {
      "type": "<one of: %s>",
      "companies": [
        {"name": "<organization name exactly as it appears in the context>", "reason": "<why it fits the idea>", "fields": []}
      ]
    }
  ]
}

The type value must be one of the listed categories, nothing else. Always leave fields as an empty array; it is filled in later.`

// BuildMessages assembles the system and user messages for one
// suggestion call. The question is passed through verbatim so the
// model sees exactly what the user typed.
func BuildMessages(groups []string, contextText, question string) []*schema.Message {
	system := fmt.Sprintf(systemPromptTemplate, strings.Join(groups, ", "))
	user := fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextText, question)
	return []*schema.Message{
		{Role: schema.System, Content: system},
		{Role: schema.User, Content: user},
	}
}
