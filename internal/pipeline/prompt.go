package pipeline

import "fmt"

// GenerationRequest is the full instruction sent to a provider.
type GenerationRequest string

const promptTemplate = "Generate 1 unique and creative username based on these keywords/themes: '%s'. " +
	"Keep it concise, single word if possible, and suitable for online use. " +
	"Return only the username, no extra text, numbering, or explanations."

// Build embeds the prompt verbatim in the fixed instruction template.
func Build(p Prompt) GenerationRequest {
	return GenerationRequest(fmt.Sprintf(promptTemplate, string(p)))
}
