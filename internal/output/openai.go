package output

import (
	"github.com/openai/openai-go"

	"github.com/mark3labs/promptgen/prompt"
)

// ToOpenAI converts rendered messages to OpenAI chat completion parameters.
func ToOpenAI(messages []prompt.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case prompt.RoleSystem:
			result = append(result, openai.SystemMessage(msg.Content))
		case prompt.RoleUser:
			result = append(result, openai.UserMessage(msg.Content))
		case prompt.RoleAssistant:
			result = append(result, openai.AssistantMessage(msg.Content))
		}
	}
	return result
}
