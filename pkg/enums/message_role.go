package enums

import "fmt"

// MessageRole describes the allowed values for the `role` column in chat_messages.
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

var validMessageRoles = []MessageRole{
	MessageRoleUser,
	MessageRoleAssistant,
}

// IsValid reports whether the value matches the canonical message role enum.
func (m MessageRole) IsValid() bool {
	for _, candidate := range validMessageRoles {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMessageRole converts the raw string to MessageRole.
func ParseMessageRole(value string) (MessageRole, error) {
	for _, candidate := range validMessageRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid message role %q", value)
}
