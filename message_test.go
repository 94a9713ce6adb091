package aigate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleConstants(t *testing.T) {
	assert.Equal(t, Role("user"), RoleUser)
	assert.Equal(t, Role("assistant"), RoleAssistant)
	assert.Equal(t, Role("system"), RoleSystem)
}

func TestMessageConstructors(t *testing.T) {
	assert.Equal(t, Message{Role: RoleSystem, Content: "s"}, SystemMessage("s"))
	assert.Equal(t, Message{Role: RoleUser, Content: "u"}, UserMessage("u"))
	assert.Equal(t, Message{Role: RoleAssistant, Content: "a"}, AssistantMessage("a"))
}

func TestOrderMessages(t *testing.T) {
	tests := []struct {
		name     string
		input    []Message
		expected []Message
	}{
		{
			name:     "empty",
			input:    nil,
			expected: []Message{},
		},
		{
			name:     "system already first",
			input:    []Message{SystemMessage("s"), UserMessage("u")},
			expected: []Message{SystemMessage("s"), UserMessage("u")},
		},
		{
			name:     "system hoisted from the end",
			input:    []Message{UserMessage("u1"), AssistantMessage("a1"), UserMessage("u2"), SystemMessage("s")},
			expected: []Message{SystemMessage("s"), UserMessage("u1"), AssistantMessage("a1"), UserMessage("u2")},
		},
		{
			name:     "multiple system messages keep relative order",
			input:    []Message{UserMessage("u"), SystemMessage("s1"), SystemMessage("s2")},
			expected: []Message{SystemMessage("s1"), SystemMessage("s2"), UserMessage("u")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, OrderMessages(tt.input))
		})
	}
}

func TestOrderMessagesDoesNotMutateInput(t *testing.T) {
	input := []Message{UserMessage("u"), SystemMessage("s")}
	_ = OrderMessages(input)
	assert.Equal(t, RoleUser, input[0].Role)
}

func TestSplitSystem(t *testing.T) {
	system, turns := SplitSystem([]Message{
		UserMessage("John is 30 years old"),
		SystemMessage("extract name and age as JSON"),
		SystemMessage(""),
		SystemMessage("be terse"),
	})

	assert.Equal(t, "extract name and age as JSON\n\nbe terse", system)
	assert.Equal(t, []Message{UserMessage("John is 30 years old")}, turns)
}

func TestGenerateRequestID(t *testing.T) {
	a, b := GenerateRequestID(), GenerateRequestID()
	assert.True(t, strings.HasPrefix(a, "req-"))
	assert.NotEqual(t, a, b)
}
