package assistant

import (
	"context"
	"fmt"
	"strings"

	"wayfare/internal/ai"
)

// Service forwards a transcript to the completion backend behind a fixed system prompt.
// It keeps no conversation state; the caller owns the transcript.
type Service struct {
	completer ai.Completer
}

func NewService(completer ai.Completer) *Service {
	return &Service{completer: completer}
}

// Converse validates the transcript, prepends the system prompt and returns the reply text.
func (s *Service) Converse(ctx context.Context, transcript []Message) (string, error) {
	if err := ValidateTranscript(transcript); err != nil {
		return "", err
	}

	msgs := make([]ai.Message, 0, len(transcript)+1)
	msgs = append(msgs, ai.Message{Role: ai.RoleSystem, Content: systemPrompt})
	for _, m := range transcript {
		msgs = append(msgs, ai.Message{Role: ai.Role(m.Role), Content: m.Content})
	}

	reply, err := s.completer.Complete(ctx, msgs, ai.Options{MaxTokens: MaxTokens, Temperature: Temperature})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		return "", ErrNoCompletion
	}
	return reply, nil
}

// ValidateTranscript checks roles and content without calling the backend.
func ValidateTranscript(transcript []Message) error {
	if len(transcript) == 0 {
		return fmt.Errorf("%w: messages array is required", ErrInvalidTranscript)
	}
	for i, m := range transcript {
		switch ai.Role(m.Role) {
		case ai.RoleUser, ai.RoleAssistant:
		default:
			return fmt.Errorf("%w: messages[%d] has role %q", ErrInvalidTranscript, i, m.Role)
		}
		if strings.TrimSpace(m.Content) == "" {
			return fmt.Errorf("%w: messages[%d] has empty content", ErrInvalidTranscript, i)
		}
	}
	return nil
}
