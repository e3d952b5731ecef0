package prompt

import (
	"context"

	"github.com/lambda-feedback/hgserve/internal/execution/protocol"
	"go.uber.org/zap"
)

// DefaultBridge answers prompts without user interaction. It picks
// the configured answer if the prompt offers it. Otherwise prompts
// with a marked default are answered empty, and for all others the
// first offered choice is taken. Free text prompts get the configured
// answer.
type DefaultBridge struct {
	answer string
	log    *zap.Logger
}

var _ protocol.PromptBridge = (*DefaultBridge)(nil)

func NewDefaultBridge(answer string, log *zap.Logger) *DefaultBridge {
	return &DefaultBridge{
		answer: answer,
		log:    log.Named("prompt_default"),
	}
}

func (b *DefaultBridge) Prompt(_ context.Context, body string, _ int) (string, error) {
	answer := b.choose(ParseChoices(body))

	b.log.Debug("answering prompt",
		zap.String("prompt", body),
		zap.String("answer", answer),
	)

	return answer, nil
}

func (b *DefaultBridge) choose(choices []Choice) string {
	if len(choices) == 0 {
		return b.answer
	}

	if b.answer != "" && Offers(choices, b.answer) {
		return b.answer
	}

	if hasDefault(choices) {
		return ""
	}

	return choices[0].Key
}
