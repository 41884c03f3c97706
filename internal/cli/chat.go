package cli

import (
	"context"
	"errors"
	"strings"

	urfave "github.com/urfave/cli/v3"

	"github.com/ahesenov7-ai/paysphate.demo/internal/infrastructure/random"
	"github.com/ahesenov7-ai/paysphate.demo/internal/widget/chat"
)

// Answer is the assistant's reply to one question.
type Answer struct {
	Question string     `json:"question" yaml:"question"`
	Topic    chat.Topic `json:"topic" yaml:"topic"`
	Answer   string     `json:"answer" yaml:"answer"`
}

func (a *app) chatCmd() *urfave.Command {
	return &urfave.Command{
		Name:      "chat",
		Usage:     "Ask the PaySphere assistant a question",
		ArgsUsage: "<question...>",
		Action: func(_ context.Context, cmd *urfave.Command) error {
			question := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
			if question == "" {
				return errors.New("a question is required")
			}
			topic, reply := chat.NewResponder(random.New(a.seed)).Reply(question)
			return a.encode(Answer{Question: question, Topic: topic, Answer: reply})
		},
	}
}
