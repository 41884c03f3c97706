package chat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ahesenov7-ai/paysphate.demo/internal/infrastructure/random"
	"github.com/ahesenov7-ai/paysphate.demo/internal/widget/chat"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want chat.Topic
	}{
		{"How do you detect FRAUD?", chat.TopicFraud},
		{"what about risk", chat.TopicFraud},
		{"How does it work?", chat.TopicHow},
		{"explain the process", chat.TopicHow},
		{"What's the price", chat.TopicPricing},
		{"does it cost much", chat.TopicPricing},
		{"which plan", chat.TopicPricing},
		{"How accurate is it", chat.TopicHow},
		{"accuracy numbers", chat.TopicAccuracy},
		{"false positive rate", chat.TopicAccuracy},
		{"integration docs", chat.TopicIntegration},
		{"do you have an API", chat.TopicIntegration},
		{"setup time", chat.TopicIntegration},
		// "integrate" contains "rate", and accuracy is checked first.
		{"can I integrate", chat.TopicAccuracy},
		{"hello there", chat.TopicDefault},
		{"", chat.TopicDefault},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, chat.Classify(tt.text))
		})
	}
}

func TestResponder_Reply(t *testing.T) {
	r := chat.NewResponder(random.Fixed(1))

	topic, reply := r.Reply("pricing?")

	assert.Equal(t, chat.TopicPricing, topic)
	assert.Equal(t, chat.Responses(chat.TopicPricing)[1], reply)
}

func TestResponder_AnswerCoversEveryCandidate(t *testing.T) {
	topics := []chat.Topic{
		chat.TopicFraud, chat.TopicHow, chat.TopicPricing,
		chat.TopicAccuracy, chat.TopicIntegration, chat.TopicDefault,
	}

	for _, topic := range topics {
		candidates := chat.Responses(topic)
		assert.NotEmpty(t, candidates, "topic %s", topic)
		for i, want := range candidates {
			assert.Equal(t, want, chat.NewResponder(random.Fixed(i)).Answer(topic))
		}
	}
	assert.Len(t, chat.Responses(chat.TopicDefault), 3)
}

func TestResponder_UnknownTopicUsesDefault(t *testing.T) {
	reply := chat.NewResponder(random.Fixed(0)).Answer(chat.Topic("weather"))

	assert.Equal(t, chat.Responses(chat.TopicDefault)[0], reply)
}
