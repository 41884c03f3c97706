// Package chat implements the FAQ chat widget and its keyword responder.
package chat

import (
	"strings"

	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/port"
)

// Topic is a FAQ category.
type Topic string

const (
	TopicFraud       Topic = "fraud"
	TopicHow         Topic = "how"
	TopicPricing     Topic = "pricing"
	TopicAccuracy    Topic = "accuracy"
	TopicIntegration Topic = "integration"
	TopicDefault     Topic = "default"
)

type topicRule struct {
	topic    Topic
	keywords []string
}

// rules are checked in order; the first topic with a matching keyword wins.
var rules = []topicRule{
	{TopicFraud, []string{"fraud", "detect", "risk"}},
	{TopicHow, []string{"how", "work", "process"}},
	{TopicPricing, []string{"price", "cost", "plan"}},
	{TopicAccuracy, []string{"accuracy", "accurate", "rate"}},
	{TopicIntegration, []string{"integrat", "api", "setup"}},
}

var responses = map[Topic][]string{
	TopicFraud: {
		"Our AI analyzes 50+ risk factors including transaction patterns, device fingerprints, and behavioral biometrics to detect fraud in real-time.",
		"PaySphere catches fraud that traditional rule-based systems miss by using machine learning to identify subtle patterns.",
	},
	TopicHow: {
		"It's simple: 1) Collect payment data → 2) AI analyzes risk factors → 3) Instant verify or block decision. All in under 500ms!",
		"Our system processes transactions through multiple ML models simultaneously, checking against known fraud patterns and anomaly detection.",
	},
	TopicPricing: {
		"We offer a free tier with 1,000 transactions/month. Our Full plan at $299/month includes unlimited transactions and advanced AI models.",
		"Free plan is perfect for testing. Full plan pays for itself by preventing even one fraudulent transaction.",
	},
	TopicAccuracy: {
		"PaySphere achieves 99.7% fraud detection with a false positive rate under 0.1%. Our AI continuously learns from new fraud patterns.",
		"We reduce chargebacks by 85% on average while maintaining smooth customer experience for legitimate transactions.",
	},
	TopicIntegration: {
		"Integration takes minutes! We offer REST APIs, SDKs for major platforms, and pre-built plugins for Stripe, Shopify, and more.",
		"Just add our JavaScript snippet or use our API endpoint. Most customers go live within 24 hours.",
	},
	TopicDefault: {
		"Great question! PaySphere uses advanced AI to detect payment fraud in real-time. Would you like to know about our accuracy, pricing, or integration options?",
		"I can tell you about how our fraud detection works, our pricing plans, or how to integrate. What interests you most?",
		"That's an interesting question. Our AI-powered system analyzes transactions instantly. Try the live demo above to see it in action!",
	},
}

// Classify maps free text to a topic by case-insensitive substring match.
func Classify(text string) Topic {
	lower := strings.ToLower(text)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.topic
			}
		}
	}
	return TopicDefault
}

// Responses returns the candidate replies for a topic.
func Responses(topic Topic) []string {
	return append([]string(nil), responses[topic]...)
}

// Responder answers questions with a randomly chosen canned reply.
type Responder struct {
	random port.RandomSource
}

// NewResponder creates a responder drawing from random.
func NewResponder(random port.RandomSource) *Responder {
	return &Responder{random: random}
}

// Reply returns the topic of text and one of its replies.
func (r *Responder) Reply(text string) (Topic, string) {
	topic := Classify(text)
	return topic, r.Answer(topic)
}

// Answer picks a reply for topic. Unknown topics answer from the default set.
func (r *Responder) Answer(topic Topic) string {
	candidates, ok := responses[topic]
	if !ok {
		candidates = responses[TopicDefault]
	}
	return candidates[r.random.IntN(len(candidates))]
}
