package services

import (
	"slices"
	"strings"
)

const defaultChatReply = "I hear you. Can you tell me more about what you're experiencing? I'm here to listen and support you."

var (
	greetingReplies = []string{
		"Hello! How are you feeling today?",
		"Hi there! I'm here to listen and support you.",
		"Welcome back! What's on your mind?",
	}
	anxietyReplies = []string{
		"I understand you're feeling anxious. Let's work through this together. Can you tell me more about what's triggering these feelings?",
		"Anxiety can be overwhelming. Have you tried any breathing exercises today? They can help calm your nervous system.",
		"I hear you. Remember, anxiety is temporary and you have the strength to get through this. What usually helps you feel calmer?",
	}
	sadnessReplies = []string{
		"I'm sorry you're going through a difficult time. You're not alone in this. What's been weighing on your mind?",
		"Depression can make everything feel harder. Have you been able to do any small activities today that usually bring you comfort?",
		"Thank you for sharing with me. It takes courage to talk about these feelings. What's one small thing we could work on together today?",
	}
	supportReplies = []string{
		"You're doing great by reaching out. Every step forward, no matter how small, is progress.",
		"I'm proud of you for taking care of your mental health. You're stronger than you know.",
		"Remember, it's okay to have difficult days. You're human, and you're doing your best.",
	}
)

// ChatReply maps a message to a canned reply. turn selects among the
// variants of a category so consecutive replies differ.
func ChatReply(message string, turn int) string {
	lower := strings.ToLower(message)
	pick := func(replies []string) string {
		if turn < 0 {
			turn = 0
		}
		return replies[turn%len(replies)]
	}

	switch {
	case strings.Contains(lower, "anxious") || strings.Contains(lower, "anxiety"):
		return pick(anxietyReplies)
	case strings.Contains(lower, "sad") || strings.Contains(lower, "depressed"):
		return pick(sadnessReplies)
	case strings.Contains(lower, "thank") || strings.Contains(lower, "better"):
		return pick(supportReplies)
	case isGreeting(lower):
		return pick(greetingReplies)
	}
	return defaultChatReply
}

func isGreeting(lower string) bool {
	words := tokenize(lower)
	return len(words) > 0 && slices.Contains([]string{"hi", "hello", "hey"}, words[0])
}
