// Package demo plays the scripted WhatsApp conversation shown on the landing
// page. A Player turns a Script into a timeline of typing and message events
// and hands them to a Sink at their scheduled offsets.
package demo

import "time"

// Message sides.
const (
	KindReceived = "received"
	KindSent     = "sent"
)

// DefaultTypingDuration is how long the typing indicator shows before a
// received message appears.
const DefaultTypingDuration = 1500 * time.Millisecond

// Message is one chat bubble. Delay is measured from the start of the demo.
type Message struct {
	Kind  string        `json:"kind" yaml:"kind"`
	Text  string        `json:"text" yaml:"text"`
	Delay time.Duration `json:"delay" yaml:"delay"`
}

// Script is an ordered conversation.
type Script []Message

// DefaultScript is the landing page conversation.
func DefaultScript() Script {
	return Script{
		{Kind: KindReceived, Text: "Hello! 👋 Welcome to WhatsFlow Automation.", Delay: 1 * time.Second},
		{Kind: KindReceived, Text: "I am your AI assistant. How can I help you grow your business today?", Delay: 2 * time.Second},
		{Kind: KindSent, Text: "Hi! I want to automate my customer support.", Delay: 4 * time.Second},
		{Kind: KindReceived, Text: "Great choice! 🚀 I can handle 24/7 support, answer FAQs, and even book appointments.", Delay: 6 * time.Second},
		{Kind: KindReceived, Text: "Would you like to see our pricing plans?", Delay: 8 * time.Second},
		{Kind: KindSent, Text: "Yes, please.", Delay: 10 * time.Second},
		{Kind: KindReceived, Text: `We have plans starting at just $62/mo. Check them out here: <a href="/pricing" style="color: #075E54; font-weight: bold;">View Pricing</a>`, Delay: 12 * time.Second},
		{Kind: KindReceived, Text: "Ready to get started? 😎", Delay: 14 * time.Second},
	}
}
