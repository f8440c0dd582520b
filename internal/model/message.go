package model

import "storepilot/internal/llm"

// ChatRequest is the body of POST /chat. Message is a pointer so an absent
// field can be told apart from an empty one.
type ChatRequest struct {
	Message *string       `json:"message"`
	History []llm.Message `json:"history"`
}

type ChatReply struct {
	Response            string        `json:"response"`
	ConversationHistory []llm.Message `json:"conversation_history"`
}

// NewProduct is the body of POST /product.
type NewProduct struct {
	Title           string   `json:"title"`
	DescriptionHTML string   `json:"descriptionHtml"`
	Vendor          string   `json:"vendor"`
	ProductType     string   `json:"productType"`
	Tags            []string `json:"tags"`
	Status          string   `json:"status"`
}
