package copilot

import (
	"fmt"
	"strings"
)

// buildDirectPrompt asks the model to answer from its own knowledge.
func buildDirectPrompt(background, conversation string) string {
	var b strings.Builder
	b.WriteString("You are an expert AI meeting assistant helping with questions raised in a live conversation. Provide clear, concise, and helpful responses based on your knowledge.\n\n")
	if background != "" {
		fmt.Fprintf(&b, "Background Context: %s\n\n", background)
	}
	fmt.Fprintf(&b, "Recent Conversation:\n%s\n\nProvide a helpful response:", conversation)
	return b.String()
}

// buildRAGPrompt grounds the answer in the fused retrieval context.
func buildRAGPrompt(background, conversation, question, context string) string {
	var b strings.Builder
	b.WriteString("You are an expert AI meeting assistant. Use the provided context along with your knowledge to give the most comprehensive and accurate answer possible.\n\n")
	fmt.Fprintf(&b, "Context Information:\n%s\n\n", context)
	if background != "" {
		fmt.Fprintf(&b, "Background: %s\n\n", background)
	}
	fmt.Fprintf(&b, "Question: %s\n\nProvide a clear, comprehensive response using both the context and your expertise:", question)
	return b.String()
}

// buildSummarizerPrompt asks the model for a plain summary of the text.
func buildSummarizerPrompt(text string) string {
	return fmt.Sprintf("You are a summarizer. Summarize the following text. Only write the summary.\nContent:\n%s\nSummary:\n", text)
}
