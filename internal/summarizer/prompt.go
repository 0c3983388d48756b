package summarizer

import (
	"fmt"
	"os"
)

// SystemInstruction is sent ahead of every document.
const SystemInstruction = "You are an assistant specialized in document analysis."

// DefaultTemplate is used when no prompt file is configured.
const DefaultTemplate = "Analyze the following text extracted from a PDF document and provide a detailed summary. " +
	"Format the summary as Markdown with headings, bullet points and tables where they help.\n"

// Message is one chat turn sent to a completion provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LoadTemplate reads the prompt template from path, or returns DefaultTemplate when path is empty.
func LoadTemplate(path string) (string, error) {
	if path == "" {
		return DefaultTemplate, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading prompt template: %w", err)
	}
	return string(data), nil
}

// BuildMessages returns the system instruction followed by the template and document text.
func BuildMessages(template, text string) []Message {
	return []Message{
		{Role: "system", Content: SystemInstruction},
		{Role: "user", Content: template + "Here is the text:\n\n" + text},
	}
}
