package config

import (
	"fmt"
	"os"
	"strings"
)

const maxPromptFileSize = 256 * 1024

// loadPromptsFromFiles reads prompt override files into the inline prompt
// fields. File content wins over inline values when both are set.
func (c *Config) loadPromptsFromFiles() error {
	if c.AI.CustomPrompts.SystemPromptFile != "" {
		content, err := readPromptFile(c.AI.CustomPrompts.SystemPromptFile)
		if err != nil {
			return fmt.Errorf("system prompt: %w", err)
		}
		c.AI.CustomPrompts.SystemPrompt = content
	}
	if c.AI.CustomPrompts.UserPromptFile != "" {
		content, err := readPromptFile(c.AI.CustomPrompts.UserPromptFile)
		if err != nil {
			return fmt.Errorf("user prompt: %w", err)
		}
		c.AI.CustomPrompts.UserPrompt = content
	}
	return nil
}

func readPromptFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > maxPromptFileSize {
		return "", fmt.Errorf("prompt file %s exceeds %d bytes", path, maxPromptFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return "", fmt.Errorf("prompt file %s is empty", path)
	}
	return content, nil
}
