package main

import (
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

func writeClipboardText(text string) error {
	return clipboard.WriteAll(text)
}

// cleanClipboardText keeps the first line of text without control
// characters. Every input that accepts a paste is a single line.
func cleanClipboardText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		text = text[:i]
	}
	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if r == '\t' {
			r = ' '
		}
		if r >= 32 && r != 127 {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// editInput applies a typing key to a single-line input.
func editInput(text string, msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyBackspace:
		if r := []rune(text); len(r) > 0 {
			return string(r[:len(r)-1])
		}
	case tea.KeyCtrlU:
		return ""
	case tea.KeySpace:
		return text + " "
	case tea.KeyRunes:
		return text + string(msg.Runes)
	}
	return text
}
