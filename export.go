package main

import (
	"fmt"
	"path/filepath"

	"statcard/internal/compositor"
)

// exportCard writes the card and its edit history into the save
// directory. A failure is shown as a blocking alert and leaves the card as
// it was.
func (m *model) exportCard() {
	res, err := compositor.Export(m.card, m.cfg.ExportDir())
	if err != nil {
		m.logger.Error("export failed", "card", m.card.ID.String(), "err", err)
		m.alertMessage = fmt.Sprintf("Export failed: %v", err)
		m.prevMode = m.mode
		m.mode = ModeAlert
		return
	}

	if m.current >= 0 && m.current < len(m.recent) {
		m.recent[m.current].Downloads++
	}
	msg := "Saved " + filepath.Base(res.ImagePath)
	if res.TranscriptPath != "" {
		msg += " and " + filepath.Base(res.TranscriptPath)
	}
	m.successMessage = msg
}

func (m *model) copyTranscript() {
	if err := writeClipboardText(m.card.Transcript()); err != nil {
		m.errorMessage = fmt.Sprintf("Failed to copy edit history: %v", err)
		return
	}
	m.successMessage = fmt.Sprintf("Copied edit history (%d edits)", m.card.Log().Len())
}
