package compositor

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"statcard/internal/card"
)

// Result names the files an export produced.
type Result struct {
	ImagePath      string
	TranscriptPath string
}

// FileStem builds "{Player_Name}_stats_{MM-DD}" from the card's display
// fields.
func FileStem(name, date string) string {
	n := normalize(name, '_')
	if n == "" {
		n = "card"
	}
	d := normalize(date, '-')
	if d == "" {
		d = "undated"
	}
	return n + "_stats_" + d
}

func FileName(name, date string) string {
	return FileStem(name, date) + ".png"
}

// normalize folds diacritics and collapses every run of characters other
// than ASCII letters and digits into sep.
func normalize(s string, sep rune) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}
	var b strings.Builder
	pending := false
	for _, r := range s {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pending && b.Len() > 0 {
				b.WriteRune(sep)
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}

// Export renders c at ExportScale into dir and, when the card has edits,
// writes the transcript next to it. On error no new files are left behind.
func Export(c *card.Card, dir string) (Result, error) {
	img, err := Render(c, ExportScale)
	if err != nil {
		Logger().Error("render failed", "card", c.ID.String(), "err", err)
		return Result{}, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Result{}, fmt.Errorf("encode png: %w", err)
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Result{}, fmt.Errorf("create export directory: %w", err)
	}

	stem := FileStem(c.Name(), c.Date())
	res := Result{ImagePath: filepath.Join(dir, stem+".png")}
	if err := writeFileAtomic(res.ImagePath, buf.Bytes()); err != nil {
		return Result{}, err
	}

	if c.Log().Len() > 0 {
		path := filepath.Join(dir, stem+"_edit_history.txt")
		if err := writeFileAtomic(path, []byte(c.Transcript())); err != nil {
			os.Remove(res.ImagePath)
			return Result{}, err
		}
		res.TranscriptPath = path
	}

	Logger().Info("exported card",
		"card", c.ID.String(),
		"image", res.ImagePath,
		"transcript", res.TranscriptPath,
		"edits", c.Log().Len())
	return res, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".statcard-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
