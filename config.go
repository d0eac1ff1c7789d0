package main

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"statcard/internal/card"
)

type Config struct {
	SaveDirectory string
	Layout        card.Mode
	Games         int
	CanvasWidth   int
	CanvasHeight  int
	SearchDelay   time.Duration
	Confirmations bool
	LogFile       string
}

const (
	minCanvas = 200
	maxCanvas = 2000
)

func defaultConfig(homeDir string) *Config {
	config := &Config{
		SaveDirectory: "",
		Layout:        card.ModeSections,
		Games:         5,
		CanvasWidth:   card.DefaultBounds.W,
		CanvasHeight:  card.DefaultBounds.H,
		SearchDelay:   500 * time.Millisecond,
		Confirmations: true,
	}
	if homeDir != "" {
		config.LogFile = filepath.Join(homeDir, ".statcard", "statcard.log")
	}
	return config
}

func loadConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return defaultConfig("")
	}
	config := defaultConfig(homeDir)

	file, err := os.Open(filepath.Join(homeDir, ".statcardrc"))
	if err != nil {
		return config
	}
	defer file.Close()

	parseConfig(file, homeDir, config)
	return config
}

// parseConfig applies key = value lines from r onto config. Unknown keys
// and invalid values are ignored.
func parseConfig(r io.Reader, homeDir string, config *Config) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch strings.ToLower(key) {
		case "savedirectory", "save_directory", "savedir":
			config.SaveDirectory = expandPath(value, homeDir)
		case "layout":
			switch strings.ToLower(value) {
			case "sections":
				config.Layout = card.ModeSections
			case "freeform":
				config.Layout = card.ModeFreeform
			}
		case "games":
			if n, err := strconv.Atoi(value); err == nil && (n == 3 || n == 5) {
				config.Games = n
			}
		case "canvas_width", "width":
			if n, ok := canvasSize(value); ok {
				config.CanvasWidth = n
			}
		case "canvas_height", "height":
			if n, ok := canvasSize(value); ok {
				config.CanvasHeight = n
			}
		case "search_delay":
			if d, err := time.ParseDuration(value); err == nil && d >= 0 {
				config.SearchDelay = d
			}
		case "confirmations", "confirm":
			config.Confirmations = strings.ToLower(value) == "true"
		case "log_file", "logfile":
			config.LogFile = expandPath(value, homeDir)
		}
	}
}

func canvasSize(value string) (int, bool) {
	n, err := strconv.Atoi(value)
	if err != nil || n < minCanvas || n > maxCanvas {
		return 0, false
	}
	return n, true
}

func expandPath(value, homeDir string) string {
	if value == "" {
		return value
	}
	if strings.HasPrefix(value, "~") && homeDir != "" {
		value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

func (c *Config) Bounds() card.Size {
	return card.Size{W: c.CanvasWidth, H: c.CanvasHeight}
}

// ExportDir is where exported cards are written.
func (c *Config) ExportDir() string {
	if c.SaveDirectory == "" {
		return "."
	}
	return c.SaveDirectory
}
