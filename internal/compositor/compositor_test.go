package compositor

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"statcard/internal/card"
	"statcard/internal/stats"
)

func testCard(t *testing.T) *card.Card {
	t.Helper()
	player := stats.Player{ID: 5, Name: "Luka Dončić", Team: "Dallas Mavericks", Position: stats.PointGuard}
	game := stats.GameStat{
		Game:     1,
		Date:     time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Opponent: "vs Heat",
		Points:   33, Rebounds: 9, Assists: 11, Steals: 1, Blocks: 0,
		FGPct: 0.487, Minutes: 38,
	}
	return card.Generate(player, game, card.Options{Mode: card.ModeFreeform, Measure: Measure})
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 0x80, 0xff})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name, date string
		want       string
	}{
		{"LeBron James", "03/10", "LeBron_James_stats_03-10.png"},
		{"Luka Dončić", "03/10", "Luka_Doncic_stats_03-10.png"},
		{"Shaq O'Neal", "3/9/2024", "Shaq_O_Neal_stats_3-9-2024.png"},
		{"  Nikola   Jokić ", "Mar 10", "Nikola_Jokic_stats_Mar-10.png"},
		{"", "", "card_stats_undated.png"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FileName(tt.name, tt.date); got != tt.want {
				t.Errorf("FileName(%q, %q) = %q, want %q", tt.name, tt.date, got, tt.want)
			}
		})
	}
}

func TestImportImage(t *testing.T) {
	bg, err := ImportImage(pngBytes(t, 40, 30))
	if err != nil {
		t.Fatalf("ImportImage: %v", err)
	}
	if bg.Width != 40 || bg.Height != 30 {
		t.Errorf("size = %dx%d, want 40x30", bg.Width, bg.Height)
	}
	if !strings.HasPrefix(bg.DataURI, "data:image/png;base64,") {
		t.Errorf("data URI prefix = %.30q", bg.DataURI)
	}
	img, err := DecodeDataURI(bg.DataURI)
	if err != nil {
		t.Fatalf("DecodeDataURI: %v", err)
	}
	if img.Bounds().Dx() != 40 {
		t.Errorf("decoded width = %d", img.Bounds().Dx())
	}
}

func TestImportRejectsNonImages(t *testing.T) {
	for _, data := range [][]byte{
		[]byte("name,points\nLeBron,30\n"),
		{},
		pngBytes(t, 8, 8)[:20],
	} {
		if _, err := ImportImage(data); !errors.Is(err, ErrNotImage) {
			t.Errorf("ImportImage(%d bytes) error = %v, want ErrNotImage", len(data), err)
		}
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("not a picture"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadImage(path); !errors.Is(err, ErrNotImage) {
		t.Errorf("LoadImage(text file) error = %v, want ErrNotImage", err)
	}
	if _, err := LoadImage(dir); !errors.Is(err, ErrNotImage) {
		t.Errorf("LoadImage(dir) error = %v, want ErrNotImage", err)
	}
}

func TestDecodeDataURIMalformed(t *testing.T) {
	for _, uri := range []string{"", "image/png;base64,AAAA", "data:image/png,AAAA", "data:image/png;base64,@@@"} {
		if _, err := DecodeDataURI(uri); !errors.Is(err, ErrBadDataURI) {
			t.Errorf("DecodeDataURI(%q) error = %v, want ErrBadDataURI", uri, err)
		}
	}
}

func TestMeasure(t *testing.T) {
	small := Measure([]string{"LeBron James"}, card.Style{FontFamily: "Go", FontSize: 20})
	large := Measure([]string{"LeBron James"}, card.Style{FontFamily: "Go", FontSize: 40})
	if small.W <= 0 || large.W <= small.W {
		t.Errorf("widths small=%d large=%d", small.W, large.W)
	}
	if large.H != 52 {
		t.Errorf("height = %d, want 52", large.H)
	}
	two := Measure([]string{"a", "b"}, card.Style{FontFamily: "Go Mono", FontSize: 20})
	if two.H != 52 {
		t.Errorf("two-line height = %d, want 52", two.H)
	}

	est := Measure([]string{"abc"}, card.Style{FontFamily: "Comic Sans", FontSize: 10})
	if est != card.EstimateSize([]string{"abc"}, card.Style{FontFamily: "Comic Sans", FontSize: 10}) {
		t.Errorf("unknown family should fall back to the estimate, got %+v", est)
	}
}

func TestRenderDoublesDensity(t *testing.T) {
	c := testCard(t)
	img, err := Render(c, ExportScale)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(1200, 1200) {
		t.Errorf("image size = %v, want 1200x1200", got)
	}

	if _, err := Render(c, 0); !errors.Is(err, ErrRender) {
		t.Errorf("Render(scale 0) error = %v, want ErrRender", err)
	}
}

func TestRenderWithBackground(t *testing.T) {
	c := testCard(t)
	bg, err := ImportImage(pngBytes(t, 200, 200))
	if err != nil {
		t.Fatal(err)
	}
	c.SetBackground(bg)
	img, err := Render(c, 1)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	// The cover-scaled background replaces the blue gradient in the corner.
	r, g, b, _ := img.At(1, 1).RGBA()
	if r>>8 == uint32(backdropTop.R) && g>>8 == uint32(backdropTop.G) && b>>8 == uint32(backdropTop.B) {
		t.Error("background image not drawn over the backdrop")
	}
}

func TestRenderZoomedBackgroundStaysBounded(t *testing.T) {
	c := testCard(t)
	bg, err := ImportImage(pngBytes(t, 1000, 1000))
	if err != nil {
		t.Fatal(err)
	}
	c.SetBackground(bg)
	if err := c.ScaleBackground(100); err != nil {
		t.Fatalf("ScaleBackground: %v", err)
	}
	if got, _ := c.Layout().Background(); got.Scale != card.MaxBackgroundScale {
		t.Fatalf("scale = %v, want %v", got.Scale, card.MaxBackgroundScale)
	}

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	img, err := Render(c, ExportScale)
	runtime.ReadMemStats(&after)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	// The full 8000x8000 resample would need 256MB on its own.
	if alloc := after.TotalAlloc - before.TotalAlloc; alloc > 64<<20 {
		t.Errorf("render allocated %d MB", alloc>>20)
	}
	r, g, b, _ := img.At(600, 600).RGBA()
	if r>>8 == uint32(backdropBottom.R) && g>>8 == uint32(backdropBottom.G) && b>>8 == uint32(backdropBottom.B) {
		t.Error("zoomed background not drawn")
	}
}

func TestImportRejectsHugeDimensions(t *testing.T) {
	data := pngBytes(t, 1, 1)
	// Rewrite the IHDR size to 20000x20000 and fix its checksum.
	binary.BigEndian.PutUint32(data[16:], 20000)
	binary.BigEndian.PutUint32(data[20:], 20000)
	binary.BigEndian.PutUint32(data[29:], crc32.ChecksumIEEE(data[12:29]))

	if _, err := ImportImage(data); !errors.Is(err, ErrImageTooLarge) {
		t.Errorf("ImportImage error = %v, want ErrImageTooLarge", err)
	}
}

func TestExportWritesImageAndTranscript(t *testing.T) {
	dir := t.TempDir()
	c := testCard(t)
	c.SetName("Luka Magic")

	res, err := Export(c, dir)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if want := filepath.Join(dir, "Luka_Magic_stats_03-10.png"); res.ImagePath != want {
		t.Errorf("image path = %q, want %q", res.ImagePath, want)
	}
	if want := filepath.Join(dir, "Luka_Magic_stats_03-10_edit_history.txt"); res.TranscriptPath != want {
		t.Errorf("transcript path = %q, want %q", res.TranscriptPath, want)
	}

	f, err := os.Open(res.ImagePath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("exported file is not a png: %v", err)
	}
	if cfg.Width != 1200 || cfg.Height != 1200 {
		t.Errorf("png size = %dx%d", cfg.Width, cfg.Height)
	}

	transcript, err := os.ReadFile(res.TranscriptPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Player: Luka Magic", "Post Generated", "Edited Player Name"} {
		if !bytes.Contains(transcript, []byte(want)) {
			t.Errorf("transcript missing %q", want)
		}
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("export left %d files, want 2", len(entries))
	}
}

func TestExportTranscriptFailureRemovesImage(t *testing.T) {
	dir := t.TempDir()
	c := testCard(t)
	// A directory in the way makes the transcript rename fail.
	blocker := filepath.Join(dir, FileStem(c.Name(), c.Date())+"_edit_history.txt")
	if err := os.Mkdir(blocker, 0755); err != nil {
		t.Fatal(err)
	}

	res, err := Export(c, dir)
	if err == nil {
		t.Fatalf("Export succeeded: %+v", res)
	}
	if res.ImagePath != "" {
		t.Errorf("result reports image %q", res.ImagePath)
	}
	if _, err := os.Stat(filepath.Join(dir, FileName(c.Name(), c.Date()))); !os.IsNotExist(err) {
		t.Errorf("image left behind: %v", err)
	}
}

func TestExportFailureLeavesNoFiles(t *testing.T) {
	dir := t.TempDir()
	c := testCard(t)
	c.SetBackground(card.BackgroundImage{DataURI: "data:image/png;base64,AAAA", Width: 100, Height: 100})

	if _, err := Export(c, dir); !errors.Is(err, ErrRender) {
		t.Fatalf("Export error = %v, want ErrRender", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("failed export left %d files", len(entries))
	}
	if c.Log().Len() != 2 {
		t.Errorf("failed export changed the log: %d entries", c.Log().Len())
	}
}
