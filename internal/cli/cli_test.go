package cli

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("MOCKUP_CONFIG", "")
	t.Setenv("REDIS_ADDR", "")

	writePNG(t, filepath.Join(dir, "bg.png"), 40, 30, color.White)
	writePNG(t, filepath.Join(dir, "art.png"), 10, 10, color.Black)
	sceneJSON := fmt.Sprintf(`{
  "mockupId": "cli",
  "printAreaContainerWrapper": {"width": 40, "height": 30, "x": 0, "y": 0},
  "allowedPrintArea": {"width": 20, "height": 20, "x": 10, "y": 5},
  "product": {"mockup": {"imageURL": %q}},
  "printedImageElements": [{"id": "p1", "path": %q, "position": {"x": 5, "y": 5}, "zindex": 1}],
  "stickerElements": [{"id": "s1", "path": "missing.png", "position": {"x": 0, "y": 0}, "zindex": 2}]
}`, filepath.Join(dir, "bg.png"), filepath.Join(dir, "art.png"))
	scenePath := filepath.Join(dir, "scene.json")
	if err := os.WriteFile(scenePath, []byte(sceneJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(dir, "result", "out.png")

	stdout, err := runCLI(t, "render", scenePath, "-o", outPath, "--width", "80")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	if !strings.Contains(stdout, "80x60") {
		t.Errorf("stdout = %q", stdout)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil || cfg.Width != 80 || cfg.Height != 60 {
		t.Errorf("output = %+v, %v", cfg, err)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("MOCKUP_CONFIG", "")

	if _, err := runCLI(t, "render"); err == nil {
		t.Error("render without a scene should fail")
	}
	if _, err := runCLI(t, "render", filepath.Join(dir, "nope.json")); err == nil {
		t.Error("render of a missing file should fail")
	}
	if _, err := runCLI(t, "render", "x.json", "--width", "10", "--multiplier", "2"); err == nil {
		t.Error("--width and --multiplier together should fail")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"layoutMode": "spiral"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, "render", bad); err == nil || !strings.Contains(err.Error(), "INVALID_INPUT") {
		t.Errorf("render of an invalid scene error = %v", err)
	}
}
