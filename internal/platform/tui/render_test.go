package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-collapse/internal/core"
)

func TestRenderScreenPlain(t *testing.T) {
	s := core.NewScreen(10, 3)
	s.DrawText(1, 1, "hello")

	if got := RenderScreen(s); got != s.String() {
		t.Errorf("default-colored screen should render as plain text:\n%q\nvs\n%q", got, s.String())
	}
}

func TestRenderScreenColored(t *testing.T) {
	s := core.NewScreen(12, 2)
	s.DrawTextColor(0, 0, "red", core.ColorRed)
	s.DrawText(4, 0, "plain")

	out := RenderScreen(s)
	if !strings.Contains(out, "red") || !strings.Contains(out, "plain") {
		t.Errorf("output lost text: %q", out)
	}
	if got := strings.Count(out, "\n"); got != 1 {
		t.Errorf("got %d line breaks, want 1", got)
	}
}

func TestColorStylesCoverPalette(t *testing.T) {
	for _, c := range []core.Color{
		core.ColorRed, core.ColorGreen, core.ColorYellow, core.ColorBlue,
		core.ColorMagenta, core.ColorPink, core.ColorBrightPink, core.ColorGray,
	} {
		if _, ok := colorStyles[c]; !ok {
			t.Errorf("no style for color %v", c)
		}
	}
}
