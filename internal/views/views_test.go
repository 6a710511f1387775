package views

import (
	"strings"
	"testing"
)

func TestRenderHeaderShowsProgress(t *testing.T) {
	out := RenderHeader(HeaderData{Name: "Asha", Level: 3, Points: 5, ToLevel: 225, XPBar: "[--]", GlowBerries: 20, MoodTitle: "Calm"})
	for _, want := range []string{"Asha", "LVL 3", "5/225 WP", "20 berries", "Calm"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in header: %q", want, out)
		}
	}
	if !strings.Contains(RenderHeader(HeaderData{}), "Friend") {
		t.Fatal("expected default name in header")
	}
}

func TestRenderHeaderShowsQuote(t *testing.T) {
	out := RenderHeader(HeaderData{Level: 1, Quote: "Stillness is the altar of spirit."})
	if !strings.Contains(out, "\"Stillness is the altar of spirit.\"") {
		t.Fatalf("expected quoted line in header: %q", out)
	}
	if strings.Contains(RenderHeader(HeaderData{Level: 1}), "\n") {
		t.Fatal("expected a single header line without a quote")
	}
}

func TestRenderChoicesMarksCursor(t *testing.T) {
	out := RenderChoices("Pick", []string{"a", "b"}, 1)
	if !strings.Contains(out, "> b") || strings.Contains(out, "> a") {
		t.Fatalf("unexpected cursor rendering: %q", out)
	}
}

func TestRenderPlacesEmptyFallback(t *testing.T) {
	if !strings.Contains(RenderPlaces(nil), "park or library") {
		t.Fatal("expected empty-result hint")
	}
	out := RenderPlaces([]PlaceData{{Name: "City Library", Type: "library", Vicinity: "Main St"}})
	if !strings.Contains(out, "City Library") || !strings.Contains(out, "library - Main St") {
		t.Fatalf("unexpected places output: %q", out)
	}
}

func TestRenderChatTranscript(t *testing.T) {
	out := RenderChatTranscript([]ChatLine{{FromUser: true, Text: "hi"}, {Text: "hello"}}, "Asha")
	if !strings.Contains(out, "Asha: ") || !strings.Contains(out, "Manas: ") {
		t.Fatalf("unexpected transcript: %q", out)
	}
	if !strings.Contains(RenderChatTranscript(nil, ""), "no messages") {
		t.Fatal("expected empty transcript hint")
	}
}

func TestRenderMarkdownEmpty(t *testing.T) {
	if RenderMarkdown("  ") != "" {
		t.Fatal("expected empty output for blank markdown")
	}
	if !strings.Contains(RenderMarkdown("# Plan\n\n1. Breathe"), "Breathe") {
		t.Fatal("expected rendered markdown to keep content")
	}
}
