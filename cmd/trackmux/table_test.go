package main

import (
	"strings"
	"testing"
)

func TestRenderTable(t *testing.T) {
	out := renderTable(
		[]string{"ID", "Count"},
		[][]string{{"alpha", "1"}, {"beta"}},
		[]columnAlignment{alignLeft, alignRight},
	)
	for _, want := range []string{"ID", "Count", "alpha", "beta"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
	if renderTable(nil, nil, nil) != "" {
		t.Fatal("expected empty output without headers")
	}
}

func TestRenderTableWrapsWideColumns(t *testing.T) {
	uri := "file:///" + strings.Repeat("segment/", 20) + "track.mp4"
	out := renderTable([]string{"ID", "URI"}, [][]string{{"a", uri}}, nil)
	for _, line := range strings.Split(out, "\n") {
		if len([]rune(line)) > wideColumnMax+20 {
			t.Fatalf("line not wrapped (%d runes): %s", len([]rune(line)), line)
		}
	}
}
