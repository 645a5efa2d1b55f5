package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"skyline/ibl"
	"skyline/placement"
)

func TestWriteTimings(t *testing.T) {
	var buf bytes.Buffer
	writeTimings(&buf, "software", []ibl.Timing{
		{Pass: "project", Duration: 2 * time.Millisecond},
		{Pass: "brdf", Duration: 3 * time.Millisecond},
	})
	out := buf.String()
	for _, want := range []string{"project", "brdf", "software", "5ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected table to contain %q:\n%s", want, out)
		}
	}
}

func TestWriteDiffsIdentical(t *testing.T) {
	env := ibl.NewCubemap(2, 2)
	res := &ibl.Result{
		Env:        env,
		Irradiance: ibl.NewCubemap(1, 1),
		Prefilter:  ibl.NewCubemap(16, ibl.PrefilterMips),
		BRDF:       ibl.NewLUT(4),
	}
	var buf bytes.Buffer
	writeDiffs(&buf, res, res)
	if got := strings.Count(buf.String(), "0.000000"); got != 4 {
		t.Errorf("expected 4 zero diffs, got %d:\n%s", got, buf.String())
	}
}

func TestWriteStats(t *testing.T) {
	p := placement.DefaultParams()
	var buf bytes.Buffer
	writeStats(&buf, p, placement.Stats{Count: 25, Cells: 100, MinHeight: 0.5, MaxHeight: 4, MeanHeight: 1.25})
	out := buf.String()
	for _, want := range []string{"25.00%", "1.250", "4.000"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected table to contain %q:\n%s", want, out)
		}
	}
}
