package pacer

import "bytes"
import "strings"
import "testing"

func TestPrintReportEmpty(t *testing.T) {
	p, _ := newtestpacer(nil)

	buf := &bytes.Buffer{}
	p.PrintReport(buf)
	out := buf.String()

	if strings.Contains(out, "Max pacing delay is set for 10 ms.") == false {
		t.Errorf("missing max delay line in %q", out)
	}
	if x := strings.Count(out, " ms - "); x != 0 {
		t.Errorf("expected %v rows, got %v", 0, x)
	}
}

func TestPrintReport(t *testing.T) {
	p, _ := newtestpacer(nil)
	for _, ms := range []int64{0, 1, 3, 5, 6} {
		p.h_delays.Add(ms)
	}

	buf := &bytes.Buffer{}
	p.PrintReport(buf)
	out := buf.String()

	// levels 0, 1 and 2 populated, one row each.
	if x := strings.Count(out, " ms - "); x != 3 {
		t.Errorf("expected %v rows, got %v", 3, x)
	}
	rows := []string{
		"      0 ms -       1 ms:            2",
		"      1 ms -       2 ms:            1",
		"      2 ms -       4 ms:            2",
	}
	for _, row := range rows {
		if strings.Contains(out, row) == false {
			t.Errorf("missing row %q in %q", row, out)
		}
	}
}
