package report

import (
	"bytes"
	"testing"

	"github.com/nslatency/mig/internal/clock"
)

func ts(sec, nsec int64) clock.Timestamp {
	return clock.Timestamp{Sec: sec, Nsec: nsec}
}

func TestWriteProbeReport_AnsweredAndUnanswered(t *testing.T) {
	var buf bytes.Buffer

	sends := []clock.Timestamp{ts(1, 0), ts(2, 0)}
	receives := []clock.Timestamp{ts(1, 500)}
	pairs := []Pair{
		{Sent: ts(1, 0), Received: ts(1, 500), Answered: true},
		{Sent: ts(2, 0)},
	}

	if err := WriteProbeReport(&buf, sends, receives, pairs); err != nil {
		t.Fatalf("WriteProbeReport() error: %v", err)
	}

	want := `{"sends":
	[
		1000000000,
		2000000000
	],
 "receives":
	[
		1000000500
	],
 "pairs":
	[
		[1000000000, 1000000500, 500],
		[2000000000]
	]
}
`
	if buf.String() != want {
		t.Errorf("WriteProbeReport() =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestWriteProbeReport_Empty(t *testing.T) {
	var buf bytes.Buffer

	if err := WriteProbeReport(&buf, nil, nil, nil); err != nil {
		t.Fatalf("WriteProbeReport() error: %v", err)
	}

	want := "{\"sends\":\n\t[],\n \"receives\":\n\t[],\n \"pairs\":\n\t[]\n}\n"
	if buf.String() != want {
		t.Errorf("WriteProbeReport() =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestWriteReflectorReport(t *testing.T) {
	var buf bytes.Buffer

	receives := []clock.Timestamp{ts(1, 0)}
	sends := []clock.Timestamp{ts(1, 100), ts(1, 200)}

	if err := WriteReflectorReport(&buf, receives, sends); err != nil {
		t.Fatalf("WriteReflectorReport() error: %v", err)
	}

	want := `{"receives":
	[
		1000000000
	],
 "sends":
	[
		1000000100,
		1000000200
	]
}
`
	if buf.String() != want {
		t.Errorf("WriteReflectorReport() =\n%q\nwant\n%q", buf.String(), want)
	}
}
