package wire

import "testing"

// encodeName builds a wire-format name from labels without depending on
// package domainenc, keeping this test self-contained within package wire.
func encodeName(labels ...string) []byte {
	var out []byte
	for _, l := range labels {
		out = append(out, byte(len(l)))
		out = append(out, l...)
	}
	return append(out, 0)
}

func TestBuildQuery_WithoutClientID(t *testing.T) {
	name := encodeName("example", "com")

	got := BuildQuery(nil, 0x1234, name, nil)

	want := QuerySize(len(name), false)
	if len(got) != want {
		t.Fatalf("len(BuildQuery()) = %d, want %d", len(got), want)
	}

	h, err := ParseHeader(got)
	if err != nil {
		t.Fatalf("ParseHeader() error: %v", err)
	}
	if h.ID != 0x1234 || h.Flags != FlagsStandardQuery || h.QDCount != 1 || h.ARCount != 0 {
		t.Errorf("header = %+v, want ID=0x1234 Flags=0x0100 QDCount=1 ARCount=0", h)
	}

	qtypeOffset := HeaderSize + len(name)
	if got[qtypeOffset+1] != TypeA || got[qtypeOffset+3] != ClassIN {
		t.Errorf("QTYPE/QCLASS = %x, want A/IN", got[qtypeOffset:qtypeOffset+4])
	}
}

func TestBuildQuery_WithClientID(t *testing.T) {
	name := encodeName("example", "com")
	clientID := make([]byte, ClientIDLength)
	for i := range clientID {
		clientID[i] = byte(i)
	}

	got := BuildQuery(nil, 1, name, clientID)

	want := QuerySize(len(name), true)
	if len(got) != want {
		t.Fatalf("len(BuildQuery()) = %d, want %d", len(got), want)
	}

	h, err := ParseHeader(got)
	if err != nil {
		t.Fatalf("ParseHeader() error: %v", err)
	}
	if h.ARCount != 1 {
		t.Errorf("ARCount = %d, want 1", h.ARCount)
	}

	optStart := HeaderSize + len(name) + 4
	gotOpt := got[optStart : optStart+len(additionalTemplate)]
	for i, b := range additionalTemplate {
		if gotOpt[i] != b {
			t.Fatalf("OPT template mismatch at byte %d: got %x, want %x", i, gotOpt, additionalTemplate)
		}
	}

	gotClientID := got[optStart+len(additionalTemplate):]
	if len(gotClientID) != ClientIDLength {
		t.Fatalf("len(clientID tail) = %d, want %d", len(gotClientID), ClientIDLength)
	}
	for i, b := range clientID {
		if gotClientID[i] != b {
			t.Errorf("client id byte %d: got %x, want %x", i, gotClientID[i], b)
		}
	}
}

func TestBuildQuery_AppendsToExistingBuffer(t *testing.T) {
	name := encodeName("x")
	prefix := []byte{0xDE, 0xAD}

	out := BuildQuery(prefix, 1, name, nil)

	if out[0] != 0xDE || out[1] != 0xAD {
		t.Errorf("BuildQuery overwrote prefix: %x", out[:2])
	}
	if len(out) != 2+QuerySize(len(name), false) {
		t.Fatalf("len(out) = %d, want %d", len(out), 2+QuerySize(len(name), false))
	}
}

func TestQuerySize(t *testing.T) {
	if got := QuerySize(5, false); got != HeaderSize+5+4 {
		t.Errorf("QuerySize(5, false) = %d, want %d", got, HeaderSize+5+4)
	}
	if got := QuerySize(5, true); got != HeaderSize+5+4+AdditionalSize {
		t.Errorf("QuerySize(5, true) = %d, want %d", got, HeaderSize+5+4+AdditionalSize)
	}
}
