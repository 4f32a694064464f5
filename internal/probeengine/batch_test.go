package probeengine

import (
	"testing"

	"github.com/nslatency/mig/internal/domainenc"
	"github.com/nslatency/mig/internal/wire"
)

func TestBuildBatch_CyclesNamesAndIDs(t *testing.T) {
	names, err := domainenc.Parse([]byte("a.com\nb.com\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	batch := BuildBatch(names, 5, nil)

	if batch.Count() != 5 {
		t.Fatalf("Count() = %d, want 5", batch.Count())
	}

	for i := 0; i < 5; i++ {
		h, err := wire.ParseHeader(batch.Query(i))
		if err != nil {
			t.Fatalf("ParseHeader(query %d) error: %v", i, err)
		}
		if int(h.ID) != i {
			t.Errorf("query %d ID = %d, want %d", i, h.ID, i)
		}
	}
}

func TestBuildBatch_WithClientID(t *testing.T) {
	names, err := domainenc.Parse([]byte("a.com\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	clientID := make([]byte, wire.ClientIDLength)
	batch := BuildBatch(names, 2, clientID)

	h, err := wire.ParseHeader(batch.Query(0))
	if err != nil {
		t.Fatalf("ParseHeader() error: %v", err)
	}
	if h.ARCount != 1 {
		t.Errorf("ARCount = %d, want 1", h.ARCount)
	}
}

func TestBuildBatch_IDsWrapAtModulus(t *testing.T) {
	names, err := domainenc.Parse([]byte("a.com\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	batch := BuildBatch(names, transactionIDModulus+2, nil)

	h0, err := wire.ParseHeader(batch.Query(0))
	if err != nil {
		t.Fatalf("ParseHeader() error: %v", err)
	}
	hWrap, err := wire.ParseHeader(batch.Query(transactionIDModulus))
	if err != nil {
		t.Fatalf("ParseHeader() error: %v", err)
	}
	if h0.ID != hWrap.ID {
		t.Errorf("ID at slot 0 = %d, ID at slot %d = %d, want equal", h0.ID, transactionIDModulus, hWrap.ID)
	}
}
