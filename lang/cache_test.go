package lang

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/iotest"
)

func parseString(t *testing.T, ctx context.Context, src string, opts ...Option) (*Document, error) {
	t.Helper()

	return ParseReader(ctx, strings.NewReader(src), opts...)
}

func TestParseReader_Cache(t *testing.T) {
	t.Cleanup(ClearCache)

	ctx := context.Background()
	src := `CacheTest("same") { p: 1 }`

	first, err := parseString(t, ctx, src)
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}

	second, err := parseString(t, ctx, src)
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}

	if first != second {
		t.Error("same source and options did not hit the cache")
	}

	uncached, err := parseString(t, ctx, src, WithCache(false))
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}

	if uncached == first {
		t.Error("WithCache(false) returned the cached document")
	}

	if !uncached.Equal(first) {
		t.Error("uncached parse differs from cached parse")
	}

	deeper, err := parseString(t, ctx, src, WithMaxDepth(7))
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}

	if deeper == first {
		t.Error("different options shared a cache entry")
	}

	ClearCache()

	again, err := parseString(t, ctx, src)
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}

	if again == first {
		t.Error("ClearCache did not drop the entry")
	}
}

func TestParseReader_ReadError(t *testing.T) {
	boom := errors.New("boom")

	_, err := ParseReader(context.Background(), iotest.ErrReader(boom))
	if !errors.Is(err, ErrReadInput) {
		t.Fatalf("ParseReader error = %v, want ErrReadInput", err)
	}
}

func TestParseReader_DiagnosticsAreCopied(t *testing.T) {
	t.Cleanup(ClearCache)

	ctx := context.Background()
	src := "CacheDiag(:)"

	doc1, err1 := parseString(t, ctx, src)
	doc2, err2 := parseString(t, ctx, src)

	if doc1 == nil || doc1 != doc2 {
		t.Fatal("recoverable parse did not cache the document")
	}

	d1, d2 := AsDiagnostics(err1), AsDiagnostics(err2)
	if len(d1) != 1 || len(d2) != 1 {
		t.Fatalf("got %d and %d diagnostics, want 1 each", len(d1), len(d2))
	}

	d1[0] = nil

	d3 := AsDiagnostics(func() error { _, err := parseString(t, ctx, src); return err }())
	if len(d3) != 1 || d3[0] == nil || !errors.Is(d3[0], ErrExpectedValue) {
		t.Errorf("cached diagnostics were modified through a returned copy: %v", d3)
	}
}

func TestParseReader_CancelledIsNotCached(t *testing.T) {
	t.Cleanup(ClearCache)

	src := "CacheCancel()"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := parseString(t, ctx, src); !errors.Is(err, context.Canceled) {
		t.Fatalf("ParseReader error = %v, want context.Canceled", err)
	}

	doc, err := parseString(t, context.Background(), src)
	if err != nil {
		t.Fatalf("ParseReader after cancel: %v", err)
	}

	if doc.Root() == nil || doc.Root().Type != "CacheCancel" {
		t.Errorf("ParseReader after cancel returned %v", doc.ToMap())
	}
}
