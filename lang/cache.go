package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// globalCache stores parse results keyed by the hash of source and options.
var globalCache sync.Map

// cached is one parse result. Documents are immutable and shared between
// callers; diagnostics are copied on the way out.
type cached struct {
	once  sync.Once
	doc   *Document
	diags Diagnostics
	err   error
}

// hashOptions encodes options using gob and hashes with xxh3.
// Returns a hash that uniquely identifies the options configuration.
func hashOptions(opts optionsKey) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	_ = enc.Encode(opts.maxDepth)

	return xxh3.Hash(buf.Bytes())
}

// ParseReader reads all of r and parses it as [Parse] does.
// Results are cached by content, so parsing the same source again with the
// same options returns the same *Document. Disable with WithCache(false).
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Document, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	o := makeOptions(opts...)

	o.logger.TraceContext(
		ctx,
		"read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
		slog.Bool("cache", o.cache),
	)

	if !o.cache {
		return parse(ctx, string(data), o)
	}

	return parseCached(ctx, data, o)
}

func parseCached(ctx context.Context, data []byte, o options) (*Document, error) {
	sourceHash := xxh3.Hash(data)
	optsHash := hashOptions(o.optionsKey)
	key := strconv.FormatUint(sourceHash^optsHash, 36)

	value, hit := globalCache.LoadOrStore(key, new(cached))

	entry, ok := value.(*cached)
	if !ok {
		return nil, ErrReadInput.
			With(slog.String("issue", "invalid entry type in cache"))
	}

	o.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.String("opts_hash", strconv.FormatUint(optsHash, 16)),
		slog.Bool("cache_hit", hit),
	)

	entry.once.Do(func() {
		doc, err := parse(ctx, string(data), o)

		entry.doc = doc
		if entry.diags = AsDiagnostics(err); entry.diags == nil {
			entry.err = err
		}
	})

	if entry.err != nil {
		// A cancelled parse says nothing about the source.
		if errors.Is(entry.err, context.Canceled) ||
			errors.Is(entry.err, context.DeadlineExceeded) {
			globalCache.CompareAndDelete(key, entry)
		}

		return nil, entry.err
	}

	if len(entry.diags) > 0 {
		return entry.doc, slices.Clone(entry.diags)
	}

	return entry.doc, nil
}

// ClearCache removes all cached parse results.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Clear()
}
