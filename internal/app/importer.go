package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"siam_tours/internal/domain"
)

// ImportReport summarizes one CSV import run.
type ImportReport struct {
	Total  int
	Failed int
}

// TranslationImporter upserts translation rows with bounded concurrency and
// invalidates the store once the batch is written.
type TranslationImporter struct {
	repo    domain.TranslationRepository
	store   *TranslationStore // optional
	workers int64
}

func NewTranslationImporter(repo domain.TranslationRepository, store *TranslationStore, workers int) *TranslationImporter {
	if workers < 1 {
		workers = 1
	}
	return &TranslationImporter{repo: repo, store: store, workers: int64(workers)}
}

// Import writes every entry. Individual failures are logged and counted; the
// run only errors when ctx is cancelled before all rows are scheduled.
func (im *TranslationImporter) Import(ctx context.Context, entries []domain.TranslationEntry) (ImportReport, error) {
	sem := semaphore.NewWeighted(im.workers)
	var (
		wg     sync.WaitGroup
		failed atomic.Int64
	)

	for _, e := range entries {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return ImportReport{Total: len(entries), Failed: int(failed.Load())}, fmt.Errorf("import aborted: %w", err)
		}
		wg.Add(1)
		go func(e domain.TranslationEntry) {
			defer wg.Done()
			defer sem.Release(1)

			if err := im.repo.UpsertTranslation(ctx, e); err != nil {
				failed.Add(1)
				log.Warn().Str("key", e.Key).Str("locale", e.Locale.String()).Err(err).Msg("upsert failed")
				return
			}
			log.Debug().Str("key", e.Key).Str("locale", e.Locale.String()).Msg("upsert ok")
		}(e)
	}
	wg.Wait()

	if im.store != nil {
		im.store.Invalidate(ctx)
	}
	return ImportReport{Total: len(entries), Failed: int(failed.Load())}, nil
}

// ParseTranslationCSV reads rows with the header key_name,locale,value and an
// optional is_active column (default true). Column order is taken from the header.
func ParseTranslationCSV(r io.Reader) ([]domain.TranslationEntry, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty csv", domain.ErrInvalidPayload)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, req := range []string{"key_name", "locale", "value"} {
		if _, ok := col[req]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", domain.ErrInvalidPayload, req)
		}
	}
	activeCol, hasActive := col["is_active"]

	var out []domain.TranslationEntry
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		field := func(i int) string {
			if i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}

		key := field(col["key_name"])
		if key == "" {
			return nil, fmt.Errorf("%w: line %d: empty key_name", domain.ErrInvalidPayload, line)
		}
		loc, ok := domain.ParseLocale(field(col["locale"]))
		if !ok {
			return nil, fmt.Errorf("%w: line %d: unsupported locale %q", domain.ErrInvalidPayload, line, field(col["locale"]))
		}
		active := true
		if hasActive && field(activeCol) != "" {
			active, err = strconv.ParseBool(field(activeCol))
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: is_active %q", domain.ErrInvalidPayload, line, field(activeCol))
			}
		}
		// value keeps inner whitespace; only the csv padding is trimmed
		out = append(out, domain.TranslationEntry{Key: key, Locale: loc, Value: field(col["value"]), Active: active})
	}
	return out, nil
}
