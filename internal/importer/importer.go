// Package importer reconciles fetched remote notes against the vault: it
// decides per record whether to skip, create, or overwrite, keeps the
// dedupe ledger exact, and optionally cross-links imported notes into the
// daily file.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sync"
	"sync/atomic"
	"time"

	"github.com/starford/pebblesync/internal/apperr"
	"github.com/starford/pebblesync/internal/daily"
	"github.com/starford/pebblesync/internal/fingerprint"
	"github.com/starford/pebblesync/internal/ledger"
	"github.com/starford/pebblesync/internal/models"
	"github.com/starford/pebblesync/internal/naming"
	"github.com/starford/pebblesync/internal/remote"
	"github.com/starford/pebblesync/internal/storage"
	"github.com/starford/pebblesync/internal/template"
	"github.com/starford/pebblesync/internal/timefmt"
)

// NoteFileTimeLayout is the moment-token layout appended to every atomic
// note's base name. The resulting file name is
// "{folder}/{baseName} {formatted moment}.md".
const NoteFileTimeLayout = "dddd, MMMM Do YYYY HH-mm"

// createdAtLayouts are tried in order when parsing a record's timestamp.
var createdAtLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Settings is the immutable per-run configuration snapshot. It is built
// once from the loaded config and swapped whole on hot reload; a run in
// flight keeps the snapshot it started with.
type Settings struct {
	APIURL            string
	APIKey            string
	NotesEnabled      bool
	Folder            string
	TriggerTags       []string
	Template          string
	OverwriteExisting bool
	LinkToDaily       bool
	SectionHeading    string
	Daily             daily.Config
	MaxLedgerSize     int
}

// Notifier receives run lifecycle and note events for the status surfaces.
type Notifier interface {
	Notify(event string, detail map[string]any)
}

// Notifier event types.
const (
	EventStarted   = "sync.started"
	EventFetching  = "sync.fetching"
	EventImporting = "sync.importing"
	EventComplete  = "sync.complete"
	EventFailed    = "sync.failed"
	EventCreated   = "note.created"
	EventUpdated   = "note.updated"
)

type nopNotifier struct{}

func (nopNotifier) Notify(string, map[string]any) {}

// Importer is the reconciliation engine. A single Importer serves the
// whole process; its mutex guarantees at most one run in flight, with
// overlapping triggers dropped rather than queued.
type Importer struct {
	store    storage.Provider
	fetcher  remote.Fetcher
	composer *daily.Composer
	ledger   *ledger.Ledger
	ledgers  *ledger.Store
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.Mutex
	settings atomic.Pointer[Settings]

	lastMu     sync.Mutex
	last       *models.RunSummary
	ledgerSize atomic.Int64
}

// New creates an Importer. ledgers may be nil, in which case the ledger is
// held in memory only (used by tests and dry setups).
func New(store storage.Provider, fetcher remote.Fetcher, led *ledger.Ledger, ledgers *ledger.Store, settings Settings, opts ...Option) *Importer {
	imp := &Importer{
		store:    store,
		fetcher:  fetcher,
		composer: daily.NewComposer(store),
		ledger:   led,
		ledgers:  ledgers,
		notifier: nopNotifier{},
		logger:   slog.Default(),
		now:      time.Now,
	}
	imp.settings.Store(&settings)
	imp.ledgerSize.Store(int64(led.Len()))
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// Option configures an Importer.
type Option func(*Importer)

// WithNotifier sets the lifecycle event sink.
func WithNotifier(n Notifier) Option {
	return func(i *Importer) { i.notifier = n }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(i *Importer) { i.logger = l }
}

// WithClock overrides the time source; used by tests.
func WithClock(now func() time.Time) Option {
	return func(i *Importer) { i.now = now }
}

// UpdateSettings swaps the settings snapshot. The new settings apply to
// the next run; a run already in flight is unaffected.
func (i *Importer) UpdateSettings(s Settings) {
	i.settings.Store(&s)
}

// Run performs one import. force bypasses both the ledger check and the
// existing-file skip. A trigger while another run is in flight returns
// apperr.ErrRunInProgress without doing any work.
func (i *Importer) Run(ctx context.Context, force bool) (models.RunSummary, error) {
	if !i.mu.TryLock() {
		return models.RunSummary{}, apperr.ErrRunInProgress
	}
	defer i.mu.Unlock()

	s := *i.settings.Load()
	sum := models.RunSummary{StartedAt: i.now()}

	if err := checkPreconditions(s); err != nil {
		return sum, err
	}

	i.notifier.Notify(EventStarted, map[string]any{"force": force})
	i.notifier.Notify(EventFetching, nil)

	notes, err := i.fetcher.Fetch(ctx, s.APIURL, s.APIKey)
	if err != nil {
		category := classify(err)
		i.logger.Error("importer: fetch failed",
			slog.String("category", category),
			slog.String("error", err.Error()))
		i.notifier.Notify(EventFailed, map[string]any{"category": category, "error": err.Error()})
		sum.FinishedAt = i.now()
		return sum, err
	}

	sum.Fetched = len(notes)
	i.notifier.Notify(EventImporting, map[string]any{"count": len(notes)})

	for _, note := range notes {
		i.processRecord(s, note, force, &sum)
	}

	if i.ledger.Dirty() {
		i.ledger.EvictToCapacity(s.MaxLedgerSize)
		if i.ledgers != nil {
			if err := i.ledgers.Flush(i.ledger); err != nil {
				i.logger.Error("importer: ledger flush failed", slog.String("error", err.Error()))
			}
		}
	}
	i.ledgerSize.Store(int64(i.ledger.Len()))

	sum.FinishedAt = i.now()
	i.saveSummary(sum)

	i.logger.Info("importer: run complete",
		slog.Int("fetched", sum.Fetched),
		slog.Int("created", sum.Created),
		slog.Int("updated", sum.Updated),
		slog.Int("skipped_duplicate", sum.SkippedDuplicate),
		slog.Int("skipped_existing", sum.SkippedExisting),
		slog.Int("failed", sum.Failed))
	i.notifier.Notify(EventComplete, map[string]any{"summary": sum, "message": sum.String()})
	return sum, nil
}

// processRecord applies the per-record decision tree. Record failures are
// isolated: they are logged, counted, and the batch continues. A record
// whose file write failed is left out of the ledger so the next run
// retries it.
func (i *Importer) processRecord(s Settings, note models.RemoteNote, force bool, sum *models.RunSummary) {
	fp := fingerprint.Key(note)
	if !force && i.ledger.Contains(fp) {
		sum.SkippedDuplicate++
		return
	}

	moment := i.resolveMoment(note.CreatedAt)
	base := naming.ResolveBaseName(note, s.TriggerTags)
	notePath := path.Join(s.Folder, base+" "+timefmt.Format(moment, NoteFileTimeLayout)+".md")

	exists := i.store.Exists(notePath)
	if exists && !s.OverwriteExisting && !force {
		// The file is already there; treat the record as satisfied
		// without touching it or re-linking it.
		i.ledger.Add(fp)
		sum.SkippedExisting++
		return
	}

	body := i.renderBody(s, note, moment)
	if err := i.store.Write(notePath, []byte(body)); err != nil {
		i.logger.Warn("importer: write failed",
			slog.String("path", notePath),
			slog.String("error", err.Error()))
		sum.Failed++
		return
	}
	if exists {
		sum.Updated++
		i.notifier.Notify(EventUpdated, map[string]any{"path": notePath})
	} else {
		sum.Created++
		i.notifier.Notify(EventCreated, map[string]any{"path": notePath})
	}
	i.ledger.Add(fp)

	if s.LinkToDaily {
		if err := i.composer.EnsureLink(s.Daily, s.SectionHeading, notePath, moment); err != nil {
			// The note itself is imported; only the cross-link failed.
			i.logger.Warn("importer: daily link failed",
				slog.String("path", notePath),
				slog.String("error", err.Error()))
			sum.Failed++
		}
	}
}

// ResetHistory clears the persisted import history. Like Run, it is
// dropped when a run is in flight.
func (i *Importer) ResetHistory() error {
	if !i.mu.TryLock() {
		return apperr.ErrRunInProgress
	}
	defer i.mu.Unlock()

	i.ledger.Clear()
	if i.ledgers != nil {
		if err := i.ledgers.Flush(i.ledger); err != nil {
			return fmt.Errorf("importer: reset history: %w", err)
		}
	}
	i.ledgerSize.Store(0)
	i.logger.Info("importer: history reset")
	return nil
}

// LastSummary returns the most recent run's summary, falling back to the
// persisted one across restarts. Returns nil when no run has completed.
func (i *Importer) LastSummary() *models.RunSummary {
	i.lastMu.Lock()
	defer i.lastMu.Unlock()
	if i.last != nil {
		return i.last
	}
	if i.ledgers == nil {
		return nil
	}
	sum, err := i.ledgers.LastSummary()
	if err != nil {
		i.logger.Warn("importer: load last summary failed", slog.String("error", err.Error()))
		return nil
	}
	return sum
}

// LedgerSize returns the fingerprint count as of the last completed run.
func (i *Importer) LedgerSize() int {
	return int(i.ledgerSize.Load())
}

func (i *Importer) saveSummary(sum models.RunSummary) {
	i.lastMu.Lock()
	i.last = &sum
	i.lastMu.Unlock()
	if i.ledgers != nil {
		if err := i.ledgers.SaveSummary(sum); err != nil {
			i.logger.Warn("importer: save summary failed", slog.String("error", err.Error()))
		}
	}
}

// resolveMoment parses a record's createdAt, substituting the current time
// when it is absent or unparseable. Never an error: an odd timestamp must
// not block an import.
func (i *Importer) resolveMoment(createdAt string) time.Time {
	if createdAt == "" {
		return i.now()
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, createdAt); err == nil {
			return t
		}
	}
	return i.now()
}

func (i *Importer) renderBody(s Settings, note models.RemoteNote, moment time.Time) string {
	tpl := s.Template
	if tpl == "" {
		tpl = template.DefaultBody
	}
	return template.Render(tpl, models.TemplateData{
		Content:      note.Content,
		Date:         timefmt.Format(moment, "YYYY-MM-DD"),
		Time:         timefmt.Format(moment, "HH:mm"),
		FullDateTime: timefmt.Format(moment, NoteFileTimeLayout),
		Tags:         note.Tags,
	})
}

// checkPreconditions validates the settings a run needs. Any failure
// aborts before network or file activity.
func checkPreconditions(s Settings) error {
	if s.APIURL == "" || s.APIKey == "" {
		return errors.New("importer: api url and key must be configured")
	}
	if !s.NotesEnabled {
		return errors.New("importer: atomic note creation is disabled")
	}
	if s.Folder == "" {
		return errors.New("importer: notes folder is not configured")
	}
	return nil
}

// classify maps a transport error onto its user-facing category.
func classify(err error) string {
	switch {
	case errors.Is(err, apperr.ErrUnauthorized):
		return "authorization failure"
	case errors.Is(err, apperr.ErrNetwork):
		return "network failure"
	case errors.Is(err, apperr.ErrMalformedResponse):
		return "malformed response"
	default:
		return "import failure"
	}
}
