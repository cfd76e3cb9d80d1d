package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"declcheck/internal/analyzer"
	"declcheck/internal/diag"
	"declcheck/internal/source"
	"declcheck/internal/symbols"
	"declcheck/internal/types"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты анализа по хэшу содержимого файла.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the cached analysis of one file. Spans are stored as
// byte offsets; the FileID is rebound when the payload is restored.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16 `msgpack:"schema"`

	Diagnostics []cachedDiagnostic `msgpack:"diagnostics"`
	Symbols     []cachedSymbol     `msgpack:"symbols"`
}

type cachedSpan struct {
	Start uint32 `msgpack:"s"`
	End   uint32 `msgpack:"e"`
}

type cachedNote struct {
	Span cachedSpan `msgpack:"span"`
	Msg  string     `msgpack:"msg"`
}

type cachedEdit struct {
	Span    cachedSpan `msgpack:"span"`
	NewText string     `msgpack:"new"`
	OldText string     `msgpack:"old,omitempty"`
}

type cachedFix struct {
	Title string       `msgpack:"title"`
	Edits []cachedEdit `msgpack:"edits"`
}

type cachedDiagnostic struct {
	Severity uint8        `msgpack:"sev"`
	Code     uint16       `msgpack:"code"`
	Line     uint32       `msgpack:"line"`
	Message  string       `msgpack:"msg"`
	Primary  cachedSpan   `msgpack:"span"`
	Notes    []cachedNote `msgpack:"notes,omitempty"`
	Fixes    []cachedFix  `msgpack:"fixes,omitempty"`
}

type cachedSymbol struct {
	Line     uint32     `msgpack:"line"`
	DataType types.Kind `msgpack:"type"`
	Name     string     `msgpack:"name"`
	RawValue string     `msgpack:"raw"`
	Span     cachedSpan `msgpack:"span"`
}

// OpenDiskCache initializes and returns a disk cache at the standard location
// ($XDG_CACHE_HOME/<app>, falling back to ~/.cache/<app>).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a disk cache rooted at dir, creating it if needed.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key [32]byte) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог по версии схемы: старые записи просто перестают находиться
	return filepath.Join(c.dir, fmt.Sprintf("v%d", diskCacheSchemaVersion), hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key [32]byte, payload *DiskPayload) error {
	if c == nil || payload == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	// Атомарная замена
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// Get reads and deserializes a payload from the disk cache. A missing entry
// or a payload from another schema reports ok == false without an error.
func (c *DiskCache) Get(key [32]byte, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(c.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func toCachedSpan(sp source.Span) cachedSpan {
	return cachedSpan{Start: sp.Start, End: sp.End}
}

func (s cachedSpan) bind(file source.FileID) source.Span {
	return source.Span{File: file, Start: s.Start, End: s.End}
}

// resultToDiskPayload converts an analysis result into its cached form.
func resultToDiskPayload(res analyzer.Result) *DiskPayload {
	diags := res.Diagnostics()
	syms := res.Symbols()
	payload := &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		Diagnostics: make([]cachedDiagnostic, 0, len(diags)),
		Symbols:     make([]cachedSymbol, 0, len(syms)),
	}

	for _, d := range diags {
		cd := cachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Line:     d.Line,
			Message:  d.Message,
			Primary:  toCachedSpan(d.Primary),
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, cachedNote{Span: toCachedSpan(n.Span), Msg: n.Msg})
		}
		for _, fix := range d.Fixes {
			cf := cachedFix{Title: fix.Title}
			for _, e := range fix.Edits {
				cf.Edits = append(cf.Edits, cachedEdit{Span: toCachedSpan(e.Span), NewText: e.NewText, OldText: e.OldText})
			}
			cd.Fixes = append(cd.Fixes, cf)
		}
		payload.Diagnostics = append(payload.Diagnostics, cd)
	}

	for _, s := range syms {
		payload.Symbols = append(payload.Symbols, cachedSymbol{
			Line:     s.Line,
			DataType: s.DataType,
			Name:     s.Name,
			RawValue: s.RawValue,
			Span:     toCachedSpan(s.Span),
		})
	}
	return payload
}

// diskPayloadToResult restores a result, pointing every span at file.
func diskPayloadToResult(payload *DiskPayload, file source.FileID) analyzer.Result {
	diags := make([]diag.Diagnostic, 0, len(payload.Diagnostics))
	for _, cd := range payload.Diagnostics {
		d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code), cd.Line, cd.Primary.bind(file), cd.Message)
		for _, n := range cd.Notes {
			d = d.WithNote(n.Span.bind(file), n.Msg)
		}
		for _, cf := range cd.Fixes {
			edits := make([]diag.FixEdit, 0, len(cf.Edits))
			for _, e := range cf.Edits {
				edits = append(edits, diag.FixEdit{Span: e.Span.bind(file), NewText: e.NewText, OldText: e.OldText})
			}
			d = d.WithFix(cf.Title, edits...)
		}
		diags = append(diags, d)
	}

	syms := make([]symbols.Symbol, 0, len(payload.Symbols))
	for _, cs := range payload.Symbols {
		syms = append(syms, symbols.New(cs.Line, cs.DataType, cs.Name, cs.RawValue, cs.Span.bind(file)))
	}
	return analyzer.NewResult(diags, syms)
}
