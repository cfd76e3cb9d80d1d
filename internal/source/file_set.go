package source

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"
)

// ErrContentTooLarge is returned for files that spans cannot address.
var ErrContentTooLarge = errors.New("content exceeds 4 GiB")

// FileSet хранит загруженные файлы; FileID это индекс в files.
// Повторный Add того же пути создаёт новую запись, старая остаётся доступной.
type FileSet struct {
	files   []File
	baseDir string // пусто: текущая директория процесса
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return NewFileSetWithBase("")
}

// NewFileSetWithBase создаёт FileSet с базовой директорией для относительных путей.
func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{baseDir: baseDir}
}

// BaseDir returns the configured base directory or the working directory.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir != "" {
		return fileSet.baseDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

func (fileSet *FileSet) Len() int { return len(fileSet.files) }

// Add registers already normalised content under path and returns its new ID.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	id := FileID(n)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	return id
}

// AddVirtual adds in-memory content (stdin, tests) flagged FileVirtual.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// LoadWithOptions reads path, normalises it with Normalize and adds it.
// Files larger than MaxContentSize yield ErrContentTooLarge.
func (fileSet *FileSet) LoadWithOptions(path string, opts LoadOptions) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	if uint64(len(raw)) > MaxContentSize {
		return 0, fmt.Errorf("%s: %w", path, ErrContentTooLarge)
	}
	content, flags := Normalize(raw, opts)
	return fileSet.Add(path, content, flags), nil
}

// Normalize strips a UTF-8 BOM, turns CRLF into LF and, when requested,
// rewrites the text into NFC. The returned flags record what changed.
func Normalize(content []byte, opts LoadOptions) ([]byte, FileFlags) {
	var flags FileFlags
	var changed bool
	if content, changed = removeBOM(content); changed {
		flags |= FileHadBOM
	}
	if content, changed = normalizeCRLF(content); changed {
		flags |= FileNormalizedCRLF
	}
	if opts.NormalizeNFC && !norm.NFC.IsNormal(content) {
		content = norm.NFC.Bytes(content)
		flags |= FileNormalizedNFC
	}
	return content, flags
}

// Get returns the file with the given ID or nil.
func (fileSet *FileSet) Get(id FileID) *File {
	if int(id) < len(fileSet.files) {
		return &fileSet.files[id]
	}
	return nil
}

// Resolve converts span offsets into line/column pairs. Unknown files resolve
// to zero positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}
