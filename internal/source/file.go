package source

import (
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

func (f *File) size() uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("file too large: %w", err))
	}
	return n
}

// LineCount counts physical lines; a trailing fragment without '\n' is a line,
// empty content has none.
func (f *File) LineCount() uint32 {
	count := uint32(len(f.LineIdx)) // #nosec G115 -- bounded by size()
	if size := f.size(); size > 0 && (count == 0 || f.LineIdx[count-1] != size-1) {
		count++
	}
	return count
}

// LineStart returns the offset of 1-based line lineNum, clamped to the end
// of the content.
func (f *File) LineStart(lineNum uint32) uint32 {
	switch {
	case lineNum <= 1:
		return 0
	case int(lineNum)-2 < len(f.LineIdx):
		return f.LineIdx[lineNum-2] + 1
	default:
		return f.size()
	}
}

// GetLine возвращает текст строки lineNum (1-based) без '\n';
// для несуществующей строки пустую строку.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	start, end := f.LineStart(lineNum), f.size()
	if start >= end {
		return ""
	}
	if int(lineNum)-1 < len(f.LineIdx) {
		end = f.LineIdx[lineNum-1]
	}
	return string(f.Content[start:end])
}

// FormatPath renders the path for output. mode is one of "absolute",
// "relative", "basename" or "auto"; virtual files keep their name in every
// mode except "basename".
func (f *File) FormatPath(mode, baseDir string) string {
	if mode == "basename" {
		return BaseName(f.Path)
	}
	if f.Flags&FileVirtual != 0 {
		return f.Path
	}

	var (
		out string
		err error
	)
	switch mode {
	case "absolute":
		out, err = AbsolutePath(f.Path)
	case "relative":
		if baseDir == "" {
			baseDir, _ = os.Getwd()
		}
		out, err = RelativePath(f.Path, baseDir)
	case "auto":
		// длинные абсолютные пути сокращаем до имени файла
		if filepath.IsAbs(f.Path) && len(f.Path) >= 40 {
			return BaseName(f.Path)
		}
		return f.Path
	default:
		return f.Path
	}
	if err != nil {
		return f.Path
	}
	return out
}
