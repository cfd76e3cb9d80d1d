package driver

import (
	"runtime"
	"strings"
)

// DefaultExtensions lists the file suffixes CheckDir picks up when
// Options.Extensions is empty.
var DefaultExtensions = []string{".decl"}

// Options управляет проверкой файлов и директорий.
type Options struct {
	MaxDiagnostics  int      // лимит диагностик на файл, 0 = без лимита
	Jobs            int      // число воркеров CheckDir, 0 = GOMAXPROCS
	Extensions      []string // расширения файлов для CheckDir
	NormalizeNFC    bool     // приводить содержимое к Unicode NFC
	EnableTimings   bool     // собирать observ.Report на каждый файл
	EnableDiskCache bool     // использовать DiskCache
	CacheDir        string   // каталог кэша, "" = $XDG_CACHE_HOME/declcheck
	Progress        ProgressFunc
}

func (o Options) jobs(files int) int {
	jobs := o.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, files))
}

func (o Options) extensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions
	}
	return o.Extensions
}

func (o Options) matches(path string) bool {
	for _, ext := range o.extensions() {
		if ext != "" && strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// openCache opens the disk cache if it is enabled. A cache that cannot be
// opened disables caching instead of failing the check.
func (o Options) openCache() (*DiskCache, error) {
	if !o.EnableDiskCache {
		return nil, nil
	}
	if o.CacheDir != "" {
		return OpenDiskCacheAt(o.CacheDir)
	}
	return OpenDiskCache("declcheck")
}
