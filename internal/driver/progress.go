package driver

// ProgressStatus is the state of one file during CheckDir.
type ProgressStatus uint8

const (
	StatusQueued ProgressStatus = iota
	StatusWorking
	StatusDone  // проверен, ошибок нет
	StatusError // проверен, есть диагностики уровня error, или не загрузился
)

// String returns the lowercase label of the status.
func (s ProgressStatus) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusWorking:
		return "checking"
	case StatusDone:
		return "done"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Final reports whether the file has finished, successfully or not.
func (s ProgressStatus) Final() bool {
	return s == StatusDone || s == StatusError
}

// ProgressEvent reports a status change of one file.
type ProgressEvent struct {
	Path   string
	Status ProgressStatus
}

// ProgressFunc receives progress events. CheckDir calls it from worker
// goroutines, so it must be safe for concurrent use.
type ProgressFunc func(ProgressEvent)

func (f ProgressFunc) emit(path string, status ProgressStatus) {
	if f != nil {
		f(ProgressEvent{Path: path, Status: status})
	}
}

// ListFiles returns the files CheckDir would analyse, sorted.
func ListFiles(dir string, opts Options) ([]string, error) {
	return listFiles(dir, opts)
}
