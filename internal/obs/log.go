package obs

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

var (
	logMu  sync.Mutex
	logOut io.Writer = os.Stdout
)

// SetLogOutput redirects log output. Tests use this to capture entries.
func SetLogOutput(w io.Writer) {
	logMu.Lock()
	logOut = w
	logMu.Unlock()
}

// Event writes one single-line JSON log entry. The ts, level and msg keys
// are set here; callers supply the rest.
func Event(level, msg string, fields map[string]any) {
	entry := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		entry[k] = v
	}
	entry["ts"] = time.Now().UTC().Format(time.RFC3339)
	entry["level"] = level
	entry["msg"] = msg

	data, err := json.Marshal(entry)
	if err != nil {
		data = []byte(`{"level":"error","msg":"log entry not serializable"}`)
	}
	logMu.Lock()
	defer logMu.Unlock()
	_, _ = logOut.Write(append(data, '\n'))
}

// LogRequest emits the per-request entry written by the logging middleware.
func LogRequest(fields map[string]any) {
	Event("info", "http_request", fields)
}
