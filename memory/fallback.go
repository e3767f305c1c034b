package memory

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// FallbackFile is the line-delimited JSON file, inside the persistence
// directory, that receives turns the primary backend rejected.
const FallbackFile = "fallback_memory.jsonl"

// fallbackRecord is one line of the fallback file.
type fallbackRecord struct {
	ID       string            `json:"id"`
	Query    string            `json:"query"`
	Response string            `json:"response"`
	Metadata map[string]string `json:"metadata"`
}

// appendFallback writes a single turn to the fallback file, creating
// it on first use. The file is append-only; nothing reads it back into
// the store.
func appendFallback(dir string, rec fallbackRecord) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(dir, FallbackFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return err
	}
	return f.Sync()
}
