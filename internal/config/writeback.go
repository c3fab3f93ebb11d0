package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/lumeshell/lume/internal/config/paths"
)

// writeKey rewrites exactly one key in the document at file: set the
// value when remove is false, delete the key when remove is true. All
// other keys (including the imports directive) survive the round trip.
// The document is replaced atomically via a temp file and rename.
func writeKey(file string, segs []paths.Segment, value any, remove bool) error {
	table := make(map[string]any)
	data, err := os.ReadFile(file)
	switch {
	case err == nil:
		if uerr := toml.Unmarshal(data, &table); uerr != nil {
			return &WriteBackError{File: file, Reason: "document no longer parses", Err: uerr}
		}
	case os.IsNotExist(err):
		// Root document may be written fresh.
	default:
		return &WriteBackError{File: file, Reason: "reading document", Err: err}
	}

	if err := applyKey(table, segs, value, remove); err != nil {
		return &WriteBackError{File: file, Reason: err.Error()}
	}

	out, err := toml.Marshal(table)
	if err != nil {
		return &WriteBackError{File: file, Reason: "serializing document", Err: err}
	}

	tmp := file + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return &WriteBackError{File: file, Reason: "writing temp file", Err: err}
	}
	if err := os.Rename(tmp, file); err != nil {
		return &WriteBackError{File: file, Reason: "replacing document", Err: err}
	}
	return nil
}

// applyKey navigates the raw table to the addressed key, creating
// intermediate tables for writes, and sets or deletes it.
func applyKey(table map[string]any, segs []paths.Segment, value any, remove bool) error {
	cur := table
	for i, seg := range segs[:len(segs)-1] {
		child, exists := cur[seg.Key]
		if !exists {
			if remove {
				return nil // nothing to delete
			}
			next := make(map[string]any)
			cur[seg.Key] = next
			cur = next
			continue
		}
		if seg.HasIndex {
			arr, ok := child.([]any)
			if !ok || seg.Index >= len(arr) {
				return fmt.Errorf("%s is not an array with index %d", seg.Key, seg.Index)
			}
			elem, ok := arr[seg.Index].(map[string]any)
			if !ok {
				return fmt.Errorf("%s[%d] is not a table", seg.Key, seg.Index)
			}
			cur = elem
			continue
		}
		next, ok := child.(map[string]any)
		if !ok {
			return fmt.Errorf("%s is not a table", paths.String(segs[:i+1]))
		}
		cur = next
	}

	last := segs[len(segs)-1]
	if last.HasIndex {
		if remove {
			return fmt.Errorf("cannot reset array element %s", paths.String(segs))
		}
		arr, ok := cur[last.Key].([]any)
		if !ok {
			return fmt.Errorf("%s is not an array", last.Key)
		}
		if last.Index >= len(arr) {
			return fmt.Errorf("index %d out of range for %s", last.Index, last.Key)
		}
		arr[last.Index] = value
		return nil
	}

	if remove {
		delete(cur, last.Key)
		return nil
	}
	cur[last.Key] = value
	return nil
}
