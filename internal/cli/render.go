package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/roach88/cpconfirm/internal/confirm"
)

// RenderText writes the human-readable verdict for a report.
//
// Verbose mode annotates each missing path with its reason, distinguishing
// content confirmed absent from files that could not be verified because
// they were unreadable.
func RenderText(w io.Writer, r *confirm.Report, verbose bool) {
	if r.AllPresent {
		fmt.Fprintln(w, "All files present in destinations.")
		return
	}

	fmt.Fprintln(w, "Missing files:")
	for _, mf := range r.Missing {
		if !verbose {
			fmt.Fprintln(w, mf.Path)
			continue
		}
		switch mf.Reason {
		case confirm.ReasonUnreadable:
			fmt.Fprintf(w, "%s (unreadable: %s)\n", mf.Path, mf.Detail)
		default:
			fmt.Fprintf(w, "%s (%s)\n", mf.Path, mf.Reason)
		}
	}
}

// FoundMap flattens the report's found map to destination-relative paths,
// keyed by source-relative path. Digests never appear in the output.
func FoundMap(r *confirm.Report) map[string][]string {
	out := make(map[string][]string, len(r.Found))
	for src, locs := range r.Found {
		paths := make([]string, 0, len(locs))
		for _, loc := range locs {
			paths = append(paths, loc.Path)
		}
		out[src] = paths
	}
	return out
}

// WriteFoundJSON serializes the found map as indented JSON. Map keys are
// emitted in sorted order, so output is deterministic.
func WriteFoundJSON(w io.Writer, r *confirm.Report) error {
	data, err := json.MarshalIndent(FoundMap(r), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal found map: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// WriteFoundFile writes the found map JSON to the given file path.
func WriteFoundFile(path string, r *confirm.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteFoundJSON(f, r); err != nil {
		return err
	}
	return f.Close()
}
