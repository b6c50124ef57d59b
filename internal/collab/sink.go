package collab

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jroosing/hydrabrute/internal/discovery"
)

// ResultSink writes a scan's final, frozen result set. Output
// serialisation sits outside the core engine, but a runnable CLI needs at
// least one writer.
type ResultSink interface {
	Write(ctx context.Context, names []discovery.Name, summary discovery.Summary) error
}

// JSONResultSink writes the result set as a single JSON document.
type JSONResultSink struct {
	Out io.Writer
}

type jsonResult struct {
	Names   []discovery.Name  `json:"names"`
	Summary discovery.Summary `json:"summary"`
}

// Write implements ResultSink.
func (s JSONResultSink) Write(_ context.Context, names []discovery.Name, summary discovery.Summary) error {
	enc := json.NewEncoder(s.Out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonResult{Names: names, Summary: summary}); err != nil {
		return fmt.Errorf("collab: encode json result: %w", err)
	}
	return nil
}

// PlainTextResultSink writes one tab-separated "name type rdata" line per
// discovery, followed by a summary line.
type PlainTextResultSink struct {
	Out io.Writer
}

// Write implements ResultSink.
func (s PlainTextResultSink) Write(_ context.Context, names []discovery.Name, summary discovery.Summary) error {
	for _, n := range names {
		if _, err := fmt.Fprintf(s.Out, "%s\t%s\t%s\n", n.QueriedName, n.RecordType, n.RDataText); err != nil {
			return fmt.Errorf("collab: write result line: %w", err)
		}
	}
	_, err := fmt.Fprintf(s.Out, "# total=%d unique_rdata=%d\n", summary.Total, summary.UniqueRDATA)
	if err != nil {
		return fmt.Errorf("collab: write summary line: %w", err)
	}
	return nil
}
