// Package collab holds the narrow collaborator contracts the core engine
// depends on but does not implement itself: label sourcing, interface
// resolution, wildcard probing, liveness/enrichment, and result output.
// Each interface is small on purpose, and each ships one reference
// implementation good enough to make a CLI runnable end to end.
package collab

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// LabelSource supplies the label dictionary the Send Engine enumerates
// against every root domain.
type LabelSource interface {
	Labels(ctx context.Context) ([]string, error)
}

// defaultLabels is the built-in dictionary used when neither an in-memory
// list nor a file path is supplied.
var defaultLabels = []string{
	"www", "mail", "ftp", "api", "dev", "staging", "test", "admin",
	"vpn", "portal", "app", "cdn", "static", "assets", "blog", "shop",
	"m", "mobile", "beta", "demo", "git", "ci", "status", "support",
}

// StaticLabelSource is an in-memory label list.
type StaticLabelSource []string

// Labels returns the list verbatim.
func (s StaticLabelSource) Labels(_ context.Context) ([]string, error) {
	return []string(s), nil
}

// FileLabelSource reads a newline-delimited label file, trimming
// whitespace and skipping blank lines.
type FileLabelSource struct {
	Path string
}

// Labels opens and reads the file on every call.
func (f FileLabelSource) Labels(_ context.Context) ([]string, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("collab: open label file %s: %w", f.Path, err)
	}
	defer file.Close()

	var out []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("collab: read label file %s: %w", f.Path, err)
	}
	return out, nil
}

// DefaultLabelSource is the built-in dictionary, lowest priority of the
// three sources.
type DefaultLabelSource struct{}

// Labels returns the built-in default list.
func (DefaultLabelSource) Labels(_ context.Context) ([]string, error) {
	out := make([]string, len(defaultLabels))
	copy(out, defaultLabels)
	return out, nil
}

// SelectLabelSource picks a source by priority: in-memory list if
// non-empty, else file path if non-empty, else the built-in default.
func SelectLabelSource(inMemory []string, filePath string) LabelSource {
	if len(inMemory) > 0 {
		return StaticLabelSource(inMemory)
	}
	if filePath != "" {
		return FileLabelSource{Path: filePath}
	}
	return DefaultLabelSource{}
}
