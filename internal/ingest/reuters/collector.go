package reuters

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/YAQOOBM6874/Smart-IR-System/internal/domain"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/ingest"
)

const corpusGlob = "reut2-*.sgm"

// DirCollector streams raw documents out of a directory of Reuters .sgm
// files, one file at a time.
type DirCollector struct {
	dir    string
	parser *Parser
}

func NewDirCollector(dir string) *DirCollector {
	return &DirCollector{
		dir:    dir,
		parser: NewParser(),
	}
}

func (c *DirCollector) Collect(ctx context.Context) (<-chan ingest.Result[domain.RawDocument], error) {
	files, err := filepath.Glob(filepath.Join(c.dir, corpusGlob))
	if err != nil {
		return nil, fmt.Errorf("glob corpus files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files found in %s", corpusGlob, c.dir)
	}
	sort.Strings(files)

	out := make(chan ingest.Result[domain.RawDocument])
	go func() {
		defer close(out)

		for _, file := range files {
			docs, err := c.parser.ParseFile(file)
			if err != nil {
				select {
				case out <- ingest.Result[domain.RawDocument]{Err: err}:
				case <-ctx.Done():
					return
				}
				continue
			}

			slog.Info("parsed corpus file", "file", filepath.Base(file), "documents", len(docs))

			for _, doc := range docs {
				select {
				case out <- ingest.Result[domain.RawDocument]{Item: doc}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

var _ ingest.Collector[domain.RawDocument] = (*DirCollector)(nil)
