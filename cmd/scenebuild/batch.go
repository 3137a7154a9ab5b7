package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"scenebuilder/internal/scene"
	"scenebuilder/internal/types"
	"scenebuilder/internal/util/jsonutil"
)

// job is one batch entry. The file is YAML; JSON works since it is a subset.
type job struct {
	Name        string         `yaml:"name"`
	Prompt      string         `yaml:"prompt"`
	Constraints jobConstraints `yaml:"constraints"`
}

type jobConstraints struct {
	TotalDurationSec *int   `yaml:"totalDurationSec"`
	AspectRatio      string `yaml:"aspectRatio"`
	FPS              int    `yaml:"fps"`
	Language         string `yaml:"language"`
	Deterministic    bool   `yaml:"deterministic"`
}

func (c jobConstraints) toTypes() types.Constraints {
	return types.Constraints{
		TotalDurationSec: c.TotalDurationSec,
		AspectRatio:      c.AspectRatio,
		FPS:              c.FPS,
		Language:         c.Language,
		Deterministic:    c.Deterministic,
	}
}

func loadJobs(path string) ([]job, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var jobs []job
	if err := yaml.Unmarshal(b, &jobs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	seen := map[string]bool{}
	for i := range jobs {
		jobs[i].Name = safe(jobs[i].Name)
		if jobs[i].Name == "" {
			jobs[i].Name = fmt.Sprintf("job-%03d", i+1)
		}
		if seen[jobs[i].Name] {
			return nil, fmt.Errorf("duplicate job name %q", jobs[i].Name)
		}
		seen[jobs[i].Name] = true
	}
	return jobs, nil
}

// runBatch renders every job into outDir. A failing job is logged and the
// rest still run; the returned error counts the failures.
func runBatch(ctx context.Context, p *scene.Pipeline, o options, logger *log.Logger) error {
	jobs, err := loadJobs(o.batch)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(o.outDir, 0o755); err != nil {
		return err
	}

	var (
		mu     sync.Mutex
		failed []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(o.concurrency, 1))
	for _, j := range jobs {
		g.Go(func() error {
			res, err := p.Run(gctx, j.Prompt, j.Constraints.toTypes())
			if err == nil {
				err = writeResult(o.outDir, j.Name, o.format, res)
			}
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logger.Printf("job %s: %v", j.Name, err)
				mu.Lock()
				failed = append(failed, j.Name)
				mu.Unlock()
				return nil
			}
			logger.Printf("job %s: %d scene(s) -> %s", j.Name, res.Plan.ScenesCount, o.outDir)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d job(s) failed: %s", len(failed), len(jobs), strings.Join(failed, ", "))
	}
	return nil
}

func writeResult(dir, name, format string, res *scene.Result) error {
	b, err := render(res, format)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, name+"."+format), append(b, '\n'), 0o644)
}

func render(res *scene.Result, format string) ([]byte, error) {
	if format == "yaml" {
		b, err := yaml.Marshal(res)
		return bytes.TrimRight(b, "\n"), err
	}
	return jsonutil.MarshalNoEscapeIndent(res, "  ")
}

func safe(s string) string {
	s = filepath.ToSlash(filepath.Clean(strings.TrimSpace(s)))
	s = strings.Trim(s, "./")
	return strings.NewReplacer("/", "_", " ", "_").Replace(s)
}
