// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package process feeds standard input or files through a renumbering
// session and delivers the result according to the configured mode.
//
// Standard input is one session read line by line. Each file is its own
// session with a counter starting at 0. A file that cannot be read or
// written fails on its own; the remaining files are still processed.
package process

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/inout-renumber/internal/renumber"
	"github.com/pdiddy/inout-renumber/pkg/types"
)

// Recorder receives one record per processed source. The journal store
// implements it.
type Recorder interface {
	Record(ctx context.Context, rec types.RunRecord) error
}

// BatchResult holds the outcome of a multi-file run.
type BatchResult struct {
	Changed   int               `json:"changed" yaml:"changed"`
	Unchanged int               `json:"unchanged" yaml:"unchanged"`
	Failed    int               `json:"failed" yaml:"failed"`
	Records   []types.RunRecord `json:"records" yaml:"records"`
}

// Total returns the number of sources processed.
func (r BatchResult) Total() int {
	return r.Changed + r.Unchanged + r.Failed
}

// HasFailures reports whether any source failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Add counts rec under its status and keeps it in Records.
func (r *BatchResult) Add(rec types.RunRecord) {
	switch rec.Status {
	case types.RunChanged:
		r.Changed++
	case types.RunUnchanged:
		r.Unchanged++
	case types.RunFailed:
		r.Failed++
	}
	r.Records = append(r.Records, rec)
}

// Runner processes sources under one configuration.
type Runner struct {
	mode     types.Mode
	log      *zap.Logger
	recorder Recorder
	now      func() time.Time
	rename   func(oldpath, newpath string) error
}

// New returns a Runner. A nil logger is replaced with a no-op logger and a
// nil recorder disables recording.
func New(cfg types.RunnerConfig, log *zap.Logger, rec Recorder) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	mode := cfg.Mode
	if mode == "" {
		mode = types.ModePrint
	}
	return &Runner{
		mode:     mode,
		log:      log,
		recorder: rec,
		now:      time.Now,
		rename:   os.Rename,
	}
}

// Stream renumbers in as a single session, reading one line at a time.
// In print mode the result is written to w without adding a newline; in list
// mode StdinSource is written if the text changed. Write mode is rejected.
//
// If ctx is cancelled before the input is exhausted, nothing is written and
// ctx.Err() is returned, even while a read is blocked.
func (r *Runner) Stream(ctx context.Context, in io.Reader, w io.Writer) (types.RunRecord, error) {
	rec := r.startRecord(types.StdinSource)
	if r.mode == types.ModeWrite {
		return r.fail(ctx, rec, errors.New("cannot write standard input in place"))
	}

	done := make(chan struct{})
	defer close(done)
	lines := readLines(in, done)

	rn := renumber.New()
	var orig strings.Builder
	for {
		if err := ctx.Err(); err != nil {
			return r.fail(ctx, rec, err)
		}
		var res lineResult
		select {
		case <-ctx.Done():
			return r.fail(ctx, rec, ctx.Err())
		case res = <-lines:
		}
		orig.WriteString(res.line)
		rn.Feed(res.line)
		if res.err == io.EOF {
			break
		}
		if res.err != nil {
			return r.fail(ctx, rec, fmt.Errorf("reading standard input: %w", res.err))
		}
	}

	out := rn.Output()
	r.finishRecord(&rec, rn.Stats(), out != orig.String())

	var err error
	switch r.mode {
	case types.ModeList:
		if rec.Status == types.RunChanged {
			_, err = fmt.Fprintln(w, types.StdinSource)
		}
	default:
		_, err = io.WriteString(w, out)
	}
	if err != nil {
		return r.fail(ctx, rec, fmt.Errorf("writing output: %w", err))
	}

	r.record(ctx, rec)
	return rec, nil
}

// File renumbers one file in its own session.
func (r *Runner) File(ctx context.Context, path string, w io.Writer) (types.RunRecord, error) {
	rec := r.startRecord(path)

	info, err := os.Stat(path)
	if err != nil {
		return r.fail(ctx, rec, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return r.fail(ctx, rec, fmt.Errorf("reading %s: %w", path, err))
	}

	text := string(data)
	rn := renumber.New()
	out := rn.Renumber(strings.Lines(text))
	r.finishRecord(&rec, rn.Stats(), out != text)

	switch r.mode {
	case types.ModeList:
		if rec.Status == types.RunChanged {
			_, err = fmt.Fprintln(w, path)
		}
	case types.ModeWrite:
		if rec.Status == types.RunChanged {
			err = r.replaceFile(path, []byte(out), info.Mode().Perm())
			if err != nil {
				err = fmt.Errorf("writing %s: %w", path, err)
			}
		}
	default:
		_, err = io.WriteString(w, out)
	}
	if err != nil {
		return r.fail(ctx, rec, err)
	}

	r.record(ctx, rec)
	return rec, nil
}

// Files processes each path independently, in order, and returns a summary.
// Processing stops early only when ctx is cancelled.
func (r *Runner) Files(ctx context.Context, paths []string, w io.Writer) BatchResult {
	var result BatchResult
	for _, p := range paths {
		if ctx.Err() != nil {
			break
		}
		rec, _ := r.File(ctx, p, w)
		result.Add(rec)
	}
	r.log.Info("batch complete",
		zap.Int("changed", result.Changed),
		zap.Int("unchanged", result.Unchanged),
		zap.Int("failed", result.Failed))
	return result
}

type lineResult struct {
	line string
	err  error
}

// readLines reads in one line at a time on its own goroutine so a blocked
// read never holds up cancellation. The goroutine exits after the first
// error, or once done is closed and its pending send is abandoned.
func readLines(in io.Reader, done <-chan struct{}) <-chan lineResult {
	lines := make(chan lineResult)
	go func() {
		br := bufio.NewReader(in)
		for {
			line, err := br.ReadString('\n')
			select {
			case lines <- lineResult{line: line, err: err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return lines
}

// replaceFile writes data to a temporary file next to path and renames it
// over path, so a failed write leaves the original untouched.
func (r *Runner) replaceFile(path string, data []byte, perm fs.FileMode) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			os.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err = f.Chmod(perm); err != nil {
		f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return r.rename(tmp, path)
}

func (r *Runner) startRecord(source string) types.RunRecord {
	return types.RunRecord{
		Source:    source,
		Mode:      r.mode,
		StartedAt: r.now().UTC(),
	}
}

func (r *Runner) finishRecord(rec *types.RunRecord, s renumber.Stats, changed bool) {
	rec.InMarkers = s.InMarkers
	rec.OutMarkers = s.OutMarkers
	rec.Resets = s.Resets
	rec.FinalNumber = s.Final
	rec.Status = types.RunUnchanged
	if changed {
		rec.Status = types.RunChanged
	}
	rec.Duration = r.now().UTC().Sub(rec.StartedAt)
	r.log.Debug("renumbered",
		zap.String("source", rec.Source),
		zap.String("status", string(rec.Status)),
		zap.Int("in_markers", rec.InMarkers),
		zap.Int("out_markers", rec.OutMarkers),
		zap.Int("resets", rec.Resets))
}

func (r *Runner) fail(ctx context.Context, rec types.RunRecord, err error) (types.RunRecord, error) {
	rec.Status = types.RunFailed
	rec.Error = err.Error()
	rec.Duration = r.now().UTC().Sub(rec.StartedAt)
	r.log.Error("renumber failed", zap.String("source", rec.Source), zap.Error(err))
	// Record with a fresh context so interrupted runs still reach the journal.
	r.record(context.WithoutCancel(ctx), rec)
	return rec, err
}

func (r *Runner) record(ctx context.Context, rec types.RunRecord) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.Record(ctx, rec); err != nil {
		r.log.Warn("journal record failed", zap.String("source", rec.Source), zap.Error(err))
	}
}
