// © 2026 The imp authors
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"gopkg.implang.org/impc/internal/exc"
	"gopkg.implang.org/impc/internal/lang"
)

type Option func(c *frontend) error

func OptionWithFS(fs lang.FileSystem) Option {
	return func(c *frontend) error {
		c.FS = fs
		return nil
	}
}

func OptionWithLookupEnv(lookupEnv func(string) (string, bool)) Option {
	return func(c *frontend) error {
		c.LookupENV = lookupEnv
		return nil
	}
}

func OptionWithExcReporter(reporter exc.Reporter) Option {
	return func(c *frontend) error {
		c.Reporter = reporter
		return nil
	}
}

func New(opts ...Option) (lang.Frontend, error) {
	c := &frontend{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.LookupENV == nil {
		c.LookupENV = os.LookupEnv
	}
	if c.FS == nil {
		dfs, err := NewDefaultFS(c.LookupENV)
		if err != nil {
			return nil, err
		}
		c.FS = dfs
	}
	if c.MaxConcurrency == 0 {
		max := runtime.GOMAXPROCS(-1)
		cpus := runtime.NumCPU()
		if max > cpus {
			max = cpus
		}
		c.MaxConcurrency = max
	}
	if c.Semaphore == nil {
		c.Semaphore = newSemaphore(c.MaxConcurrency)
	}
	if c.Reporter == nil {
		c.Reporter = exc.NewReporter(nil)
	}
	if c.SubCompilers == nil {
		c.SubCompilers = DefaultSubCompilers()
	}
	return c, nil
}

type frontend struct {
	LookupENV      func(string) (string, bool)
	FS             lang.FileSystem
	MaxConcurrency int
	Semaphore      *semaphore
	Reporter       exc.Reporter
	SubCompilers   map[lang.FileKind]SubCompiler
}

func (self *frontend) Compile(ctx context.Context, req *lang.CompileRequest) (*lang.CompileResponse, error) {
	targets := make([]string, 0, len(req.Files))
	for _, f := range req.Files {
		targets = append(targets, self.targetURI(ctx, f))
	}
	files := make([]lang.File, 0, len(targets))
	for _, target := range targets {
		in, err := self.FS.Open(ctx, target)
		if err != nil {
			return nil, err
		}
		for _, inf := range in {
			if inf.Kind(ctx) == lang.FileKindNone {
				continue
			}
			files = append(files, inf)
		}
	}
	units := make([]*lang.Unit, 0, len(files))
	loaded := &sync.Map{}
	results := make(chan fileResult)
	expectedResults := len(files)

	for _, file := range files {
		go func(file lang.File) {
			unit, err := self.compileFile(ctx, file, loaded, req.DumpTokens)
			results <- fileResult{unit, err}
		}(file)
	}

	for x := 0; x < expectedResults; x = x + 1 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case result := <-results:
			if result.err != nil {
				return nil, result.err
			}
			if result.unit != nil {
				units = append(units, result.unit)
			}
		}
	}

	final := &lang.CompileResponse{}
	included := make(map[string]bool)
	for _, unit := range units {
		if _, ok := included[unit.URI]; ok {
			continue
		}
		included[unit.URI] = true
		final.Units = append(final.Units, unit)
	}
	caught := self.Reporter.Reported()
	if len(caught) > 0 {
		return final, MultiException(caught)
	}
	return final, nil
}

func (self *frontend) compileFile(ctx context.Context, file lang.File, loaded *sync.Map, dumpTokens bool) (*lang.Unit, error) {
	self.Semaphore.Lock()
	defer self.Semaphore.Unlock()
	if _, ok := loaded.Load(file.Path(ctx)); ok {
		return nil, nil
	}
	loaded.Store(file.Path(ctx), true)
	sc := self.SubCompilers[file.Kind(ctx)]
	if sc == nil {
		e := exc.New(exc.Location{URI: file.Path(ctx)}, exc.CodeUnsupportedFileFormat, "Unsupported file format")
		return nil, self.Reporter.Report(e)
	}
	return sc.CompileFile(ctx, self.Reporter, file, dumpTokens)
}

func (self *frontend) targetURI(ctx context.Context, target string) string {
	// Targets may be any valid URI or file path. File paths and file URIs
	// are converted to an absolute form so that they resolve against the
	// local implementation of the FileSystem interface. All non-file URIs
	// are left as-is with the expectation that they will be handled by some
	// other implementation.
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "" && u.Scheme != "file") {
		return target
	}
	if u.Scheme == "file" {
		target = u.Path
	}
	if !filepath.IsAbs(target) {
		return filepath.Join("/", target)
	}
	return target
}

type fileResult struct {
	unit *lang.Unit
	err  error
}

type MultiException []exc.Exception

func (self MultiException) Error() string {
	var b strings.Builder
	for _, err := range self[:len(self)-1] {
		b.WriteString(err.Error())
		b.WriteString("; ")
	}
	b.WriteString(self[len(self)-1].Error())
	return b.String()
}
