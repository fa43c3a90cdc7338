// Package engine ties the parser, tangler, stitcher, FileDB, and
// transaction engine together behind the API surface the CLI drives:
// tangle, stitch, sync, status, locate, reset. A Context holds
// exclusive, single-threaded use of one project's config and FileDB —
// there is no shared mutable state across Contexts.
package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/entangled-go/entangled/internal/block"
	"github.com/entangled-go/entangled/internal/config"
	"github.com/entangled-go/entangled/internal/docparser"
	"github.com/entangled-go/entangled/internal/filedb"
	"github.com/entangled-go/entangled/internal/lang"
)

// Context is a single project's working state: its loaded config, FileDB,
// and language table, rooted at BaseDir.
type Context struct {
	BaseDir string
	Config  config.Config
	DB      *filedb.DB
	Table   *lang.Table
}

// New loads entangled.toml and the FileDB from baseDir.
func New(baseDir string) (*Context, error) {
	cfg, err := config.Load(baseDir)
	if err != nil {
		return nil, err
	}
	db, err := filedb.Load(filepath.Join(baseDir, cfg.FiledbPath))
	if err != nil {
		return nil, err
	}
	return &Context{
		BaseDir: baseDir,
		Config:  cfg,
		DB:      db,
		Table:   lang.NewTable(cfg.Languages),
	}, nil
}

// SaveDB persists the FileDB. It is the only operation that advances
// persisted state; callers must call it after every successful apply.
func (c *Context) SaveDB() error {
	return c.DB.Save()
}

// abs resolves a project-relative path against BaseDir.
func (c *Context) abs(rel string) string {
	return filepath.Join(c.BaseDir, rel)
}

// AbsPath exposes abs for callers outside the package (e.g. the watch
// loop, which needs real filesystem paths to stat).
func (c *Context) AbsPath(rel string) string {
	return c.abs(rel)
}

// rel converts an absolute path back to BaseDir-relative, slash-normalized
// form — the form the FileDB persists paths in.
func (c *Context) rel(absPath string) string {
	r, err := filepath.Rel(c.BaseDir, absPath)
	if err != nil {
		return absPath
	}
	return filepath.ToSlash(r)
}

// LoadDocuments discovers and parses every Markdown source under BaseDir
// matching Config.SourcePatterns, in deterministic (lexicographic) order.
// The returned map holds each source's on-disk content hash at read time,
// so a successful apply can record the Markdown side in the FileDB too.
func (c *Context) LoadDocuments() ([]*block.Document, *block.BlockIndex, map[string]string, error) {
	paths, err := DiscoverSources(c.BaseDir, c.Config.SourcePatterns)
	if err != nil {
		return nil, nil, nil, err
	}

	docs := make([]*block.Document, 0, len(paths))
	hashes := make(map[string]string, len(paths))
	for _, rel := range paths {
		data, err := os.ReadFile(c.abs(rel))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("reading %s: %w", rel, err)
		}
		hashes[rel] = filedb.Hash(string(data))
		doc, err := docparser.Parse(string(data), rel, c.Config)
		if err != nil {
			return nil, nil, nil, err
		}
		docs = append(docs, doc)
	}

	idx := block.NewBlockIndex(docs)
	return docs, idx, hashes, nil
}

// setSourceEntry records a source Markdown file's last-seen content hash,
// preserving whatever else an existing entry may already carry.
func (c *Context) setSourceEntry(relPath, hash string) {
	entry, _ := c.DB.Get(relPath)
	entry.Path = relPath
	entry.Hash = hash
	c.DB.Set(entry)
}

// ownersFor returns the sorted, deduplicated set of source Markdown files
// whose root blocks contribute to target.
func ownersFor(docs []*block.Document, target string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, doc := range docs {
		for _, b := range doc.Blocks() {
			if b.Target == target && !seen[doc.Path] {
				seen[doc.Path] = true
				out = append(out, doc.Path)
			}
		}
	}
	return out
}
