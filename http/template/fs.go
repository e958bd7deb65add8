package template

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sync"
)

// mergeFS implements fs.FS
type mergeFS struct {
	// A cache for minimizing ascertaining which directory holds the template.
	cache map[string]func(string) (fs.File, error)

	// Current working directory, or, embedded filesystem
	userDir fs.FS

	// Package-level directory embedding tmpl/
	pkgDir fs.FS

	sync.RWMutex
}

// Open opens the file matching the name using the following strategy:
//   - check the cache
//   - check the user's filesystem
//   - check the package-level virtual filesystem
//
// Whenever a file is found and is not present in the cache, it is added.
// Nothing removes references from the cache.
func (mfs *mergeFS) Open(name string) (fs.File, error) {
	mfs.RLock()
	fn, ok := mfs.cache[name]
	mfs.RUnlock()
	if ok {
		return fn(name)
	}

	file, err := mfs.userDir.Open(name)
	if err == nil {
		mfs.remember(name, mfs.userDir.Open)
		return file, nil
	}

	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
		file, err = mfs.pkgDir.Open(name)
		if err != nil {
			return nil, fmt.Errorf("could not open template %s: %w", name, err)
		}

		mfs.remember(name, mfs.pkgDir.Open)
		return file, nil
	}

	return nil, fmt.Errorf("unable to open template: %w", err)
}

func (mfs *mergeFS) remember(name string, fn func(string) (fs.File, error)) {
	mfs.Lock()
	mfs.cache[name] = fn
	mfs.Unlock()
}

//go:embed tmpl/*
var pkgFS embed.FS
