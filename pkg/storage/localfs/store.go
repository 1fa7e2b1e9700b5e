// Copyright © 2018 One Concern

// Package localfs implements a repository tree on an afero file system
package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/oneconcern/rpmsync/pkg/storage"
	"github.com/oneconcern/rpmsync/pkg/storage/status"
	"github.com/spf13/afero"
)

// New creates a new file system backed storage. A nil fs means the current
// directory of the OS file system.
func New(fs afero.Fs) storage.Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &localFS{
		fs: fs,
	}
}

// NewAt creates a storage rooted at some directory of the OS file system
func NewAt(root string) storage.Store {
	if root == "" {
		return New(nil)
	}
	return New(afero.NewBasePathFs(afero.NewOsFs(), root))
}

type localFS struct {
	fs afero.Fs
}

func (l *localFS) Has(ctx context.Context, key string) (bool, error) {
	if err := validKey(key); err != nil {
		return false, err
	}
	fi, err := l.fs.Stat(key)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	return !fi.IsDir(), nil
}

func (l *localFS) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	has, err := l.Has(ctx, key)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, status.ErrNotExists.Wrapf("%s", key)
	}
	return l.fs.Open(key)
}

// Put writes through a staging file renamed into place, so that readers never
// see a partial file
func (l *localFS) Put(ctx context.Context, key string, source io.Reader, exclusive bool) error {
	if err := validKey(key); err != nil {
		return err
	}
	if exclusive {
		has, err := l.Has(ctx, key)
		if err != nil {
			return err
		}
		if has {
			return status.ErrExists.Wrapf("%s", key)
		}
	}

	dir := filepath.Dir(key)
	if err := l.fs.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("ensuring directories for %q: %v", key, err)
	}
	target, err := afero.TempFile(l.fs, dir, "."+filepath.Base(key)+"-")
	if err != nil {
		return fmt.Errorf("create record for %q: %v", key, err)
	}
	staged := target.Name()
	if _, err = io.Copy(target, source); err != nil {
		_ = target.Close()
		_ = l.fs.Remove(staged)
		return fmt.Errorf("write record for %q: %v", key, err)
	}
	if err = target.Close(); err != nil {
		_ = l.fs.Remove(staged)
		return err
	}
	return l.fs.Rename(staged, key)
}

func (l *localFS) Delete(ctx context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	if err := l.fs.Remove(key); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %q: %v", key, err)
	}
	return nil
}

func (l *localFS) Keys(ctx context.Context) ([]string, error) {
	return l.KeysPrefix(ctx, "")
}

// KeysPrefix lists files whose path starts with prefix, in lexical order
func (l *localFS) KeysPrefix(ctx context.Context, prefix string) ([]string, error) {
	const root = "."

	var res []string
	e := afero.Walk(l.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == root || info.IsDir() {
			return nil
		}
		if strings.HasPrefix(path, prefix) {
			res = append(res, path)
		}
		return nil
	})
	if e != nil {
		return nil, e
	}
	sort.Strings(res)
	return res, nil
}

func (l *localFS) String() string {
	const localfs = "localfs"
	switch fs := l.fs.(type) {
	case *afero.BasePathFs:
		pp, err := fs.RealPath("")
		if err != nil {
			return localfs
		}
		return localfs + "@" + pp
	default:
		return localfs
	}
}

// validKey rejects keys escaping the tree
func validKey(key string) error {
	if key == "" {
		return status.ErrInvalidResource.Wrapf("empty key")
	}
	clean := filepath.ToSlash(filepath.Clean(key))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return status.ErrInvalidResource.Wrapf("%q is outside of the tree", key)
	}
	return nil
}
