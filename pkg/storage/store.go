// Copyright © 2018 One Concern

package storage

import (
	"context"
	"io"
	"io/ioutil"
)

// MaxObjectSizeInMemory bounds the size of documents read at once
const MaxObjectSizeInMemory = 256 * 1024 * 1024

// Put semantics
const (
	OverWrite   = false
	NoOverWrite = true
)

// Store implementations know how to read and write files of a repository tree
type Store interface {
	String() string
	Has(context.Context, string) (bool, error)
	Get(context.Context, string) (io.ReadCloser, error)
	Put(ctx context.Context, key string, source io.Reader, exclusive bool) error
	Delete(context.Context, string) error
	Keys(context.Context) ([]string, error)
	KeysPrefix(ctx context.Context, prefix string) ([]string, error)
}

// ReadAll reads a whole file from the store
func ReadAll(ctx context.Context, st Store, key string) ([]byte, error) {
	rdr, err := st.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rdr.Close()
	return ioutil.ReadAll(io.LimitReader(rdr, MaxObjectSizeInMemory))
}
