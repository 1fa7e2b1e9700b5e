// Copyright © 2018 One Concern

// Package storage provides access to files of a local repository tree:
// module documents, batches of declarative content and import reports.
//
// The only backend is the local file system (or any afero file system).
package storage
