// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package badger

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// Backend wraps a BadgerDB instance and provides low-level operations.
type Backend struct {
	db       *badger.DB
	logger   *slog.Logger
	readOnly bool
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// BackendOption configures how a Backend is opened.
type BackendOption func(*backendOptions)

type backendOptions struct {
	readOnly bool
	logger   *slog.Logger
}

// ReadOnly opens the database without write access.
// Several processes may share a read-only knowledge base directory.
func ReadOnly() BackendOption {
	return func(o *backendOptions) {
		o.readOnly = true
	}
}

// WithBackendLogger sets the logger badger reports through.
func WithBackendLogger(logger *slog.Logger) BackendOption {
	return func(o *backendOptions) {
		o.logger = logger
	}
}

// OpenBackend opens a BadgerDB database at the specified path.
// Creates the directory if it doesn't exist. An in-memory backend ignores filePath.
func OpenBackend(filePath string, inMemory bool, opts ...BackendOption) (*Backend, error) {
	o := backendOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	var bopts badger.Options

	if inMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
		o.readOnly = false
	} else {
		// Ensure directory exists
		info, err := os.Stat(filePath)
		if err != nil {
			if !os.IsNotExist(err) || o.readOnly {
				return nil, err
			}
			if err := os.MkdirAll(filePath, 0755); err != nil {
				return nil, err
			}
			info, err = os.Stat(filePath)
			if err != nil {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		bopts = badger.DefaultOptions(filePath).WithReadOnly(o.readOnly)
	}

	logger := o.logger.With("component", "badger")
	bopts.Logger = &badgerLoggerAdapter{logger: logger}
	bopts.Compression = options.None

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, err
	}

	return &Backend{
		db:       db,
		logger:   logger,
		readOnly: o.readOnly,
	}, nil
}

// Close closes the BadgerDB database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed returns true if the database is closed.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// IsReadOnly reports whether the database was opened without write access.
func (b *Backend) IsReadOnly() bool {
	return b.readOnly
}

// WithTx executes a function within a BadgerDB transaction.
// If isWrite is true, creates a read-write transaction.
// The transaction is automatically discarded if fn returns an error.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// WriteBatch writes key/value pairs through a badger write batch.
// Large imports exceed a single transaction's size limit; the batch splits them.
func (b *Backend) WriteBatch(fn func(wb *badger.WriteBatch) error) error {
	wb := b.db.NewWriteBatch()
	defer wb.Cancel()
	if err := fn(wb); err != nil {
		return err
	}
	return wb.Flush()
}
