// Package badger implements the storage driver contract on top of BadgerDB.
//
// A directory is a marker key; its subtree is every key under the
// path-plus-slash prefix. Prefix scans give emptiness checks and recursive
// removal without maintaining parent/child link records.
package badger

import (
	"context"
	"errors"
	"path"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/relayfs/relayfs/pkg/driver"
)

// keyPrefix namespaces directory markers so other data can share the
// database without colliding.
const keyPrefix = "dir:"

// BadgerDriver persists a directory namespace in a BadgerDB database.
//
// BadgerDB transactions give atomic visibility for the non-recursive path;
// recursive removal uses a write batch, so a crash mid-delete can leave a
// partially removed subtree, exactly as an interrupted depth-first delete
// would on a real filesystem.
type BadgerDriver struct {
	db *badger.DB
}

// Options configures the BadgerDB database backing the driver.
type Options struct {
	// Path is the database directory. Required.
	Path string

	// InMemory runs the database without persistence. Used by tests.
	InMemory bool
}

// New opens (or creates) the database and ensures the root directory exists.
func New(opts Options) (*BadgerDriver, error) {
	badgerOpts := badger.DefaultOptions(opts.Path).WithLogger(nil)
	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}

	// Root always exists.
	err = db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(markerKey("/")); err == nil {
			return nil
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(markerKey("/"), nil)
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BadgerDriver{db: db}, nil
}

// Close releases the underlying database.
func (d *BadgerDriver) Close() error {
	return d.db.Close()
}

func (d *BadgerDriver) Type() driver.Type {
	return driver.TypeBadger
}

func markerKey(cleanPath string) []byte {
	return []byte(keyPrefix + cleanPath)
}

func childPrefix(cleanPath string) []byte {
	if cleanPath == "/" {
		return []byte(keyPrefix + "/")
	}
	return []byte(keyPrefix + cleanPath + "/")
}

func (d *BadgerDriver) MakeDirectory(ctx context.Context, dirPath string, mode uint32) error {
	if err := ctx.Err(); err != nil {
		return driver.NewError(driver.CodeIO, err.Error(), dirPath)
	}

	clean := path.Clean(dirPath)

	err := d.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(markerKey(clean)); err == nil {
			return driver.NewError(driver.CodeAlreadyExists, "directory already exists", dirPath)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if _, err := txn.Get(markerKey(path.Dir(clean))); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return driver.NewError(driver.CodeNotFound, "parent directory does not exist", dirPath)
			}
			return err
		}

		return txn.Set(markerKey(clean), nil)
	})

	return wrapBadgerError(err, dirPath)
}

func (d *BadgerDriver) RemoveDirectory(ctx context.Context, dirPath string, recursive bool) error {
	if err := ctx.Err(); err != nil {
		return driver.NewError(driver.CodeIO, err.Error(), dirPath)
	}

	clean := path.Clean(dirPath)
	if clean == "/" {
		return driver.NewError(driver.CodeIO, "cannot remove root directory", dirPath)
	}

	if !recursive {
		err := d.db.Update(func(txn *badger.Txn) error {
			if _, err := txn.Get(markerKey(clean)); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return driver.NewError(driver.CodeNotFound, "directory does not exist", dirPath)
				}
				return err
			}

			if hasKeysWithPrefix(txn, childPrefix(clean)) {
				return driver.NewError(driver.CodeNotEmpty, "directory not empty", dirPath)
			}

			return txn.Delete(markerKey(clean))
		})
		return wrapBadgerError(err, dirPath)
	}

	// Recursive removal: collect the subtree, then batch-delete it.
	// A write batch handles subtrees larger than a single transaction.
	keys, err := d.collectSubtree(clean)
	if err != nil {
		return wrapBadgerError(err, dirPath)
	}
	if keys == nil {
		return driver.NewError(driver.CodeNotFound, "directory does not exist", dirPath)
	}

	batch := d.db.NewWriteBatch()
	defer batch.Cancel()

	for _, key := range keys {
		if err := batch.Delete(key); err != nil {
			return wrapBadgerError(err, dirPath)
		}
	}

	return wrapBadgerError(batch.Flush(), dirPath)
}

// collectSubtree returns the marker key plus every key under the directory's
// prefix, or nil if the directory does not exist.
func (d *BadgerDriver) collectSubtree(clean string) ([][]byte, error) {
	var keys [][]byte

	err := d.db.View(func(txn *badger.Txn) error {
		if _, err := txn.Get(markerKey(clean)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				keys = nil
				return nil
			}
			return err
		}

		keys = append(keys, markerKey(clean))

		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = childPrefix(clean)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return keys, nil
}

func hasKeysWithPrefix(txn *badger.Txn, prefix []byte) bool {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix

	it := txn.NewIterator(opts)
	defer it.Close()

	it.Rewind()
	return it.Valid()
}

// wrapBadgerError passes typed driver errors through and maps everything
// else to an I/O failure.
func wrapBadgerError(err error, path string) error {
	if err == nil {
		return nil
	}
	var driverErr *driver.Error
	if errors.As(err, &driverErr) {
		return driverErr
	}
	return driver.NewError(driver.CodeIO, err.Error(), path)
}
