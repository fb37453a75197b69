package accounts

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"

	"github.com/fortiblox/x1-genesis/internal/types"
)

// Key prefixes for BadgerDB storage.
var (
	// prefixAccount is the prefix for account data.
	// Key format: prefixAccount + pubkey (32 bytes)
	prefixAccount = []byte{0x01}

	// prefixMeta is the prefix for metadata.
	prefixMeta = []byte{0x02}

	metaSlot          = append(append([]byte{}, prefixMeta...), "slot"...)
	metaAccountsCount = append(append([]byte{}, prefixMeta...), "count"...)
)

// BadgerDBConfig contains configuration for BadgerDB.
type BadgerDBConfig struct {
	// Path is the directory path for the database.
	Path string

	// InMemory runs the database in memory (for testing).
	InMemory bool

	// ReadOnly opens an existing database without write access.
	// Metadata is not committed on Close.
	ReadOnly bool

	// SyncWrites ensures writes are synced to disk.
	SyncWrites bool

	// NumCompactors is the number of compaction workers.
	NumCompactors int

	// NumMemtables is the number of memtables.
	NumMemtables int

	// ValueLogFileSize is the size of each value log file.
	ValueLogFileSize int64

	// Logger is an optional logger. Set to nil to disable logging.
	Logger badger.Logger
}

// DefaultBadgerDBConfig returns default configuration.
// Genesis is written once, so writes are synced.
func DefaultBadgerDBConfig(path string) BadgerDBConfig {
	return BadgerDBConfig{
		Path:             path,
		SyncWrites:       true,
		NumCompactors:    2,
		NumMemtables:     2,
		ValueLogFileSize: 64 << 20,
	}
}

// BadgerDB is a BadgerDB-backed implementation of the accounts database.
//
// Accounts are stored under prefixAccount+pubkey in the compact Serialize
// format; slot and count live under prefixMeta and are cached in memory.
type BadgerDB struct {
	db *badger.DB

	slot          atomic.Uint64
	accountsCount atomic.Uint64

	// mu serializes writers so count tracking stays consistent.
	mu sync.Mutex

	readOnly bool
	closed   atomic.Bool
}

// NewBadgerDB creates a new BadgerDB-backed accounts database.
func NewBadgerDB(cfg BadgerDBConfig) (*BadgerDB, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = opts.WithInMemory(true).WithDir("").WithValueDir("")
	}
	if cfg.ReadOnly {
		opts = opts.WithReadOnly(true)
	}

	opts = opts.
		WithSyncWrites(cfg.SyncWrites).
		WithNumCompactors(cfg.NumCompactors).
		WithNumMemtables(cfg.NumMemtables).
		WithValueLogFileSize(cfg.ValueLogFileSize).
		WithLogger(cfg.Logger)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	bdb := &BadgerDB{db: db, readOnly: cfg.ReadOnly}
	if err := bdb.loadMetadata(); err != nil {
		db.Close()
		return nil, fmt.Errorf("load metadata: %w", err)
	}
	return bdb, nil
}

// loadMetadata loads slot and count from disk.
func (b *BadgerDB) loadMetadata() error {
	return b.db.View(func(txn *badger.Txn) error {
		slot, err := readMetaU64(txn, metaSlot)
		if err != nil {
			return err
		}
		b.slot.Store(slot)

		count, err := readMetaU64(txn, metaAccountsCount)
		if err != nil {
			return err
		}
		b.accountsCount.Store(count)
		return nil
	})
}

func readMetaU64(txn *badger.Txn, key []byte) (uint64, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var v uint64
	err = item.Value(func(val []byte) error {
		if len(val) >= 8 {
			v = binary.LittleEndian.Uint64(val)
		}
		return nil
	})
	return v, err
}

// accountKey returns the BadgerDB key for an account.
func accountKey(pubkey types.Pubkey) []byte {
	key := make([]byte, 1+types.PubkeySize)
	key[0] = prefixAccount[0]
	copy(key[1:], pubkey[:])
	return key
}

// GetAccount retrieves an account by public key.
func (b *BadgerDB) GetAccount(pubkey types.Pubkey) (*Account, error) {
	if b.closed.Load() {
		return nil, ErrClosed
	}

	var account *Account
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(accountKey(pubkey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrAccountNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			acc, err := DeserializeAccount(val)
			if err != nil {
				return err
			}
			account = acc
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// SetAccount stores an account.
func (b *BadgerDB) SetAccount(pubkey types.Pubkey, account *Account) error {
	if b.closed.Load() {
		return ErrClosed
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	exists, err := b.hasAccount(pubkey)
	if err != nil {
		return err
	}

	if account.IsZero() {
		if !exists {
			return nil
		}
		if err := b.db.Update(func(txn *badger.Txn) error {
			return txn.Delete(accountKey(pubkey))
		}); err != nil {
			return err
		}
		b.accountsCount.Add(^uint64(0))
		return nil
	}

	data := account.Serialize()
	if err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(accountKey(pubkey), data)
	}); err != nil {
		return err
	}
	if !exists {
		b.accountsCount.Add(1)
	}
	return nil
}

// DeleteAccount removes an account.
func (b *BadgerDB) DeleteAccount(pubkey types.Pubkey) error {
	return b.SetAccount(pubkey, &Account{})
}

// HasAccount checks if an account exists.
func (b *BadgerDB) HasAccount(pubkey types.Pubkey) (bool, error) {
	if b.closed.Load() {
		return false, ErrClosed
	}
	return b.hasAccount(pubkey)
}

func (b *BadgerDB) hasAccount(pubkey types.Pubkey) (bool, error) {
	var exists bool
	err := b.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(accountKey(pubkey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		exists = true
		return nil
	})
	return exists, err
}

// GetSlot returns the current slot.
func (b *BadgerDB) GetSlot() uint64 {
	return b.slot.Load()
}

// SetSlot updates the current slot. It is persisted on Commit.
func (b *BadgerDB) SetSlot(slot uint64) error {
	if b.closed.Load() {
		return ErrClosed
	}
	b.slot.Store(slot)
	return nil
}

// AccountsCount returns the total number of accounts.
func (b *BadgerDB) AccountsCount() (uint64, error) {
	if b.closed.Load() {
		return 0, ErrClosed
	}
	return b.accountsCount.Load(), nil
}

// Commit persists metadata (slot, count).
func (b *BadgerDB) Commit() error {
	if b.closed.Load() {
		return ErrClosed
	}
	return b.commit()
}

func (b *BadgerDB) commit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.db.Update(func(txn *badger.Txn) error {
		slotBuf := make([]byte, 8)
		binary.LittleEndian.PutUint64(slotBuf, b.slot.Load())
		if err := txn.Set(metaSlot, slotBuf); err != nil {
			return err
		}

		countBuf := make([]byte, 8)
		binary.LittleEndian.PutUint64(countBuf, b.accountsCount.Load())
		return txn.Set(metaAccountsCount, countBuf)
	})
}

// Close commits metadata and closes the database.
func (b *BadgerDB) Close() error {
	if b.closed.Swap(true) {
		return ErrClosed
	}
	var commitErr error
	if !b.readOnly {
		commitErr = b.commit()
	}
	if err := b.db.Close(); err != nil {
		return err
	}
	return commitErr
}

// IterateAccounts iterates over all accounts in sorted pubkey order.
// Return an error from the callback to stop iteration.
func (b *BadgerDB) IterateAccounts(fn func(pubkey types.Pubkey, account *Account) error) error {
	if b.closed.Load() {
		return ErrClosed
	}

	return b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefixAccount
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := item.Key()
			if len(key) != 1+types.PubkeySize {
				continue
			}
			var pubkey types.Pubkey
			copy(pubkey[:], key[1:])

			err := item.Value(func(val []byte) error {
				account, err := DeserializeAccount(val)
				if err != nil {
					return err
				}
				return fn(pubkey, account)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// BatchWriter provides efficient batch writes.
type BatchWriter struct {
	db      *BadgerDB
	batch   *badger.WriteBatch
	added   map[types.Pubkey]struct{}
	deleted map[types.Pubkey]struct{}
}

// NewBatchWriter creates a new batch writer.
func (b *BadgerDB) NewBatchWriter() *BatchWriter {
	return &BatchWriter{
		db:      b,
		batch:   b.db.NewWriteBatch(),
		added:   make(map[types.Pubkey]struct{}),
		deleted: make(map[types.Pubkey]struct{}),
	}
}

// SetAccount adds an account write to the batch.
func (bw *BatchWriter) SetAccount(pubkey types.Pubkey, account *Account) error {
	if account.IsZero() {
		return bw.DeleteAccount(pubkey)
	}

	if err := bw.batch.Set(accountKey(pubkey), account.Serialize()); err != nil {
		return err
	}

	delete(bw.deleted, pubkey)
	exists, err := bw.db.HasAccount(pubkey)
	if err != nil {
		return err
	}
	if !exists {
		bw.added[pubkey] = struct{}{}
	}
	return nil
}

// DeleteAccount adds an account deletion to the batch.
func (bw *BatchWriter) DeleteAccount(pubkey types.Pubkey) error {
	if _, ok := bw.added[pubkey]; ok {
		delete(bw.added, pubkey)
		return bw.batch.Delete(accountKey(pubkey))
	}
	exists, err := bw.db.HasAccount(pubkey)
	if err != nil {
		return err
	}
	if exists {
		if err := bw.batch.Delete(accountKey(pubkey)); err != nil {
			return err
		}
		bw.deleted[pubkey] = struct{}{}
	}
	return nil
}

// Flush writes all batched operations to disk.
func (bw *BatchWriter) Flush() error {
	if err := bw.batch.Flush(); err != nil {
		return err
	}

	bw.db.accountsCount.Add(uint64(len(bw.added)))
	if n := len(bw.deleted); n > 0 {
		bw.db.accountsCount.Add(^uint64(n - 1))
	}

	bw.added = make(map[types.Pubkey]struct{})
	bw.deleted = make(map[types.Pubkey]struct{})
	return nil
}

// Cancel cancels the batch without writing.
func (bw *BatchWriter) Cancel() {
	bw.batch.Cancel()
	bw.added = make(map[types.Pubkey]struct{})
	bw.deleted = make(map[types.Pubkey]struct{})
}

// Size returns the size of the database in bytes.
func (b *BadgerDB) Size() (lsm, vlog int64) {
	return b.db.Size()
}

var (
	_ DB       = (*BadgerDB)(nil)
	_ Iterable = (*BadgerDB)(nil)
)
