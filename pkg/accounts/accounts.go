// Package accounts stores account state produced at genesis.
//
// Records follow Solana's account structure:
// - Lamports: balance
// - Data: opaque bytes, bytecode or loader metadata for programs
// - Owner: the program (or loader) allowed to modify the account
// - Executable: whether the runtime may invoke the account directly
// - RentEpoch: always 0 for genesis accounts
//
// Two DB implementations are provided: MemoryDB for tests and tooling, and
// BadgerDB for persistent storage. Neither interprets account data.
package accounts

import (
	"encoding/binary"
	"errors"

	"github.com/fortiblox/x1-genesis/internal/types"
)

var (
	// ErrAccountNotFound is returned when an account doesn't exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrClosed is returned when operating on a closed database.
	ErrClosed = errors.New("database closed")

	// ErrInvalidData is returned when account data is malformed.
	ErrInvalidData = errors.New("invalid account data")
)

// MaxAccountDataSize is the maximum size of account data (10 MiB).
const MaxAccountDataSize = 10 * 1024 * 1024

// serializedHeaderSize is the fixed part of a serialized account:
// lamports (8) + data_len (8) + owner (32) + executable (1) + rent_epoch (8).
const serializedHeaderSize = 8 + 8 + 32 + 1 + 8

// Account represents a single account in the state.
type Account struct {
	// Lamports is the account balance in lamports.
	Lamports uint64

	// Data is the account data. For program accounts, this contains bytecode
	// or loader metadata.
	Data []byte

	// Owner is the program that owns this account.
	Owner types.Pubkey

	// Executable indicates if this is a program account.
	Executable bool

	// RentEpoch is the epoch at which rent was last collected.
	RentEpoch uint64
}

// AccountEntry pairs a pubkey with its account.
type AccountEntry struct {
	Pubkey  types.Pubkey
	Account *Account
}

// Clone creates a deep copy of the account.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	dataCopy := make([]byte, len(a.Data))
	copy(dataCopy, a.Data)
	return &Account{
		Lamports:   a.Lamports,
		Data:       dataCopy,
		Owner:      a.Owner,
		Executable: a.Executable,
		RentEpoch:  a.RentEpoch,
	}
}

// IsZero returns true if the account has no lamports and no data.
// Zero accounts are deleted from storage.
func (a *Account) IsZero() bool {
	return a.Lamports == 0 && len(a.Data) == 0
}

// DataLen returns the length of account data.
func (a *Account) DataLen() int {
	return len(a.Data)
}

// Size returns the total serialized size of the account.
func (a *Account) Size() int {
	return serializedHeaderSize + len(a.Data)
}

// Serialize encodes the account to bytes for storage.
// Format: lamports (8) + data_len (8) + data + owner (32) + executable (1) + rent_epoch (8)
func (a *Account) Serialize() []byte {
	buf := make([]byte, a.Size())
	offset := 0

	binary.LittleEndian.PutUint64(buf[offset:], a.Lamports)
	offset += 8

	binary.LittleEndian.PutUint64(buf[offset:], uint64(len(a.Data)))
	offset += 8

	copy(buf[offset:], a.Data)
	offset += len(a.Data)

	copy(buf[offset:], a.Owner[:])
	offset += 32

	if a.Executable {
		buf[offset] = 1
	}
	offset++

	binary.LittleEndian.PutUint64(buf[offset:], a.RentEpoch)

	return buf
}

// DeserializeAccount decodes an account from bytes.
func DeserializeAccount(data []byte) (*Account, error) {
	if len(data) < serializedHeaderSize {
		return nil, ErrInvalidData
	}

	offset := 0

	lamports := binary.LittleEndian.Uint64(data[offset:])
	offset += 8

	dataLen := binary.LittleEndian.Uint64(data[offset:])
	offset += 8

	if dataLen > MaxAccountDataSize {
		return nil, ErrInvalidData
	}
	if uint64(len(data)-offset) < dataLen+41 { // owner + executable + rent_epoch
		return nil, ErrInvalidData
	}

	accountData := make([]byte, dataLen)
	copy(accountData, data[offset:offset+int(dataLen)])
	offset += int(dataLen)

	var owner types.Pubkey
	copy(owner[:], data[offset:offset+32])
	offset += 32

	executable := data[offset] != 0
	offset++

	rentEpoch := binary.LittleEndian.Uint64(data[offset:])

	return &Account{
		Lamports:   lamports,
		Data:       accountData,
		Owner:      owner,
		Executable: executable,
		RentEpoch:  rentEpoch,
	}, nil
}

// DB is the accounts database interface.
// Implementations must be safe for concurrent read access.
type DB interface {
	// GetAccount retrieves an account by public key.
	// Returns ErrAccountNotFound if the account doesn't exist.
	GetAccount(pubkey types.Pubkey) (*Account, error)

	// SetAccount stores an account.
	// If the account is zero (no lamports and no data), it will be deleted.
	SetAccount(pubkey types.Pubkey, account *Account) error

	// DeleteAccount removes an account.
	// Returns nil if the account doesn't exist.
	DeleteAccount(pubkey types.Pubkey) error

	// HasAccount checks if an account exists.
	HasAccount(pubkey types.Pubkey) (bool, error)

	// GetSlot returns the current slot.
	GetSlot() uint64

	// SetSlot updates the current slot.
	SetSlot(slot uint64) error

	// AccountsCount returns the total number of accounts.
	AccountsCount() (uint64, error)

	// Commit commits pending changes to disk.
	Commit() error

	// Close closes the database.
	Close() error
}

// Iterable is implemented by databases that can visit every account.
type Iterable interface {
	// IterateAccounts calls fn for each stored account.
	// Return an error from fn to stop iteration.
	IterateAccounts(fn func(pubkey types.Pubkey, account *Account) error) error
}

// MemoryDB is an in-memory implementation of DB.
type MemoryDB struct {
	accounts map[types.Pubkey]*Account
	slot     uint64
	closed   bool
}

// NewMemoryDB creates a new in-memory accounts database.
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		accounts: make(map[types.Pubkey]*Account),
	}
}

// GetAccount retrieves an account.
func (m *MemoryDB) GetAccount(pubkey types.Pubkey) (*Account, error) {
	if m.closed {
		return nil, ErrClosed
	}
	acc, ok := m.accounts[pubkey]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return acc.Clone(), nil
}

// SetAccount stores an account.
func (m *MemoryDB) SetAccount(pubkey types.Pubkey, account *Account) error {
	if m.closed {
		return ErrClosed
	}
	if account.IsZero() {
		delete(m.accounts, pubkey)
		return nil
	}
	m.accounts[pubkey] = account.Clone()
	return nil
}

// DeleteAccount removes an account.
func (m *MemoryDB) DeleteAccount(pubkey types.Pubkey) error {
	if m.closed {
		return ErrClosed
	}
	delete(m.accounts, pubkey)
	return nil
}

// HasAccount checks if an account exists.
func (m *MemoryDB) HasAccount(pubkey types.Pubkey) (bool, error) {
	if m.closed {
		return false, ErrClosed
	}
	_, ok := m.accounts[pubkey]
	return ok, nil
}

// GetSlot returns the current slot.
func (m *MemoryDB) GetSlot() uint64 {
	return m.slot
}

// SetSlot updates the current slot.
func (m *MemoryDB) SetSlot(slot uint64) error {
	if m.closed {
		return ErrClosed
	}
	m.slot = slot
	return nil
}

// AccountsCount returns the number of accounts.
func (m *MemoryDB) AccountsCount() (uint64, error) {
	if m.closed {
		return 0, ErrClosed
	}
	return uint64(len(m.accounts)), nil
}

// Commit is a no-op for MemoryDB.
func (m *MemoryDB) Commit() error {
	if m.closed {
		return ErrClosed
	}
	return nil
}

// Close closes the database.
func (m *MemoryDB) Close() error {
	m.closed = true
	m.accounts = nil
	return nil
}

// IterateAccounts visits every account in unspecified order.
func (m *MemoryDB) IterateAccounts(fn func(pubkey types.Pubkey, account *Account) error) error {
	if m.closed {
		return ErrClosed
	}
	for k, v := range m.accounts {
		if err := fn(k, v.Clone()); err != nil {
			return err
		}
	}
	return nil
}

var (
	_ DB       = (*MemoryDB)(nil)
	_ Iterable = (*MemoryDB)(nil)
)
