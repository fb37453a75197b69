package accounts

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"testing"

	"github.com/fortiblox/x1-genesis/internal/types"
)

func TestAccountSerialization(t *testing.T) {
	account := &Account{
		Lamports:   1000000000, // 1 SOL
		Data:       []byte("test data"),
		Owner:      types.BPFLoaderAddr,
		Executable: true,
		RentEpoch:  0,
	}

	data := account.Serialize()
	if len(data) != account.Size() {
		t.Fatalf("Serialized size: got %d, want %d", len(data), account.Size())
	}

	restored, err := DeserializeAccount(data)
	if err != nil {
		t.Fatalf("Failed to deserialize: %v", err)
	}

	if restored.Lamports != account.Lamports {
		t.Errorf("Lamports mismatch: got %d, want %d", restored.Lamports, account.Lamports)
	}
	if !bytes.Equal(restored.Data, account.Data) {
		t.Errorf("Data mismatch: got %v, want %v", restored.Data, account.Data)
	}
	if restored.Owner != account.Owner {
		t.Errorf("Owner mismatch: got %v, want %v", restored.Owner, account.Owner)
	}
	if restored.Executable != account.Executable {
		t.Errorf("Executable mismatch: got %v, want %v", restored.Executable, account.Executable)
	}
	if restored.RentEpoch != account.RentEpoch {
		t.Errorf("RentEpoch mismatch: got %d, want %d", restored.RentEpoch, account.RentEpoch)
	}
}

func TestDeserializeAccountInvalid(t *testing.T) {
	if _, err := DeserializeAccount(make([]byte, 10)); !errors.Is(err, ErrInvalidData) {
		t.Errorf("short input: got %v, want ErrInvalidData", err)
	}

	// Declared data length runs past the end of the buffer.
	data := (&Account{Lamports: 1, Data: []byte("abc")}).Serialize()
	data[8] = 200
	if _, err := DeserializeAccount(data); !errors.Is(err, ErrInvalidData) {
		t.Errorf("truncated data: got %v, want ErrInvalidData", err)
	}
}

func TestMemoryDB(t *testing.T) {
	db := NewMemoryDB()
	defer db.Close()

	pubkey := types.TokenProgramAddr
	account := &Account{
		Lamports:   500000000,
		Data:       []byte("account data"),
		Owner:      types.BPFLoaderAddr,
		Executable: true,
	}

	if err := db.SetAccount(pubkey, account); err != nil {
		t.Fatalf("SetAccount failed: %v", err)
	}

	exists, err := db.HasAccount(pubkey)
	if err != nil {
		t.Fatalf("HasAccount failed: %v", err)
	}
	if !exists {
		t.Error("Account should exist")
	}

	retrieved, err := db.GetAccount(pubkey)
	if err != nil {
		t.Fatalf("GetAccount failed: %v", err)
	}
	if retrieved.Lamports != account.Lamports {
		t.Errorf("Retrieved account lamports mismatch")
	}

	count, err := db.AccountsCount()
	if err != nil {
		t.Fatalf("AccountsCount failed: %v", err)
	}
	if count != 1 {
		t.Errorf("AccountsCount: got %d, want 1", count)
	}

	if err := db.DeleteAccount(pubkey); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}
	exists, _ = db.HasAccount(pubkey)
	if exists {
		t.Error("Account should not exist after deletion")
	}

	if _, err := db.GetAccount(pubkey); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("GetAccount after delete: got %v, want ErrAccountNotFound", err)
	}
}

func TestMemoryDBClosed(t *testing.T) {
	db := NewMemoryDB()
	db.Close()

	if _, err := db.GetAccount(types.TokenProgramAddr); !errors.Is(err, ErrClosed) {
		t.Errorf("GetAccount on closed db: got %v, want ErrClosed", err)
	}
	if err := db.SetAccount(types.TokenProgramAddr, &Account{Lamports: 1}); !errors.Is(err, ErrClosed) {
		t.Errorf("SetAccount on closed db: got %v, want ErrClosed", err)
	}
}

func TestAccountHash(t *testing.T) {
	pubkey := types.TokenProgramAddr
	account := &Account{
		Lamports: 1000000000,
		Data:     []byte("test"),
		Owner:    types.BPFLoaderAddr,
	}

	hash1 := ComputeAccountHash(pubkey, account)
	hash2 := ComputeAccountHash(pubkey, account)
	if hash1 != hash2 {
		t.Error("Same account should produce same hash")
	}
	if hash1.IsZero() {
		t.Error("Funded account should not hash to zero")
	}

	account.Executable = true
	if ComputeAccountHash(pubkey, account) == hash1 {
		t.Error("Executable flag should change the hash")
	}

	if ComputeAccountHash(types.Token2022ProgramAddr, account) == ComputeAccountHash(pubkey, account) {
		t.Error("Pubkey should change the hash")
	}

	account.Lamports = 0
	if !ComputeAccountHash(pubkey, account).IsZero() {
		t.Error("Account without lamports should hash to zero")
	}
}

func TestMerkleRoot(t *testing.T) {
	empty := ComputeMerkleRoot(nil)
	if empty != types.Hash(sha256.Sum256(nil)) {
		t.Error("Empty merkle root should be the hash of nothing")
	}

	h1 := types.ComputeHash([]byte("test1"))
	root1 := ComputeMerkleRoot([]types.Hash{h1})
	if root1 != types.Hash(sha256.Sum256(h1[:])) {
		t.Error("Single element root should hash the element once")
	}

	h2 := types.ComputeHash([]byte("test2"))
	h3 := types.ComputeHash([]byte("test3"))
	root2 := ComputeMerkleRoot([]types.Hash{h1, h2, h3})
	root3 := ComputeMerkleRoot([]types.Hash{h3, h2, h1})
	if root2 == root3 {
		t.Error("Different order should produce different merkle root")
	}

	// 17 leaves need two levels: a full node of 16 and a node of 1.
	leaves := make([]types.Hash, MerkleFanout+1)
	for i := range leaves {
		leaves[i] = types.ComputeHash([]byte{byte(i)})
	}
	var concat []byte
	for _, l := range leaves[:MerkleFanout] {
		concat = append(concat, l[:]...)
	}
	left := sha256.Sum256(concat)
	right := sha256.Sum256(leaves[MerkleFanout][:])
	want := sha256.Sum256(append(left[:], right[:]...))
	if ComputeMerkleRoot(leaves) != types.Hash(want) {
		t.Error("Two-level merkle root mismatch")
	}
}

func TestComputeEntriesHash(t *testing.T) {
	a := AccountEntry{Pubkey: types.TokenProgramAddr, Account: &Account{Lamports: 10, Owner: types.BPFLoaderAddr}}
	b := AccountEntry{Pubkey: types.MemoV3ProgramAddr, Account: &Account{Lamports: 20, Owner: types.BPFLoaderAddr}}

	r1 := ComputeEntriesHash([]AccountEntry{a, b})
	r2 := ComputeEntriesHash([]AccountEntry{b, a})
	if r1 != r2 {
		t.Error("Entries hash should not depend on input order")
	}
	if r1.Capitalization != 30 || r1.Count != 2 {
		t.Errorf("Got capitalization %d count %d, want 30 and 2", r1.Capitalization, r1.Count)
	}

	// Last write wins for duplicate pubkeys.
	a2 := AccountEntry{Pubkey: a.Pubkey, Account: &Account{Lamports: 15, Owner: types.BPFLoaderAddr}}
	r3 := ComputeEntriesHash([]AccountEntry{a, b, a2})
	if r3.Capitalization != 35 || r3.Count != 2 {
		t.Errorf("Got capitalization %d count %d, want 35 and 2", r3.Capitalization, r3.Count)
	}

	db := NewMemoryDB()
	if err := WriteGenesis(db, []AccountEntry{a, b}); err != nil {
		t.Fatalf("WriteGenesis failed: %v", err)
	}
	fromDB, err := ComputeAccountsHash(db)
	if err != nil {
		t.Fatalf("ComputeAccountsHash failed: %v", err)
	}
	if fromDB != r1 {
		t.Error("DB hash should match entries hash")
	}
}

func TestSortPubkeys(t *testing.T) {
	var pk1, pk2, pk3 types.Pubkey
	pk2[0] = 1
	pk3[0] = 1
	pk3[31] = 1

	pubkeys := []types.Pubkey{pk3, pk1, pk2}
	SortPubkeys(pubkeys)

	if pubkeys[0] != pk1 || pubkeys[1] != pk2 || pubkeys[2] != pk3 {
		t.Error("Pubkeys not properly sorted")
	}
}

func TestAccountClone(t *testing.T) {
	original := &Account{
		Lamports:   1000,
		Data:       []byte("original"),
		Owner:      types.BPFLoaderUpgradeableAddr,
		Executable: true,
		RentEpoch:  5,
	}

	cloned := original.Clone()
	if cloned.Lamports != original.Lamports {
		t.Error("Clone lamports mismatch")
	}

	original.Data[0] = 'X'
	if cloned.Data[0] == 'X' {
		t.Error("Clone data should be independent")
	}

	var nilAccount *Account
	if nilAccount.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

func TestAccountIsZero(t *testing.T) {
	account := &Account{}
	if !account.IsZero() {
		t.Error("Empty account should be zero")
	}

	account.Lamports = 1
	if account.IsZero() {
		t.Error("Account with lamports should not be zero")
	}

	account.Lamports = 0
	account.Data = []byte("data")
	if account.IsZero() {
		t.Error("Account with data should not be zero")
	}
}
