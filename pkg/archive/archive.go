// Package archive reads and writes genesis account archives.
//
// An archive is a zstd-compressed stream:
//
//	magic   "X1GENACC" (8 bytes)
//	version u32
//	count   u64
//	count × { pubkey (32) | len u64 | account (len bytes, accounts.Account.Serialize) }
//
// Entries keep the order they were written in, so replaying an archive into a
// database with accounts.WriteGenesis reproduces the original state.
package archive

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/fortiblox/x1-genesis/pkg/accounts"
	"github.com/fortiblox/x1-genesis/pkg/bincode"
)

// Version is the archive format version written by Write.
const Version uint32 = 1

// FileExtension is the conventional suffix for archive files.
const FileExtension = ".x1gen.zst"

var magic = [8]byte{'X', '1', 'G', 'E', 'N', 'A', 'C', 'C'}

var (
	// ErrInvalidMagic is returned when the stream is not a genesis archive.
	ErrInvalidMagic = errors.New("invalid archive magic")

	// ErrUnsupportedVersion is returned for archives from a newer format.
	ErrUnsupportedVersion = errors.New("unsupported archive version")

	// ErrDecompressionFailed is returned when the zstd stream is unreadable.
	ErrDecompressionFailed = errors.New("decompression failed")

	// ErrCorrupt is returned when an entry is truncated or malformed.
	ErrCorrupt = errors.New("corrupt archive")
)

// Write compresses entries into w.
func Write(w io.Writer, entries []accounts.AccountEntry) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return fmt.Errorf("create zstd encoder: %w", err)
	}

	header := bincode.NewWriter(len(magic) + 4 + 8)
	header.WriteRaw(magic[:])
	header.WriteU32(Version)
	header.WriteU64(uint64(len(entries)))
	if _, err := enc.Write(header.Bytes()); err != nil {
		enc.Close()
		return fmt.Errorf("write header: %w", err)
	}

	for i, e := range entries {
		if e.Account == nil {
			enc.Close()
			return fmt.Errorf("entry %d (%s): nil account", i, e.Pubkey)
		}
		data := e.Account.Serialize()

		bw := bincode.NewWriter(32 + 8 + len(data))
		bw.WritePubkey(e.Pubkey)
		bw.WriteU64(uint64(len(data)))
		bw.WriteRaw(data)
		if _, err := enc.Write(bw.Bytes()); err != nil {
			enc.Close()
			return fmt.Errorf("write entry %d: %w", i, err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("flush zstd stream: %w", err)
	}
	return nil
}

// Read decompresses and decodes every entry from r.
func Read(r io.Reader) ([]accounts.AccountEntry, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompressionFailed, err)
	}
	defer dec.Close()

	br := bincode.NewReader(bufio.NewReader(dec))

	gotMagic, err := br.ReadBytes(len(magic))
	if err != nil {
		return nil, readError("header", err)
	}
	if !bytes.Equal(gotMagic, magic[:]) {
		return nil, ErrInvalidMagic
	}

	version, err := br.ReadU32()
	if err != nil {
		return nil, readError("version", err)
	}
	if version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	count, err := br.ReadU64()
	if err != nil {
		return nil, readError("count", err)
	}

	// The count is untrusted; grow as entries actually arrive.
	capHint := count
	if capHint > 1024 {
		capHint = 1024
	}
	entries := make([]accounts.AccountEntry, 0, capHint)

	for i := uint64(0); i < count; i++ {
		pubkey, err := br.ReadPubkey()
		if err != nil {
			return nil, readError(fmt.Sprintf("entry %d pubkey", i), err)
		}
		size, err := br.ReadU64()
		if err != nil {
			return nil, readError(fmt.Sprintf("entry %d length", i), err)
		}
		if size > accounts.MaxAccountDataSize+1024 {
			return nil, fmt.Errorf("%w: entry %d length %d", ErrCorrupt, i, size)
		}
		data, err := br.ReadBytes(int(size))
		if err != nil {
			return nil, readError(fmt.Sprintf("entry %d account", i), err)
		}
		account, err := accounts.DeserializeAccount(data)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrCorrupt, i, err)
		}
		entries = append(entries, accounts.AccountEntry{Pubkey: pubkey, Account: account})
	}

	return entries, nil
}

// WriteFile writes entries to a new archive at path, replacing any existing
// file.
func WriteFile(path string, entries []accounts.AccountEntry) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}

	w := bufio.NewWriter(f)
	if err := Write(w, entries); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("flush archive: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close archive: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename archive: %w", err)
	}
	return nil
}

// ReadFile reads every entry from the archive at path.
func ReadFile(path string) ([]accounts.AccountEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Load reads the archive at path into db as genesis state.
func Load(path string, db accounts.DB) (int, error) {
	entries, err := ReadFile(path)
	if err != nil {
		return 0, err
	}
	if err := accounts.WriteGenesis(db, entries); err != nil {
		return 0, fmt.Errorf("load archive: %w", err)
	}
	return len(entries), nil
}

func readError(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated %s", ErrCorrupt, what)
	}
	return fmt.Errorf("read %s: %w", what, err)
}
