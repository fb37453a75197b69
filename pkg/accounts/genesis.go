package accounts

import "fmt"

// GenesisSlot is the slot genesis accounts are written at.
const GenesisSlot = 0

// WriteGenesis inserts entries into db in order, keyed by pubkey, so a later
// entry for the same pubkey replaces an earlier one. The slot is set to
// GenesisSlot and the result committed. Nothing is written if any entry
// has a nil account.
func WriteGenesis(db DB, entries []AccountEntry) error {
	for i, e := range entries {
		if e.Account == nil {
			return fmt.Errorf("entry %d (%s): %w: nil account", i, e.Pubkey, ErrInvalidData)
		}
	}

	if bdb, ok := db.(*BadgerDB); ok {
		bw := bdb.NewBatchWriter()
		for _, e := range entries {
			if err := bw.SetAccount(e.Pubkey, e.Account); err != nil {
				bw.Cancel()
				return fmt.Errorf("set account %s: %w", e.Pubkey, err)
			}
		}
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("flush genesis batch: %w", err)
		}
	} else {
		for _, e := range entries {
			if err := db.SetAccount(e.Pubkey, e.Account); err != nil {
				return fmt.Errorf("set account %s: %w", e.Pubkey, err)
			}
		}
	}

	if err := db.SetSlot(GenesisSlot); err != nil {
		return fmt.Errorf("set slot: %w", err)
	}
	if err := db.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
