package state

import (
	"errors"
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"flipnet/storage"
)

// Manager provides typed access to the persisted protocol state. Raw keys are
// keccak-hashed to a uniform width and values are RLP encoded.
type Manager struct {
	db storage.Database
}

// NewManager creates a state manager over the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

// rawKey joins a namespace prefix with its discriminating parts. The result
// is hashed before hitting the database, so the join only needs to be
// collision-free, not compact.
func rawKey(prefix string, parts ...[]byte) []byte {
	buf := make([]byte, 0, len(prefix)+32)
	buf = append(buf, prefix...)
	for _, part := range parts {
		buf = append(buf, ':')
		buf = append(buf, part...)
	}
	return buf
}

func kvKey(raw []byte) []byte {
	return ethcrypto.Keccak256(raw)
}

// load decodes the value stored under the raw key into out. It reports false
// without touching out when the key is absent.
func (m *Manager) load(raw []byte, out interface{}) (bool, error) {
	data, err := m.db.Get(kvKey(raw))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := rlp.DecodeBytes(data, out); err != nil {
		return false, fmt.Errorf("state: decode %q: %w", raw, err)
	}
	return true, nil
}

// store RLP-encodes the value under the raw key.
func (m *Manager) store(raw []byte, value interface{}) error {
	data, err := rlp.EncodeToBytes(value)
	if err != nil {
		return fmt.Errorf("state: encode %q: %w", raw, err)
	}
	return m.db.Put(kvKey(raw), data)
}

func (m *Manager) delete(raw []byte) error {
	return m.db.Delete(kvKey(raw))
}
