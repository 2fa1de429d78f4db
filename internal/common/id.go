package common

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// Identifiers of the bootstrap records seeded by the migrations. The root
// folder node owns the root listing; both share the number 1.
const (
	RootNode     int64 = 1
	RootLocation int64 = 1
	RootGroup    int64 = 1
)

// NewID returns a random 63-bit non-negative identifier for nodes, listings
// and groups. Collisions are not checked here; the primary-key constraint on
// every id column is the uniqueness guarantee, and an insert that loses the
// lottery surfaces as ErrStorage.
func NewID() int64 {
	for {
		u := uuid.New()
		id := int64(binary.BigEndian.Uint64(u[:8]) & (1<<63 - 1))
		// 0 is "unset", 1 is the root triple.
		if id > RootNode {
			return id
		}
	}
}
