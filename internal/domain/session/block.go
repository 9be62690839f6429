package session

// BlockStatus tells whether a per-step data block has been populated and how
// far it has made it toward the remote store.
type BlockStatus int

const (
	// BlockAbsent means no valid data exists for the step.
	BlockAbsent BlockStatus = iota
	// BlockDraft means data exists locally but has not been confirmed persisted.
	BlockDraft
	// BlockSaved means data was read back from, or acknowledged by, the store.
	BlockSaved
)

// Block is one step's data slot. The zero value is absent, so a freshly
// reconciled state with nothing persisted needs no initialization.
type Block[T any] struct {
	status BlockStatus
	value  T
}

// Draft wraps a value that exists locally but is not yet confirmed persisted.
func Draft[T any](v T) Block[T] {
	return Block[T]{status: BlockDraft, value: v}
}

// Saved wraps a value confirmed by the session store.
func Saved[T any](v T) Block[T] {
	return Block[T]{status: BlockSaved, value: v}
}

// Status returns the block status.
func (b Block[T]) Status() BlockStatus {
	return b.status
}

// Get returns the value and whether the block holds one.
func (b Block[T]) Get() (T, bool) {
	return b.value, b.status != BlockAbsent
}

// IsSaved reports whether the store has acknowledged this block.
func (b Block[T]) IsSaved() bool {
	return b.status == BlockSaved
}
