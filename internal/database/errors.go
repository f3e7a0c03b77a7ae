package database

import "fmt"

// BatchError records a failed upsert batch. The offset locates the batch in
// the deduplicated record slice so a failed run can be diagnosed without
// replaying it.
type BatchError struct {
	BatchOffset int
	BatchSize   int
	Err         error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("upsert batch at offset %d (size %d): %v", e.BatchOffset, e.BatchSize, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}
