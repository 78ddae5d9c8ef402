package service

import (
	"math/rand"
	"strconv"
)

// nextRecordID produces a short numeric record id given the ids already
// present in the table.
//
// Existing ids that parse as integers in [10000, 99999] anchor the scheme:
// when any exist, the result is max+1, keeping ids monotonic within a table.
// Otherwise a uniformly random integer in [10000, 89999] seeds the sequence.
// Non-cryptographic and best-effort: uniqueness holds for sequential writers
// because creation runs under the table lock.
func nextRecordID(existing []string) string {
	maxID := 0
	for _, raw := range existing {
		n, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		if n >= 10000 && n <= 99999 && n > maxID {
			maxID = n
		}
	}

	if maxID > 0 {
		return strconv.Itoa(maxID + 1)
	}

	return strconv.Itoa(10000 + rand.Intn(80000))
}
