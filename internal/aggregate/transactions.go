package aggregate

import (
	"slices"

	"github.com/Veraticus/gofinances/internal/model"
)

// DeleteTransaction returns the list without the transaction matching id.
// When id is not present the input is returned unchanged. The input slice is
// never modified.
func DeleteTransaction(txns []model.Transaction, id string) []model.Transaction {
	idx := slices.IndexFunc(txns, func(tx model.Transaction) bool {
		return tx.ID == id
	})
	if idx < 0 {
		return txns
	}

	out := make([]model.Transaction, 0, len(txns)-1)
	out = append(out, txns[:idx]...)
	return append(out, txns[idx+1:]...)
}

// Newest returns a copy of txns ordered by date, most recent first.
func Newest(txns []model.Transaction) []model.Transaction {
	out := slices.Clone(txns)
	slices.SortStableFunc(out, func(a, b model.Transaction) int {
		return b.Date.Compare(a.Date)
	})
	return out
}
