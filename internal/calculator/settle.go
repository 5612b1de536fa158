// Package calculator holds the pure settlement math for converting a
// purchase's cost allocation into per-member shares.
package calculator

import "fmt"

// Share is one payer's portion of a purchase cost.
type Share struct {
	Login       string
	AmountCents int64
}

// SplitPurchase splits costCents equally among the payers and returns the
// shares owed to the responsible owner. The payers are the allocated
// participants minus the owner: the owner fronted the money, so their
// presence in the allocation never dilutes what the others owe.
//
// The per-head share is floor(cost / payers); the remainder cents are
// absorbed by the owner, so the returned shares always sum to at most the
// cost and never overcharge a payer by a cent. An allocation containing
// only the owner produces no shares.
func SplitPurchase(costCents int64, owner string, participants []string) ([]Share, error) {
	if costCents <= 0 {
		return nil, fmt.Errorf("cost must be positive, got %d", costCents)
	}
	if len(participants) == 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}

	payers := make([]string, 0, len(participants))
	for _, login := range participants {
		if login != owner {
			payers = append(payers, login)
		}
	}
	if len(payers) == 0 {
		return nil, nil
	}

	perHead := costCents / int64(len(payers))

	shares := make([]Share, len(payers))
	for i, login := range payers {
		shares[i] = Share{Login: login, AmountCents: perHead}
	}
	return shares, nil
}
