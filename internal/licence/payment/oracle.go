// Package payment provides the default payment authority: the recorded
// payment status on the licence itself. Deployments with a separate
// payment system swap in their own oracle.
package payment

import (
	"context"

	"affilia/internal/licence/models"
	"affilia/internal/licence/store"
	"affilia/pkg/domain"
)

// StatusOracle answers from the licence's payment_status field.
type StatusOracle struct {
	licences store.Store
}

func NewStatusOracle(licences store.Store) *StatusOracle {
	return &StatusOracle{licences: licences}
}

func (o *StatusOracle) IsPaid(ctx context.Context, id domain.LicenceID) (bool, error) {
	licence, err := o.licences.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	return licence.PaymentStatus == models.PaymentPaid, nil
}
