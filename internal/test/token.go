package test

import (
	"context"
	"sync"

	"github.com/polkiloo/merchpay/internal/domain/model"
)

// TokenTransfererStub records transfers and fails them on demand.
type TokenTransfererStub struct {
	TransferFn func(context.Context, model.Transfer) error
	Err        error

	mu        sync.Mutex
	transfers []model.Transfer
}

// Transfer records the transfer unless a failure is configured.
func (s *TokenTransfererStub) Transfer(ctx context.Context, transfer model.Transfer) error {
	if s.TransferFn != nil {
		if err := s.TransferFn(ctx, transfer); err != nil {
			return err
		}
	} else if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transfers = append(s.transfers, transfer)
	return nil
}

// Transfers returns a copy of the successful transfers.
func (s *TokenTransfererStub) Transfers() []model.Transfer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Transfer(nil), s.transfers...)
}

// CompensatorStub records scheduled compensations and reconciliations.
type CompensatorStub struct {
	mu         sync.Mutex
	Pending    []model.Transfer
	Unresolved []Reconciliation
}

// Reconciliation is a transfer with unknown outcome and its prepared reverse.
type Reconciliation struct {
	Original model.Transfer
	Reverse  model.Transfer
}

// Enqueue records transfer.
func (s *CompensatorStub) Enqueue(transfer model.Transfer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Pending = append(s.Pending, transfer)
}

// Scheduled returns a copy of the recorded compensations.
func (s *CompensatorStub) Scheduled() []model.Transfer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Transfer(nil), s.Pending...)
}

// Reconcile records the pair.
func (s *CompensatorStub) Reconcile(original, reverse model.Transfer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Unresolved = append(s.Unresolved, Reconciliation{Original: original, Reverse: reverse})
}

// Reconciliations returns a copy of the recorded reconciliations.
func (s *CompensatorStub) Reconciliations() []Reconciliation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Reconciliation(nil), s.Unresolved...)
}
