package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/edugamify/classroom-api/internal/domain"
)

// Transactor runs fn in one transaction. A call made with a context that
// already carries a transaction opens a savepoint instead.
type Transactor interface {
	Transact(ctx context.Context, fn func(ctx context.Context) error) error
}

type LedgerPersonRepository interface {
	AddPoints(ctx context.Context, id uint, amount int) (domain.Person, error)
}

type Evaluator interface {
	Evaluate(ctx context.Context, person domain.Person) ([]domain.Trophy, error)
}

// Ledger is the only writer of point balances.
type Ledger struct {
	tx        Transactor
	persons   LedgerPersonRepository
	evaluator Evaluator
}

func NewLedger(tx Transactor, persons LedgerPersonRepository, evaluator Evaluator) *Ledger {
	return &Ledger{
		tx:        tx,
		persons:   persons,
		evaluator: evaluator,
	}
}

// Credit adds amount to the balance, then grants any trophy the new balance
// unlocks. A failed grant is rolled back on its own and logged; the credit
// still commits with the caller's transaction.
func (l *Ledger) Credit(ctx context.Context, personID uint, amount int) (domain.CreditResult, error) {
	if amount < 0 {
		return domain.CreditResult{}, domain.WithDetail(domain.ErrNegativeAmount, "amount", amount)
	}

	result := domain.CreditResult{PersonID: personID, Amount: amount, Granted: []domain.Trophy{}}
	err := l.tx.Transact(ctx, func(ctx context.Context) error {
		person, err := l.persons.AddPoints(ctx, personID, amount)
		if err != nil {
			return fmt.Errorf("l.persons.AddPoints -> %w", err)
		}
		result.Balance = person.Points

		var granted []domain.Trophy
		err = l.tx.Transact(ctx, func(ctx context.Context) error {
			granted, err = l.evaluator.Evaluate(ctx, person)
			return err
		})
		if err != nil {
			zap.L().Warn("trophy evaluation failed, credit kept",
				zap.Uint("person_id", personID), zap.Int("balance", person.Points), zap.Error(err))
			return nil
		}
		if granted != nil {
			result.Granted = granted
		}

		return nil
	})
	if err != nil {
		return domain.CreditResult{}, err
	}

	return result, nil
}
