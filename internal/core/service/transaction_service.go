package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/insureadmin/admin-console/internal/core/domain"
	"github.com/insureadmin/admin-console/internal/core/ports"
)

// TransactionService is the transactions query layer plus the detail view.
type TransactionService struct {
	view *ResourceView[domain.Transaction]
	loc  *time.Location
	log  zerolog.Logger
}

// NewTransactionService wires the transactions view to the session. Detail
// timestamps render in loc (UTC when nil).
func NewTransactionService(api ports.AdminAPI, session *SessionManager, loc *time.Location, log zerolog.Logger) *TransactionService {
	view := NewResourceView[domain.Transaction]("transactions", api.ListTransactions, api.SearchTransactions,
		func(t domain.Transaction) int64 { return t.ID }, session, log)
	session.Subscribe(view.Listener())
	if loc == nil {
		loc = time.UTC
	}
	return &TransactionService{view: view, loc: loc, log: log.With().Str("service", "transactions").Logger()}
}

// View exposes the underlying query view.
func (s *TransactionService) View() *ResourceView[domain.Transaction] { return s.view }

// List shows the given listing page and leaves search mode.
func (s *TransactionService) List(ctx context.Context, page int) (QueryState[domain.Transaction], error) {
	s.view.ClearSearch()
	return s.view.SetPage(ctx, page)
}

// Search posts keyword to the search endpoint and shows the results.
func (s *TransactionService) Search(ctx context.Context, keyword string) (QueryState[domain.Transaction], domain.Notice, error) {
	st, err := s.view.Search(ctx, keyword)
	switch {
	case errors.Is(err, domain.ErrEmptyKeyword):
		return st, domain.Info(domain.MsgEnterSearchTerm), err
	case errors.Is(err, domain.ErrSessionExpired):
		return st, domain.Notice{}, err
	case err != nil:
		return st, domain.Error(domain.MsgSearchFailed), err
	}
	return st, domain.Notice{}, nil
}

// Detail returns the labelled fields of a displayed transaction.
func (s *TransactionService) Detail(id int64) ([]domain.DetailField, error) {
	tx, ok := s.view.Find(id)
	if !ok {
		return nil, fmt.Errorf("transaction %d: %w", id, domain.ErrNotFound)
	}
	return tx.Details(s.loc), nil
}
