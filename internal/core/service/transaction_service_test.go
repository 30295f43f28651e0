package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/insureadmin/admin-console/internal/core/domain"
)

func TestTransactionService_SearchAndDetail(t *testing.T) {
	api := &stubAdminAPI{
		searchTransactionsFn: func(_ context.Context, keyword string) (*domain.Page[domain.Transaction], error) {
			return &domain.Page[domain.Transaction]{Data: []domain.Transaction{
				{ID: 31, ProposalNumber: keyword, PolicyID: "POL-1", Amount: domain.NewAmount(150050), Status: domain.TxCompleted},
			}}, nil
		},
	}
	svc := NewTransactionService(api, newLoggedInSession(t), time.UTC, zerolog.Nop())

	st, notice, err := svc.Search(context.Background(), "PRP-77")
	if err != nil || !notice.IsZero() {
		t.Fatalf("Search: %v %+v", err, notice)
	}
	if len(st.Rows()) != 1 {
		t.Fatalf("expected 1 row, got %d", len(st.Rows()))
	}

	fields, err := svc.Detail(31)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	want := map[string]string{
		"Proposal Number":         "PRP-77",
		"Amount":                  "₱1500.50",
		"Merchant Transaction ID": "-",
	}
	for _, f := range fields {
		if w, ok := want[f.Label]; ok && f.Value != w {
			t.Fatalf("%s = %q, want %q", f.Label, f.Value, w)
		}
	}

	if _, err := svc.Detail(99); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTransactionService_SearchFailureNotice(t *testing.T) {
	api := &stubAdminAPI{
		searchTransactionsFn: func(context.Context, string) (*domain.Page[domain.Transaction], error) {
			return nil, domain.ErrRemote
		},
	}
	svc := NewTransactionService(api, newLoggedInSession(t), nil, zerolog.Nop())

	_, notice, err := svc.Search(context.Background(), "x")
	if !errors.Is(err, domain.ErrRemote) || notice.Text != domain.MsgSearchFailed {
		t.Fatalf("unexpected result: %v %+v", err, notice)
	}

	_, notice, err = svc.Search(context.Background(), " ")
	if !errors.Is(err, domain.ErrEmptyKeyword) || notice.Text != domain.MsgEnterSearchTerm {
		t.Fatalf("unexpected result: %v %+v", err, notice)
	}
}
