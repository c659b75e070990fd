package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"fundpanel/internal/domain"
	"fundpanel/internal/storage"
)

func day(d int) time.Time {
	return domain.Date(2024, time.January, d)
}

func TestFundQuoteStore_InsertBulkAndGetByFund(t *testing.T) {
	store := NewFundQuoteStore()
	ctx := context.Background()

	quotes := []*domain.FundQuote{
		{FundID: "f1", Date: day(3), Quota: 11},
		{FundID: "f1", Date: day(2), Quota: 10},
		{FundID: "f2", Date: day(2), Quota: 20},
	}
	if err := store.InsertBulk(ctx, quotes); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, err := store.GetByFund(ctx, "f1")
	if err != nil {
		t.Fatalf("GetByFund failed: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("Expected 2 quotes, got %d", len(result))
	}
	if !result[0].Date.Equal(day(2)) {
		t.Errorf("Expected date-ascending order, first date %s", result[0].Date)
	}
}

func TestFundQuoteStore_DuplicateKeyFailsBatch(t *testing.T) {
	store := NewFundQuoteStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, []*domain.FundQuote{
		{FundID: "f1", Date: day(2), Quota: 10},
	}); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.InsertBulk(ctx, []*domain.FundQuote{
		{FundID: "f1", Date: day(3), Quota: 11},
		{FundID: "f1", Date: day(2), Quota: 12},
	})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}

	// The whole batch must be rejected, including the fresh row.
	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 stored quote after failed batch, got %d", count)
	}
}

func TestFundQuoteStore_GetAllFilter(t *testing.T) {
	store := NewFundQuoteStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, []*domain.FundQuote{
		{FundID: "f1", Date: day(2), Quota: 10},
		{FundID: "f2", Date: day(2), Quota: 20},
		{FundID: "f3", Date: day(2), Quota: 30},
	}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, err := store.GetAll(ctx, []string{"f1", "f3"})
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("Expected 2 quotes, got %d", len(result))
	}
	if result[0].FundID != "f1" || result[1].FundID != "f3" {
		t.Errorf("Expected fund order f1,f3 got %s,%s", result[0].FundID, result[1].FundID)
	}

	all, err := store.GetAll(ctx, nil)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Empty filter should return everything, got %d", len(all))
	}
}

func TestFundQuoteStore_DeleteFrom(t *testing.T) {
	store := NewFundQuoteStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, []*domain.FundQuote{
		{FundID: "f1", Date: day(1), Quota: 10},
		{FundID: "f1", Date: day(2), Quota: 11},
		{FundID: "f1", Date: day(3), Quota: 12},
		{FundID: "f2", Date: day(3), Quota: 22},
	}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	n, err := store.DeleteFrom(ctx, day(2))
	if err != nil {
		t.Fatalf("DeleteFrom failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Expected 3 deleted rows, got %d", n)
	}

	remaining, err := store.GetAll(ctx, nil)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(remaining) != 1 || !remaining[0].Date.Equal(day(1)) {
		t.Errorf("Expected only the day-1 quote to survive, got %d rows", len(remaining))
	}
}

func TestFundQuoteStore_ReturnsCopies(t *testing.T) {
	store := NewFundQuoteStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, []*domain.FundQuote{
		{FundID: "f1", Date: day(2), Quota: 10},
	}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, _ := store.GetByFund(ctx, "f1")
	result[0].Quota = 999

	again, _ := store.GetByFund(ctx, "f1")
	if again[0].Quota != 10 {
		t.Errorf("Store leaked internal state: quota %f", again[0].Quota)
	}
}
