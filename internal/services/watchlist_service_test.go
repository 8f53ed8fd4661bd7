package services

import (
	"context"
	"testing"

	apperrors "myfunds/internal/errors"
	"myfunds/internal/models"
	"myfunds/internal/testutil"
)

func watchlistState(t *testing.T, svc WatchlistServicer, userID string) map[string]models.WatchlistItem {
	t.Helper()
	list, err := svc.GetWatchlist(context.Background(), userID)
	testutil.AssertNoError(t, err)
	state := make(map[string]models.WatchlistItem, len(list.Items))
	for _, item := range list.Items {
		state[item.ID] = item.WatchlistItem
	}
	return state
}

func TestCreateWatchlistItem(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		stub := newStubMarket()
		stub.setPrice("AAPL", 150, "USD")
		svc := NewWatchlistService(db, stub)
		user := testutil.CreateTestUser(t, db)

		item, err := svc.CreateItem(context.Background(), user.ID, "aapl", 0)
		testutil.AssertNoError(t, err)

		if item.Ticker != "AAPL" {
			t.Errorf("expected normalized ticker AAPL, got %s", item.Ticker)
		}
		if item.GridPosition != 0 {
			t.Errorf("expected grid position 0, got %d", item.GridPosition)
		}
		if item.CurrentPrice != 150 {
			t.Errorf("expected current price 150, got %f", item.CurrentPrice)
		}
	})

	t.Run("position_out_of_range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWatchlistService(db, newStubMarket())
		user := testutil.CreateTestUser(t, db)

		for _, position := range []int{-1, 16, 100} {
			_, err := svc.CreateItem(context.Background(), user.ID, "AAPL", position)
			testutil.AssertAppError(t, err, "INVALID_GRID_POSITION")
		}
	})

	t.Run("duplicate_ticker", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		stub := newStubMarket()
		stub.setPrice("AAPL", 150, "USD")
		svc := NewWatchlistService(db, stub)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestWatchlistItem(t, db, user.ID, "AAPL", 0)

		_, err := svc.CreateItem(context.Background(), user.ID, "AAPL", 1)
		testutil.AssertAppError(t, err, "DUPLICATE_TICKER")
	})

	t.Run("position_occupied", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		stub := newStubMarket()
		stub.setPrice("MSFT", 300, "USD")
		svc := NewWatchlistService(db, stub)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestWatchlistItem(t, db, user.ID, "AAPL", 3)

		_, err := svc.CreateItem(context.Background(), user.ID, "MSFT", 3)
		testutil.AssertAppError(t, err, "POSITION_OCCUPIED")
	})

	t.Run("full_grid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		stub := newStubMarket()
		stub.setPrice("ONEMORE", 1, "USD")
		svc := NewWatchlistService(db, stub)
		user := testutil.CreateTestUser(t, db)

		tickers := []string{
			"T0", "T1", "T2", "T3", "T4", "T5", "T6", "T7",
			"T8", "T9", "T10", "T11", "T12", "T13", "T14", "T15",
		}
		for position, ticker := range tickers {
			testutil.CreateTestWatchlistItem(t, db, user.ID, ticker, position)
		}

		_, err := svc.CreateItem(context.Background(), user.ID, "ONEMORE", 0)
		testutil.AssertAppError(t, err, "WATCHLIST_FULL")
	})

	t.Run("unknown_ticker_is_validation_error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWatchlistService(db, newStubMarket())
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateItem(context.Background(), user.ID, "NOPE", 0)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})
}

func TestGetWatchlist(t *testing.T) {
	t.Run("ordered_by_position_with_prices", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		stub := newStubMarket()
		stub.setPrice("AAPL", 150, "USD")
		stub.setPrice("MSFT", 300, "USD")
		svc := NewWatchlistService(db, stub)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestWatchlistItem(t, db, user.ID, "MSFT", 7)
		testutil.CreateTestWatchlistItem(t, db, user.ID, "AAPL", 2)

		list, err := svc.GetWatchlist(context.Background(), user.ID)
		testutil.AssertNoError(t, err)

		if list.Total != 2 || list.MaxItems != 16 {
			t.Errorf("expected total 2 of max 16, got %d of %d", list.Total, list.MaxItems)
		}
		if list.Items[0].Ticker != "AAPL" || list.Items[1].Ticker != "MSFT" {
			t.Errorf("expected AAPL before MSFT, got %s, %s", list.Items[0].Ticker, list.Items[1].Ticker)
		}
		if list.Items[0].CurrentPrice != 150 || list.Items[1].CurrentPrice != 300 {
			t.Errorf("unexpected prices %f, %f", list.Items[0].CurrentPrice, list.Items[1].CurrentPrice)
		}
	})

	t.Run("price_failure_is_best_effort", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		stub := newStubMarket()
		stub.priceErrs["FAIL"] = apperrors.ErrMarketUnavailable
		svc := NewWatchlistService(db, stub)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestWatchlistItem(t, db, user.ID, "FAIL", 0)

		list, err := svc.GetWatchlist(context.Background(), user.ID)
		testutil.AssertNoError(t, err)
		if list.Items[0].CurrentPrice != 0 {
			t.Errorf("expected zero price on failure, got %f", list.Items[0].CurrentPrice)
		}
	})
}

func TestBatchUpdateItems(t *testing.T) {
	t.Run("swap_positions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		stub := newStubMarket()
		stub.setPrice("AAPL", 150, "USD")
		stub.setPrice("MSFT", 300, "USD")
		svc := NewWatchlistService(db, stub)
		user := testutil.CreateTestUser(t, db)
		first := testutil.CreateTestWatchlistItem(t, db, user.ID, "AAPL", 0)
		second := testutil.CreateTestWatchlistItem(t, db, user.ID, "MSFT", 1)

		posZero, posOne := 0, 1
		items, err := svc.BatchUpdateItems(context.Background(), user.ID, []WatchlistItemUpdate{
			{ID: first.ID, GridPosition: &posOne},
			{ID: second.ID, GridPosition: &posZero},
		})
		testutil.AssertNoError(t, err)

		if items[0].Ticker != "MSFT" || items[0].GridPosition != 0 {
			t.Errorf("expected MSFT at 0, got %s at %d", items[0].Ticker, items[0].GridPosition)
		}
		if items[1].Ticker != "AAPL" || items[1].GridPosition != 1 {
			t.Errorf("expected AAPL at 1, got %s at %d", items[1].Ticker, items[1].GridPosition)
		}
	})

	t.Run("duplicate_position_rejected_atomically", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWatchlistService(db, newStubMarket())
		user := testutil.CreateTestUser(t, db)
		first := testutil.CreateTestWatchlistItem(t, db, user.ID, "AAPL", 0)
		testutil.CreateTestWatchlistItem(t, db, user.ID, "MSFT", 1)
		before := watchlistState(t, svc, user.ID)

		posOne := 1
		_, err := svc.BatchUpdateItems(context.Background(), user.ID, []WatchlistItemUpdate{
			{ID: first.ID, GridPosition: &posOne},
		})
		testutil.AssertAppError(t, err, "POSITION_OCCUPIED")

		after := watchlistState(t, svc, user.ID)
		for id, item := range before {
			if after[id].GridPosition != item.GridPosition || after[id].Ticker != item.Ticker {
				t.Errorf("state changed after rejected batch: %+v vs %+v", item, after[id])
			}
		}
	})

	t.Run("duplicate_ticker_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWatchlistService(db, newStubMarket())
		user := testutil.CreateTestUser(t, db)
		first := testutil.CreateTestWatchlistItem(t, db, user.ID, "AAPL", 0)
		testutil.CreateTestWatchlistItem(t, db, user.ID, "MSFT", 1)

		msft := "MSFT"
		_, err := svc.BatchUpdateItems(context.Background(), user.ID, []WatchlistItemUpdate{
			{ID: first.ID, Ticker: &msft},
		})
		testutil.AssertAppError(t, err, "DUPLICATE_TICKER")
	})

	t.Run("position_out_of_range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWatchlistService(db, newStubMarket())
		user := testutil.CreateTestUser(t, db)
		first := testutil.CreateTestWatchlistItem(t, db, user.ID, "AAPL", 0)

		sixteen := 16
		_, err := svc.BatchUpdateItems(context.Background(), user.ID, []WatchlistItemUpdate{
			{ID: first.ID, GridPosition: &sixteen},
		})
		testutil.AssertAppError(t, err, "INVALID_GRID_POSITION")
	})

	t.Run("unknown_item_fails_batch", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWatchlistService(db, newStubMarket())
		user := testutil.CreateTestUser(t, db)
		first := testutil.CreateTestWatchlistItem(t, db, user.ID, "AAPL", 0)
		before := watchlistState(t, svc, user.ID)

		posOne, posTwo := 1, 2
		_, err := svc.BatchUpdateItems(context.Background(), user.ID, []WatchlistItemUpdate{
			{ID: first.ID, GridPosition: &posOne},
			{ID: "missing-id", GridPosition: &posTwo},
		})
		testutil.AssertAppError(t, err, "WATCHLIST_ITEM_NOT_FOUND")

		after := watchlistState(t, svc, user.ID)
		if after[first.ID].GridPosition != before[first.ID].GridPosition {
			t.Error("expected no change after rejected batch")
		}
	})

	t.Run("empty_batch_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWatchlistService(db, newStubMarket())
		user := testutil.CreateTestUser(t, db)

		_, err := svc.BatchUpdateItems(context.Background(), user.ID, nil)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})
}

func TestDeleteWatchlistItem(t *testing.T) {
	t.Run("deletes_owned_leaving_gap", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		stub := newStubMarket()
		stub.setPrice("MSFT", 300, "USD")
		svc := NewWatchlistService(db, stub)
		user := testutil.CreateTestUser(t, db)
		first := testutil.CreateTestWatchlistItem(t, db, user.ID, "AAPL", 0)
		testutil.CreateTestWatchlistItem(t, db, user.ID, "MSFT", 5)

		testutil.AssertNoError(t, svc.DeleteItem(user.ID, first.ID))

		list, err := svc.GetWatchlist(context.Background(), user.ID)
		testutil.AssertNoError(t, err)
		if list.Total != 1 || list.Items[0].GridPosition != 5 {
			t.Errorf("expected the remaining item to keep position 5, got %+v", list.Items)
		}
	})

	t.Run("not_owned", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWatchlistService(db, newStubMarket())
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		item := testutil.CreateTestWatchlistItem(t, db, other.ID, "AAPL", 0)

		err := svc.DeleteItem(user.ID, item.ID)
		testutil.AssertAppError(t, err, "WATCHLIST_ITEM_NOT_FOUND")
	})
}
