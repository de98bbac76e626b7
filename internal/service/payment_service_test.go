package service

import (
	"context"
	"errors"
	"testing"

	"bakesight-dashboard/internal/domain"
	"bakesight-dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func strPtr(s string) *string { return &s }

func paymentFixtures() (*fakeOrders, *fakeReviews) {
	orders := &fakeOrders{orders: []domain.Order{
		{
			OrderID:        1,
			StoreID:        1,
			StoreName:      strPtr("강남점"),
			SessionID:      11,
			TotalAmountWon: 12000,
			Status:         domain.OrderStatusPaid,
			CreatedAt:      "2024-01-01T01:00:00",
			Lines: []domain.OrderLine{
				{ItemID: 9, ItemName: strPtr("베이글"), Qty: 2},
				{ItemID: 10, ItemName: strPtr("크루아상"), Qty: 1},
				{ItemID: 12, Qty: 1},
			},
		},
		{
			OrderID:        2,
			StoreID:        1,
			SessionID:      12,
			TotalAmountWon: 4500,
			Status:         domain.OrderStatusFailed,
			CreatedAt:      "2024-01-01T03:00:00",
			Lines:          []domain.OrderLine{{ItemID: 10, ItemName: strPtr("크루아상"), Qty: 1}},
		},
	}}
	reviews := newFakeReviews()
	r := review(7, domain.ReasonReview, domain.ReviewStatusOpen, "2024-01-01T02:00:00", `[{"item_id": 9, "name_kor": "베이글"}]`)
	r.DeviceCode = strPtr("KIOSK-01")
	reviews.byStatus[domain.ReviewStatusOpen] = []domain.Review{r}
	return orders, reviews
}

func TestFetchTransactions_MapsOrdersAndReviews(t *testing.T) {
	orders, reviews := paymentFixtures()
	svc := NewPaymentService(orders, reviews, nil, zap.NewNop())

	txs, err := svc.FetchTransactions(context.Background(), models.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txs, 3)

	assert.Equal(t, "ORD-2", txs[0].ID)
	assert.Equal(t, models.TransactionError, txs[0].Status)
	assert.Equal(t, "₩4,500", txs[0].Amount)
	assert.Equal(t, "Store #1", txs[0].Device)
	assert.Equal(t, "12:00", txs[0].Time)

	assert.Equal(t, "REV-7", txs[1].ID)
	assert.Equal(t, models.TransactionReview, txs[1].Status)
	assert.Equal(t, "베이글", txs[1].Product)
	assert.Equal(t, "KIOSK-01", txs[1].Device)

	assert.Equal(t, "ORD-1", txs[2].ID)
	assert.Equal(t, models.TransactionAuto, txs[2].Status)
	assert.Equal(t, "베이글 외 2건", txs[2].Product)
	assert.Equal(t, "₩12,000", txs[2].Amount)
	assert.Equal(t, "강남점", txs[2].Device)
	assert.Equal(t, "Session #11", txs[2].Customer)
}

func TestFetchTransactions_Filters(t *testing.T) {
	orders, reviews := paymentFixtures()
	svc := NewPaymentService(orders, reviews, nil, zap.NewNop())
	ctx := context.Background()

	auto, err := svc.FetchTransactions(ctx, models.TransactionFilter{Status: "AUTO"})
	require.NoError(t, err)
	require.Len(t, auto, 1)
	assert.Equal(t, "ORD-1", auto[0].ID)

	all, err := svc.FetchTransactions(ctx, models.TransactionFilter{Status: "ALL"})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	bagel, err := svc.FetchTransactions(ctx, models.TransactionFilter{SearchQuery: "베이글"})
	require.NoError(t, err)
	assert.Len(t, bagel, 2)

	byID, err := svc.FetchTransactions(ctx, models.TransactionFilter{SearchQuery: "rev-"})
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, "REV-7", byID[0].ID)

	storeID := int64(1)
	_, err = svc.FetchTransactions(ctx, models.TransactionFilter{StoreID: &storeID})
	require.NoError(t, err)
	require.NotNil(t, orders.storeID)
	assert.Equal(t, int64(1), *orders.storeID)
}

func TestFetchTransactionStats(t *testing.T) {
	orders, reviews := paymentFixtures()
	svc := NewPaymentService(orders, reviews, nil, zap.NewNop())

	stats, err := svc.FetchTransactionStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &models.TransactionStats{Auto: 1, Review: 1, Error: 1, Total: 3}, stats)
}

func TestFetchTransactions_SourceFailure(t *testing.T) {
	orders, reviews := paymentFixtures()
	orders.err = errors.New("orders down")
	svc := NewPaymentService(orders, reviews, nil, zap.NewNop())

	_, err := svc.FetchTransactions(context.Background(), models.TransactionFilter{})
	assert.Error(t, err)
}

func TestApproveAndRetryAreUnsupported(t *testing.T) {
	orders, reviews := paymentFixtures()
	svc := NewPaymentService(orders, reviews, nil, zap.NewNop())

	_, err := svc.ApproveTransaction(context.Background(), "REV-7")
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = svc.RetryTransaction(context.Background(), "ORD-2")
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Zero(t, reviews.updateCount())
}
