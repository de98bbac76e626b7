package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"bakesight-dashboard/internal/domain"
	"bakesight-dashboard/internal/models"
	"bakesight-dashboard/internal/normalizer"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PaymentService 支付页面服务接口（订单 + 待确认 review → 交易列表）
type PaymentService interface {
	FetchTransactions(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error)
	FetchTransactionStats(ctx context.Context) (*models.TransactionStats, error)

	// central API 没有对应接口，始终返回 ErrUnsupported
	ApproveTransaction(ctx context.Context, transactionID string) (*models.Transaction, error)
	RetryTransaction(ctx context.Context, transactionID string) (*models.Transaction, error)
}

const (
	transactionIDPrefixOrder = "ORD-"
	transactionTimeLayout    = "15:04"
)

type paymentService struct {
	orders   OrderSource
	reviews  ReviewSource
	location *time.Location
	printer  *message.Printer
	logger   *zap.Logger
}

// NewPaymentService 创建 PaymentService 实例；location 为 nil 时使用 KST
func NewPaymentService(orders OrderSource, reviews ReviewSource, location *time.Location, logger *zap.Logger) PaymentService {
	if location == nil {
		location = normalizer.KST
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &paymentService{
		orders:   orders,
		reviews:  reviews,
		location: location,
		printer:  message.NewPrinter(language.Korean),
		logger:   logger,
	}
}

func (s *paymentService) FetchTransactions(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	txs, err := s.loadTransactions(ctx, filter.StoreID)
	if err != nil {
		return nil, err
	}

	status := strings.ToUpper(strings.TrimSpace(filter.Status))
	query := strings.ToLower(strings.TrimSpace(filter.SearchQuery))

	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if status != "" && status != models.TransactionStatusAll && string(tx.Status) != status {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(tx.ID), query) &&
			!strings.Contains(strings.ToLower(tx.Product), query) {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (s *paymentService) FetchTransactionStats(ctx context.Context) (*models.TransactionStats, error) {
	txs, err := s.loadTransactions(ctx, nil)
	if err != nil {
		return nil, err
	}
	stats := &models.TransactionStats{Total: len(txs)}
	for _, tx := range txs {
		switch tx.Status {
		case models.TransactionAuto:
			stats.Auto++
		case models.TransactionReview:
			stats.Review++
		case models.TransactionError:
			stats.Error++
		}
	}
	return stats, nil
}

func (s *paymentService) ApproveTransaction(_ context.Context, transactionID string) (*models.Transaction, error) {
	return nil, fmt.Errorf("%w: approve transaction %s", ErrUnsupported, transactionID)
}

func (s *paymentService) RetryTransaction(_ context.Context, transactionID string) (*models.Transaction, error) {
	return nil, fmt.Errorf("%w: retry transaction %s", ErrUnsupported, transactionID)
}

// loadTransactions 并发获取订单和待确认 review，两者任一失败即返回错误
func (s *paymentService) loadTransactions(ctx context.Context, storeID *int64) ([]models.Transaction, error) {
	var (
		orders  []domain.Order
		reviews []domain.Review
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.orders.ListOrders(gctx, storeID)
		if err != nil {
			return fmt.Errorf("list orders: %w", err)
		}
		orders = list
		return nil
	})
	g.Go(func() error {
		rs, err := s.reviews.ListReviews(gctx, domain.ReviewStatusOpen)
		if err != nil {
			return fmt.Errorf("list open reviews: %w", err)
		}
		reviews = rs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	txs := make([]models.Transaction, 0, len(orders)+len(reviews))
	for _, o := range orders {
		txs = append(txs, s.fromOrder(o))
	}
	for _, r := range reviews {
		txs = append(txs, s.fromReview(r))
	}
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].OccurredAt.After(txs[j].OccurredAt)
	})
	return txs, nil
}

func (s *paymentService) fromOrder(o domain.Order) models.Transaction {
	status := models.TransactionAuto
	if strings.EqualFold(o.Status, domain.OrderStatusFailed) {
		status = models.TransactionError
	}

	names := make([]string, 0, len(o.Lines))
	for _, l := range o.Lines {
		if l.ItemName != nil && strings.TrimSpace(*l.ItemName) != "" {
			names = append(names, strings.TrimSpace(*l.ItemName))
		} else {
			names = append(names, fmt.Sprintf("#%d", l.ItemID))
		}
	}

	device := fmt.Sprintf("Store #%d", o.StoreID)
	if o.StoreName != nil && strings.TrimSpace(*o.StoreName) != "" {
		device = strings.TrimSpace(*o.StoreName)
	}

	tx := models.Transaction{
		ID:       fmt.Sprintf("%s%d", transactionIDPrefixOrder, o.OrderID),
		Device:   device,
		Product:  productSummary(names),
		Amount:   s.formatWon(o.TotalAmountWon),
		Status:   status,
		Customer: fmt.Sprintf("Session #%d", o.SessionID),
	}
	s.setTime(&tx, o.CreatedAt)
	return tx
}

func (s *paymentService) fromReview(r domain.Review) models.Transaction {
	candidates, err := domain.ParseCandidateItems(r.TopKJSON)
	if err != nil {
		candidates = nil
	}
	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		names = append(names, c.DisplayName())
	}

	device := "-"
	if r.DeviceCode != nil && strings.TrimSpace(*r.DeviceCode) != "" {
		device = strings.TrimSpace(*r.DeviceCode)
	}

	tx := models.Transaction{
		ID:       normalizer.ReviewAlertID(r.ReviewID),
		Device:   device,
		Product:  productSummary(names),
		Amount:   "-",
		Status:   models.TransactionReview,
		Customer: fmt.Sprintf("Session #%d", r.SessionID),
	}
	s.setTime(&tx, r.CreatedAt)
	return tx
}

func (s *paymentService) setTime(tx *models.Transaction, raw string) {
	t, err := normalizer.ParseBackendTime(raw)
	if err != nil {
		s.logger.Warn("Unparseable transaction timestamp", zap.String("id", tx.ID), zap.String("created_at", raw))
		tx.Time = raw
		return
	}
	tx.OccurredAt = t
	tx.Time = t.In(s.location).Format(transactionTimeLayout)
}

// formatWon 12000 → "₩12,000"
func (s *paymentService) formatWon(amount int64) string {
	return "₩" + s.printer.Sprintf("%d", amount)
}

// productSummary 第一个商品名，多个时追加 " 외 N건"
func productSummary(names []string) string {
	switch len(names) {
	case 0:
		return "-"
	case 1:
		return names[0]
	default:
		return fmt.Sprintf("%s 외 %d건", names[0], len(names)-1)
	}
}
