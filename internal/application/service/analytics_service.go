package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/dukapos/duka-api/internal/domain/repository"
	"github.com/dukapos/duka-api/internal/infrastructure/cache"
	"github.com/dukapos/duka-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategorySalesRow is one category in the monthly sales report.
type CategorySalesRow struct {
	CategoryID  uuid.UUID `json:"category_id"`
	Category    string    `json:"category"`
	UnitSold    int       `json:"unit_sold"`
	TotalSales  float64   `json:"total_sales"`
	COGS        float64   `json:"cogs"`
	GrossMargin float64   `json:"gross_margin"`
	Insight     string    `json:"insight"`
}

// ProductPerformanceRow is one product in the monthly performance report.
type ProductPerformanceRow struct {
	ProductID       uuid.UUID `json:"product_id"`
	Code            string    `json:"prod_code"`
	Name            string    `json:"product"`
	UnitSold        int       `json:"unit_sold"`
	TotalSales      float64   `json:"total_sales"`
	COGS            float64   `json:"cogs"`
	Profit          float64   `json:"profit"`
	MarginPct       float64   `json:"margin_pct"`
	ContributionPct float64   `json:"contribution_pct"`
	RemainingStock  int       `json:"remaining_stock"`
	DamagedStock    int       `json:"damaged_stock"`
	DaysActive      int       `json:"days_active"`
	Insight         string    `json:"insight"`
}

// AnalyticsService builds the monthly sales reports. Aggregation runs as
// an explicit pipeline over flat receipt-line rows: resolve the price each
// line sold at, net out item discounts, allocate the receipt discount
// across lines, then group. Keeping the arithmetic in one place means the
// category and product reports can never disagree on what a sale was worth.
type AnalyticsService struct {
	receiptRepo  repository.ReceiptRepository
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	invRepo      repository.InventoryRepository
	pricing      *PricingService
	cache        cache.ReportCache
	cacheTTL     time.Duration
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(
	receiptRepo repository.ReceiptRepository,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	invRepo repository.InventoryRepository,
	pricing *PricingService,
	reportCache cache.ReportCache,
	cacheTTL time.Duration,
) *AnalyticsService {
	return &AnalyticsService{
		receiptRepo:  receiptRepo,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		invRepo:      invRepo,
		pricing:      pricing,
		cache:        reportCache,
		cacheTTL:     cacheTTL,
	}
}

// productAccum collects one product's sales inside the report window.
// Money stays in decimal cents until the final rounding.
type productAccum struct {
	units int
	sales decimal.Decimal
	cogs  decimal.Decimal
	days  map[string]struct{}
}

func newProductAccum() *productAccum {
	return &productAccum{
		sales: decimal.Zero,
		cogs:  decimal.Zero,
		days:  make(map[string]struct{}),
	}
}

// aggregate replays the owner's receipt lines in [from, to) and returns
// per-product totals. Lines whose price cannot be resolved are logged and
// skipped rather than failing the whole report.
func (s *AnalyticsService) aggregate(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (map[uuid.UUID]*productAccum, error) {
	rows, err := s.receiptRepo.SalesLines(ctx, ownerID, from, to)
	if err != nil {
		return nil, err
	}

	accums := make(map[uuid.UUID]*productAccum)
	for start := 0; start < len(rows); {
		end := start
		for end < len(rows) && rows[end].ReceiptID == rows[start].ReceiptID {
			end++
		}
		s.accumulateReceipt(ctx, ownerID, rows[start:end], accums)
		start = end
	}
	return accums, nil
}

// accumulateReceipt nets out one receipt's lines and folds them into the
// per-product accumulators.
func (s *AnalyticsService) accumulateReceipt(ctx context.Context, ownerID uuid.UUID, lines []repository.SalesLineRow, accums map[uuid.UUID]*productAccum) {
	nets := make([]decimal.Decimal, 0, len(lines))
	costs := make([]decimal.Decimal, 0, len(lines))
	kept := make([]repository.SalesLineRow, 0, len(lines))

	for _, row := range lines {
		price, err := s.pricing.Resolve(ctx, ownerID, row.ProductID, row.IssuedAt)
		if err != nil {
			log.Printf("WARN: skipping receipt line %s: price resolution failed for product %s: %v", row.LineID, row.ProductID, err)
			continue
		}
		lineSubtotal := price.SellingPrice * int64(row.Quantity)
		nets = append(nets, LineNet(lineSubtotal, row.LineDiscountType, row.LineDiscountValue))
		costs = append(costs, decimal.NewFromInt(price.CostPrice*int64(row.Quantity)))
		kept = append(kept, row)
	}
	if len(kept) == 0 {
		return
	}

	subtotal := decimal.Zero
	for _, net := range nets {
		subtotal = subtotal.Add(net)
	}
	discount := ReceiptDiscount(subtotal, kept[0].ReceiptDiscountType, kept[0].ReceiptDiscountValue)
	shares := AllocateReceiptDiscount(discount, nets)

	for i, row := range kept {
		acc := accums[row.ProductID]
		if acc == nil {
			acc = newProductAccum()
			accums[row.ProductID] = acc
		}
		acc.units += row.Quantity
		acc.sales = acc.sales.Add(nets[i].Sub(shares[i]))
		acc.cogs = acc.cogs.Add(costs[i])
		acc.days[row.IssuedAt.Format("2006-01-02")] = struct{}{}
	}
}

// CategorySales reports net sales, cost and margin per category for one
// month. Every category the owner has appears, including those without a
// single sale in the window.
func (s *AnalyticsService) CategorySales(ctx context.Context, ownerID uuid.UUID, year, month int) ([]CategorySalesRow, error) {
	from, to, err := monthWindow(year, month)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("duka:reports:category_sales:%s:%04d-%02d", ownerID, year, month)
	var cached []CategorySalesRow
	if s.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	accums, err := s.aggregate(ctx, ownerID, from, to)
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.ListAll(ctx, ownerID, nil)
	if err != nil {
		return nil, err
	}
	stock, damaged, err := s.stockAndDamage(ctx, ownerID, from, to)
	if err != nil {
		return nil, err
	}

	categoryOf := make(map[uuid.UUID]uuid.UUID, len(products))
	for _, p := range products {
		if p.CategoryID != nil {
			categoryOf[p.ID] = *p.CategoryID
		}
	}

	type catAccum struct {
		units          int
		sales, cogs    decimal.Decimal
		stock, damaged int
	}
	byCategory := make(map[uuid.UUID]*catAccum, len(categories))
	for _, c := range categories {
		byCategory[c.ID] = &catAccum{sales: decimal.Zero, cogs: decimal.Zero}
	}
	for productID, acc := range accums {
		catID, ok := categoryOf[productID]
		if !ok {
			continue
		}
		if cat := byCategory[catID]; cat != nil {
			cat.units += acc.units
			cat.sales = cat.sales.Add(acc.sales)
			cat.cogs = cat.cogs.Add(acc.cogs)
		}
	}
	for _, p := range products {
		if p.CategoryID == nil {
			continue
		}
		if cat := byCategory[*p.CategoryID]; cat != nil {
			cat.stock += stock[p.ID]
			cat.damaged += damaged[p.ID]
		}
	}

	rows := make([]CategorySalesRow, 0, len(categories))
	for _, c := range categories {
		cat := byCategory[c.ID]
		margin := marginPct(cat.sales, cat.cogs)
		rows = append(rows, CategorySalesRow{
			CategoryID:  c.ID,
			Category:    c.Name,
			UnitSold:    cat.units,
			TotalSales:  centsToAmount(cat.sales),
			COGS:        centsToAmount(cat.cogs),
			GrossMargin: margin,
			Insight: CategoryInsight(CategoryMetrics{
				TotalSales:     centsToAmount(cat.sales),
				MarginPct:      margin,
				UnitSold:       cat.units,
				RemainingStock: cat.stock,
				DamagedStock:   cat.damaged,
			}),
		})
	}

	s.cacheSet(ctx, cacheKey, rows)
	return rows, nil
}

// ProductPerformance reports per-product sales, profitability and stock
// posture for one month, optionally restricted to a category. Contribution
// is each product's share of the owner's total net sales in the window,
// never just the filtered subset.
func (s *AnalyticsService) ProductPerformance(ctx context.Context, ownerID uuid.UUID, year, month int, categoryID *uuid.UUID) ([]ProductPerformanceRow, error) {
	from, to, err := monthWindow(year, month)
	if err != nil {
		return nil, err
	}

	scope := "all"
	if categoryID != nil {
		scope = categoryID.String()
	}
	cacheKey := fmt.Sprintf("duka:reports:product_performance:%s:%04d-%02d:%s", ownerID, year, month, scope)
	var cached []ProductPerformanceRow
	if s.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	accums, err := s.aggregate(ctx, ownerID, from, to)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.ListAll(ctx, ownerID, categoryID)
	if err != nil {
		return nil, err
	}
	stock, damaged, err := s.stockAndDamage(ctx, ownerID, from, to)
	if err != nil {
		return nil, err
	}

	totalNet := decimal.Zero
	for _, acc := range accums {
		totalNet = totalNet.Add(acc.sales)
	}

	rows := make([]ProductPerformanceRow, 0, len(products))
	for _, p := range products {
		acc := accums[p.ID]
		if acc == nil {
			acc = newProductAccum()
		}

		margin := marginPct(acc.sales, acc.cogs)
		contribution := 0.0
		if totalNet.IsPositive() {
			contribution = acc.sales.Div(totalNet).Mul(oneHundred).Round(2).InexactFloat64()
		}

		rows = append(rows, ProductPerformanceRow{
			ProductID:       p.ID,
			Code:            p.Code,
			Name:            p.Name,
			UnitSold:        acc.units,
			TotalSales:      centsToAmount(acc.sales),
			COGS:            centsToAmount(acc.cogs),
			Profit:          centsToAmount(acc.sales.Sub(acc.cogs)),
			MarginPct:       margin,
			ContributionPct: contribution,
			RemainingStock:  stock[p.ID],
			DamagedStock:    damaged[p.ID],
			DaysActive:      len(acc.days),
			Insight: ProductInsight(ProductMetrics{
				TotalSales:     centsToAmount(acc.sales),
				MarginPct:      margin,
				UnitSold:       acc.units,
				RemainingStock: stock[p.ID],
				DamagedStock:   damaged[p.ID],
				DaysActive:     len(acc.days),
			}),
		})
	}

	s.cacheSet(ctx, cacheKey, rows)
	return rows, nil
}

// DashboardSummary is the landing-page view: the current month's category
// report plus its totals.
type DashboardSummary struct {
	Month      string             `json:"month"`
	TotalSales float64            `json:"total_sales"`
	TotalCOGS  float64            `json:"total_cogs"`
	Categories []CategorySalesRow `json:"categories"`
}

// Dashboard summarizes the current month.
func (s *AnalyticsService) Dashboard(ctx context.Context, ownerID uuid.UUID) (*DashboardSummary, error) {
	now := time.Now()
	rows, err := s.CategorySales(ctx, ownerID, now.Year(), int(now.Month()))
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		Month:      now.Format("2006-01"),
		Categories: rows,
	}
	for _, row := range rows {
		summary.TotalSales += row.TotalSales
		summary.TotalCOGS += row.COGS
	}
	return summary, nil
}

func (s *AnalyticsService) stockAndDamage(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (map[uuid.UUID]int, map[uuid.UUID]int, error) {
	levels, err := s.invRepo.StockLevels(ctx, ownerID, time.Now())
	if err != nil {
		return nil, nil, err
	}
	stock := make(map[uuid.UUID]int, len(levels))
	for _, lvl := range levels {
		stock[lvl.ProductID] = lvl.Quantity
	}

	damaged, err := s.invRepo.DamagedQuantities(ctx, ownerID, from, to)
	if err != nil {
		return nil, nil, err
	}
	return stock, damaged, nil
}

func (s *AnalyticsService) cacheGet(ctx context.Context, key string, out any) bool {
	payload, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Printf("WARN: report cache get %s: %v", key, err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(payload, out); err != nil {
		log.Printf("WARN: report cache entry %s is corrupt: %v", key, err)
		return false
	}
	return true
}

func (s *AnalyticsService) cacheSet(ctx context.Context, key string, rows any) {
	payload, err := json.Marshal(rows)
	if err != nil {
		log.Printf("WARN: report cache marshal %s: %v", key, err)
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cacheTTL); err != nil {
		log.Printf("WARN: report cache set %s: %v", key, err)
	}
}

func marginPct(sales, cogs decimal.Decimal) float64 {
	if !sales.IsPositive() {
		return 0
	}
	return sales.Sub(cogs).Div(sales).Mul(oneHundred).Round(2).InexactFloat64()
}

// monthWindow returns [first of month, first of next month) in server time.
func monthWindow(year, month int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, apperror.NewBadRequestError("Month must be between 1 and 12")
	}
	if year < 2000 || year > 2100 {
		return time.Time{}, time.Time{}, apperror.NewBadRequestError("Invalid report year")
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	return from, from.AddDate(0, 1, 0), nil
}
