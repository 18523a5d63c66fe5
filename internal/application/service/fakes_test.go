package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dukapos/duka-api/internal/domain/entity"
	"github.com/dukapos/duka-api/internal/domain/enum"
	domainRepo "github.com/dukapos/duka-api/internal/domain/repository"
	"github.com/google/uuid"
)

// In-memory repository fakes. The transaction manager snapshots the fakes
// before running the callback and restores them on error, mirroring a
// database rollback.

type snapshotter interface {
	snapshot() any
	restore(state any)
}

type fakeTxManager struct {
	stores []snapshotter
	calls  int
}

func (m *fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	states := make([]any, len(m.stores))
	for i, s := range m.stores {
		states[i] = s.snapshot()
	}
	if err := fn(ctx); err != nil {
		for i, s := range m.stores {
			s.restore(states[i])
		}
		return err
	}
	return nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*entity.Product)}
}

func (r *fakeProductRepo) add(p *entity.Product) *entity.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().Add(-365 * 24 * time.Hour)
	}
	cp := *p
	r.products[p.ID] = &cp
	return p
}

func (r *fakeProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(product)
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, ownerID, id uuid.UUID) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || p.OwnerID != ownerID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetByCode(_ context.Context, ownerID uuid.UUID, code string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.OwnerID == ownerID && p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetByCodes(_ context.Context, ownerID uuid.UUID, codes []string) ([]entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	for _, code := range codes {
		for _, p := range r.products {
			if p.OwnerID == ownerID && p.Code == code {
				out = append(out, *p)
			}
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *fakeProductRepo) UpdatePrices(_ context.Context, ownerID, id uuid.UUID, sellingPrice, costPrice int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok && p.OwnerID == ownerID {
		p.SellingPrice = sellingPrice
		p.CostPrice = costPrice
	}
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, ownerID uuid.UUID, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	for _, p := range r.products {
		if p.OwnerID != ownerID {
			continue
		}
		if params.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(params.Search)) {
			continue
		}
		if params.Status != nil && p.Status != *params.Status {
			continue
		}
		if params.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *params.CategoryID) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) ListAll(_ context.Context, ownerID uuid.UUID, categoryID *uuid.UUID) ([]entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	for _, p := range r.products {
		if p.OwnerID != ownerID {
			continue
		}
		if categoryID != nil && (p.CategoryID == nil || *p.CategoryID != *categoryID) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

type fakeCategoryRepo struct {
	categories []entity.Category
}

func (r *fakeCategoryRepo) add(ownerID uuid.UUID, name string) uuid.UUID {
	c := entity.Category{ID: uuid.New(), OwnerID: ownerID, Name: name}
	r.categories = append(r.categories, c)
	return c.ID
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *entity.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	r.categories = append(r.categories, *category)
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, ownerID, id uuid.UUID) (*entity.Category, error) {
	for _, c := range r.categories {
		if c.OwnerID == ownerID && c.ID == id {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) List(_ context.Context, ownerID uuid.UUID) ([]entity.Category, error) {
	var out []entity.Category
	for _, c := range r.categories {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeInventoryRepo struct {
	mu      sync.Mutex
	batches []*entity.InventoryBatch
	damages []*entity.DamagedItem
}

func (r *fakeInventoryRepo) snapshot() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	batches := make([]*entity.InventoryBatch, len(r.batches))
	for i, b := range r.batches {
		cp := *b
		batches[i] = &cp
	}
	damages := make([]*entity.DamagedItem, len(r.damages))
	for i, d := range r.damages {
		cp := *d
		damages[i] = &cp
	}
	return [2]any{batches, damages}
}

func (r *fakeInventoryRepo) restore(state any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := state.([2]any)
	r.batches = s[0].([]*entity.InventoryBatch)
	r.damages = s[1].([]*entity.DamagedItem)
}

func (r *fakeInventoryRepo) addBatch(b *entity.InventoryBatch) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	cp := *b
	r.batches = append(r.batches, &cp)
	return b.ID
}

func (r *fakeInventoryRepo) quantity(batchID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.batches {
		if b.ID == batchID {
			return b.Quantity
		}
	}
	return -1
}

func (r *fakeInventoryRepo) CreateBatch(_ context.Context, batch *entity.InventoryBatch) error {
	r.addBatch(batch)
	return nil
}

func (r *fakeInventoryRepo) GetBatch(_ context.Context, ownerID, id uuid.UUID) (*entity.InventoryBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.batches {
		if b.OwnerID == ownerID && b.ID == id {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeInventoryRepo) ListDeductible(_ context.Context, productID uuid.UUID, asOf time.Time, _ bool) ([]entity.InventoryBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.InventoryBatch
	for _, b := range r.batches {
		if b.ProductID != productID || b.Quantity <= 0 || b.Expired(asOf) {
			continue
		}
		out = append(out, *b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.ExpiresAt == nil && b.ExpiresAt == nil:
			return a.ReceivedAt.Before(b.ReceivedAt)
		case a.ExpiresAt == nil:
			return false
		case b.ExpiresAt == nil:
			return true
		case a.ExpiresAt.Equal(*b.ExpiresAt):
			return a.ReceivedAt.Before(b.ReceivedAt)
		default:
			return a.ExpiresAt.Before(*b.ExpiresAt)
		}
	})
	return out, nil
}

func (r *fakeInventoryRepo) DecrementBatch(_ context.Context, batchID uuid.UUID, qty int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.batches {
		if b.ID == batchID {
			if b.Quantity < qty {
				return false, nil
			}
			b.Quantity -= qty
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeInventoryRepo) AvailableStock(_ context.Context, productID uuid.UUID, asOf time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, b := range r.batches {
		if b.ProductID != productID || b.Quantity <= 0 || b.Expired(asOf) {
			continue
		}
		total += b.Quantity
	}
	return total, nil
}

func (r *fakeInventoryRepo) StockLevels(_ context.Context, ownerID uuid.UUID, asOf time.Time) ([]domainRepo.StockLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byProduct := make(map[uuid.UUID]*domainRepo.StockLevel)
	for _, b := range r.batches {
		if b.OwnerID != ownerID || b.Quantity <= 0 || b.Expired(asOf) {
			continue
		}
		lvl := byProduct[b.ProductID]
		if lvl == nil {
			lvl = &domainRepo.StockLevel{ProductID: b.ProductID}
			byProduct[b.ProductID] = lvl
		}
		lvl.Quantity += b.Quantity
		if b.ExpiresAt != nil && (lvl.EarliestExpiry == nil || b.ExpiresAt.Before(*lvl.EarliestExpiry)) {
			lvl.EarliestExpiry = b.ExpiresAt
		}
	}
	var out []domainRepo.StockLevel
	for _, lvl := range byProduct {
		out = append(out, *lvl)
	}
	return out, nil
}

func (r *fakeInventoryRepo) CreateDamage(_ context.Context, damage *entity.DamagedItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if damage.ID == uuid.Nil {
		damage.ID = uuid.New()
	}
	cp := *damage
	r.damages = append(r.damages, &cp)
	return nil
}

func (r *fakeInventoryRepo) DamagedQuantities(_ context.Context, ownerID uuid.UUID, from, to time.Time) (map[uuid.UUID]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[uuid.UUID]int)
	for _, d := range r.damages {
		if d.OwnerID != ownerID || !enum.CountsAsLoss(d.Disposition) {
			continue
		}
		if d.Date.Before(from) || !d.Date.Before(to) {
			continue
		}
		for _, b := range r.batches {
			if b.ID == d.BatchID {
				out[b.ProductID] += d.Quantity
				break
			}
		}
	}
	return out, nil
}

type fakeReceiptRepo struct {
	mu       sync.Mutex
	receipts []*entity.Receipt
	lines    []entity.ReceiptLine
}

func (r *fakeReceiptRepo) snapshot() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	receipts := make([]*entity.Receipt, len(r.receipts))
	copy(receipts, r.receipts)
	lines := make([]entity.ReceiptLine, len(r.lines))
	copy(lines, r.lines)
	return [2]any{receipts, lines}
}

func (r *fakeReceiptRepo) restore(state any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := state.([2]any)
	r.receipts = s[0].([]*entity.Receipt)
	r.lines = s[1].([]entity.ReceiptLine)
}

func (r *fakeReceiptRepo) Create(_ context.Context, receipt *entity.Receipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if receipt.ID == uuid.Nil {
		receipt.ID = uuid.New()
	}
	r.receipts = append(r.receipts, receipt)
	return nil
}

func (r *fakeReceiptRepo) CreateLines(_ context.Context, lines []entity.ReceiptLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range lines {
		if lines[i].ID == uuid.Nil {
			lines[i].ID = uuid.New()
		}
	}
	r.lines = append(r.lines, lines...)
	return nil
}

func (r *fakeReceiptRepo) GetWithLines(_ context.Context, ownerID, id uuid.UUID) (*entity.Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.receipts {
		if rec.OwnerID == ownerID && rec.ID == id {
			cp := *rec
			for _, l := range r.lines {
				if l.ReceiptID == id {
					cp.Lines = append(cp.Lines, l)
				}
			}
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeReceiptRepo) SalesLines(_ context.Context, ownerID uuid.UUID, from, to time.Time) ([]domainRepo.SalesLineRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rows []domainRepo.SalesLineRow
	for _, rec := range r.receipts {
		if rec.OwnerID != ownerID {
			continue
		}
		if rec.IssuedAt.Before(from) || !rec.IssuedAt.Before(to) {
			continue
		}
		for _, l := range r.lines {
			if l.ReceiptID != rec.ID {
				continue
			}
			rows = append(rows, domainRepo.SalesLineRow{
				ReceiptID:            rec.ID,
				IssuedAt:             rec.IssuedAt,
				ReceiptDiscountType:  rec.DiscountType,
				ReceiptDiscountValue: rec.DiscountValue,
				LineID:               l.ID,
				ProductID:            l.ProductID,
				Quantity:             l.Quantity,
				LineDiscountType:     l.DiscountType,
				LineDiscountValue:    l.DiscountValue,
			})
		}
	}
	return rows, nil
}

type fakePriceHistoryRepo struct {
	changes []*entity.PriceChange
}

func (r *fakePriceHistoryRepo) Append(_ context.Context, change *entity.PriceChange) error {
	if change.ID == uuid.Nil {
		change.ID = uuid.New()
	}
	cp := *change
	r.changes = append(r.changes, &cp)
	return nil
}

func (r *fakePriceHistoryRepo) Latest(_ context.Context, productID uuid.UUID) (*entity.PriceChange, error) {
	var latest *entity.PriceChange
	for _, c := range r.changes {
		if c.ProductID != productID {
			continue
		}
		if latest == nil || c.EffectiveFrom.After(latest.EffectiveFrom) {
			latest = c
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *fakePriceHistoryRepo) ActiveAt(_ context.Context, productID uuid.UUID, at time.Time) (*entity.PriceChange, error) {
	var active *entity.PriceChange
	for _, c := range r.changes {
		if c.ProductID != productID || !c.Contains(at) {
			continue
		}
		if active == nil || c.EffectiveFrom.After(active.EffectiveFrom) {
			active = c
		}
	}
	if active == nil {
		return nil, nil
	}
	cp := *active
	return &cp, nil
}

type fakeOwnerRepo struct {
	owners []*entity.Owner
}

func (r *fakeOwnerRepo) Create(_ context.Context, owner *entity.Owner) error {
	if owner.ID == uuid.Nil {
		owner.ID = uuid.New()
	}
	cp := *owner
	r.owners = append(r.owners, &cp)
	return nil
}

func (r *fakeOwnerRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Owner, error) {
	for _, o := range r.owners {
		if o.ID == id {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeOwnerRepo) GetByEmail(_ context.Context, email string) (*entity.Owner, error) {
	for _, o := range r.owners {
		if o.Email == email {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeReportCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
	hits    int
}

func newFakeReportCache() *fakeReportCache {
	return &fakeReportCache{entries: make(map[string][]byte)}
}

func (c *fakeReportCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	payload, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return payload, ok, nil
}

func (c *fakeReportCache) Set(_ context.Context, key string, payload []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = payload
	c.sets++
	return nil
}
