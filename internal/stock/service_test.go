package stock

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/stockmaster-erp/stockmaster/internal/history"
	"github.com/stockmaster-erp/stockmaster/internal/masterdata/locations"
	"github.com/stockmaster-erp/stockmaster/internal/masterdata/operationtypes"
	"github.com/stockmaster-erp/stockmaster/internal/masterdata/products"
	"github.com/stockmaster-erp/stockmaster/internal/platform/httpx"
	_ "github.com/stockmaster-erp/stockmaster/internal/testing/guard"
)

type quantKey struct {
	productID  int64
	locationID int64
}

type fakeStore struct {
	pickings map[int64]Picking
	moves    map[int64]Move
	quants   map[quantKey]Quant
	entries  []history.Entry
	nextID   int64

	products  map[int64]products.Product
	locations map[int64]locations.Location
	opTypes   map[int64]operationtypes.OperationType
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		pickings:  map[int64]Picking{},
		moves:     map[int64]Move{},
		quants:    map[quantKey]Quant{},
		products:  map[int64]products.Product{},
		locations: map[int64]locations.Location{},
		opTypes:   map[int64]operationtypes.OperationType{},
	}
}

func (s *fakeStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) clone() *fakeStore {
	c := newFakeStore()
	c.nextID = s.nextID
	for k, v := range s.pickings {
		c.pickings[k] = v
	}
	for k, v := range s.moves {
		c.moves[k] = v
	}
	for k, v := range s.quants {
		c.quants[k] = v
	}
	c.entries = append(c.entries, s.entries...)
	c.products = s.products
	c.locations = s.locations
	c.opTypes = s.opTypes
	return c
}

// fakeRepo implements RepositoryPort with rollback-on-error semantics so
// the all-or-nothing contract is observable in tests.
type fakeRepo struct {
	store *fakeStore
}

func (f *fakeRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	snapshot := f.store.clone()
	if err := fn(ctx, &fakeTx{store: f.store}); err != nil {
		*f.store = *snapshot
		return err
	}
	return nil
}

func (f *fakeRepo) GetPicking(_ context.Context, id int64) (Picking, error) {
	p, ok := f.store.pickings[id]
	if !ok {
		return Picking{}, httpx.ErrNotFound
	}
	f.store.denormPicking(&p)
	p.Moves = f.store.movesOf(id)
	return p, nil
}

func (f *fakeRepo) ListPickings(_ context.Context, filters ListFilters) ([]Picking, int, error) {
	var list []Picking
	for _, p := range f.store.pickings {
		if filters.Status != "" && string(p.Status) != filters.Status {
			continue
		}
		f.store.denormPicking(&p)
		list = append(list, p)
	}
	return list, len(list), nil
}

func (f *fakeRepo) ListMoves(_ context.Context, pickingID, productID *int64, _, _ int) ([]Move, int, error) {
	var list []Move
	for _, m := range f.store.moves {
		if pickingID != nil && m.PickingID != *pickingID {
			continue
		}
		if productID != nil && m.ProductID != *productID {
			continue
		}
		list = append(list, m)
	}
	return list, len(list), nil
}

func (f *fakeRepo) GetMove(_ context.Context, id int64) (Move, error) {
	m, ok := f.store.moves[id]
	if !ok {
		return Move{}, httpx.ErrNotFound
	}
	return m, nil
}

func (s *fakeStore) denormPicking(p *Picking) {
	if ot, ok := s.opTypes[p.OperationTypeID]; ok {
		p.OperationTypeName = ot.Name
		p.OperationTypeCode = string(ot.Code)
	}
	if l, ok := s.locations[p.SourceLocationID]; ok {
		p.SourceLocationName = l.Name
	}
	if l, ok := s.locations[p.DestinationLocationID]; ok {
		p.DestinationLocationName = l.Name
	}
}

func (s *fakeStore) movesOf(pickingID int64) []Move {
	var list []Move
	for id := int64(1); id <= s.nextID; id++ {
		m, ok := s.moves[id]
		if !ok || m.PickingID != pickingID {
			continue
		}
		if p, ok := s.products[m.ProductID]; ok {
			m.ProductSKU = p.SKU
			m.ProductName = p.Name
		}
		if l, ok := s.locations[m.SourceLocationID]; ok {
			m.SourceLocationName = l.Name
		}
		if l, ok := s.locations[m.DestinationLocationID]; ok {
			m.DestinationLocationName = l.Name
		}
		list = append(list, m)
	}
	return list
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) GetPickingForUpdate(_ context.Context, id int64) (Picking, error) {
	p, ok := t.store.pickings[id]
	if !ok {
		return Picking{}, httpx.ErrNotFound
	}
	t.store.denormPicking(&p)
	return p, nil
}

func (t *fakeTx) InsertPicking(_ context.Context, p Picking) (int64, error) {
	for _, existing := range t.store.pickings {
		if existing.Reference == p.Reference {
			return 0, errors.New("duplicate reference")
		}
	}
	p.ID = t.store.id()
	p.CreatedAt = time.Now()
	t.store.pickings[p.ID] = p
	return p.ID, nil
}

func (t *fakeTx) UpdatePickingHeader(_ context.Context, id int64, p Picking) error {
	current := t.store.pickings[id]
	current.Partner = p.Partner
	current.SourceLocationID = p.SourceLocationID
	current.DestinationLocationID = p.DestinationLocationID
	current.ScheduledDate = p.ScheduledDate
	current.Notes = p.Notes
	t.store.pickings[id] = current
	return nil
}

func (t *fakeTx) SetPickingStatus(_ context.Context, id int64, status Status, completion *time.Time) error {
	current := t.store.pickings[id]
	current.Status = status
	if completion != nil {
		current.CompletionDate = completion
	}
	t.store.pickings[id] = current
	return nil
}

func (t *fakeTx) DeletePicking(_ context.Context, id int64) error {
	delete(t.store.pickings, id)
	for mid, m := range t.store.moves {
		if m.PickingID == id {
			delete(t.store.moves, mid)
		}
	}
	return nil
}

func (t *fakeTx) MovesByPicking(_ context.Context, pickingID int64) ([]Move, error) {
	return t.store.movesOf(pickingID), nil
}

func (t *fakeTx) InsertMove(_ context.Context, m Move) (int64, error) {
	m.ID = t.store.id()
	t.store.moves[m.ID] = m
	return m.ID, nil
}

func (t *fakeTx) UpdateMove(_ context.Context, m Move) error {
	current := t.store.moves[m.ID]
	current.ProductID = m.ProductID
	current.Quantity = m.Quantity
	current.SourceLocationID = m.SourceLocationID
	current.DestinationLocationID = m.DestinationLocationID
	current.Notes = m.Notes
	t.store.moves[m.ID] = current
	return nil
}

func (t *fakeTx) SetMoveStatus(_ context.Context, id int64, status Status) error {
	current := t.store.moves[id]
	current.Status = status
	t.store.moves[id] = current
	return nil
}

func (t *fakeTx) DeleteMove(_ context.Context, id int64) error {
	delete(t.store.moves, id)
	return nil
}

func (t *fakeTx) ReferencesByPrefix(_ context.Context, prefix string) ([]string, error) {
	var refs []string
	for _, p := range t.store.pickings {
		refs = append(refs, p.Reference)
	}
	return refs, nil
}

func (t *fakeTx) GetQuantForUpdate(_ context.Context, productID, locationID int64) (Quant, error) {
	q, ok := t.store.quants[quantKey{productID, locationID}]
	if !ok {
		return Quant{ProductID: productID, LocationID: locationID}, ErrQuantNotFound
	}
	return q, nil
}

func (t *fakeTx) AdjustQuant(_ context.Context, productID, locationID int64, delta decimal.Decimal) error {
	key := quantKey{productID, locationID}
	q, ok := t.store.quants[key]
	if !ok {
		q = Quant{ProductID: productID, LocationID: locationID}
	}
	q.Quantity = q.Quantity.Add(delta)
	t.store.quants[key] = q
	return nil
}

func (t *fakeTx) MoveExists(_ context.Context, key history.MoveKey) (bool, error) {
	for _, e := range t.store.entries {
		if e.Action != history.ActionStockMove {
			continue
		}
		if e.PickingID != nil && *e.PickingID == key.PickingID &&
			e.ProductID != nil && *e.ProductID == key.ProductID &&
			e.Quantity != nil && e.Quantity.Equal(key.Quantity) &&
			e.SourceLocationID != nil && *e.SourceLocationID == key.SourceLocationID &&
			e.DestinationLocationID != nil && *e.DestinationLocationID == key.DestinationLocationID {
			return true, nil
		}
	}
	return false, nil
}

func (t *fakeTx) Insert(_ context.Context, entry history.Entry) error {
	entry.Timestamp = time.Now()
	t.store.entries = append(t.store.entries, entry)
	return nil
}

type fakeProducts struct{ store *fakeStore }

func (f fakeProducts) Get(_ context.Context, id int64) (products.Product, error) {
	p, ok := f.store.products[id]
	if !ok {
		return products.Product{}, httpx.ErrNotFound
	}
	return p, nil
}

type fakeLocations struct{ store *fakeStore }

func (f fakeLocations) Get(_ context.Context, id int64) (locations.Location, error) {
	l, ok := f.store.locations[id]
	if !ok {
		return locations.Location{}, httpx.ErrNotFound
	}
	return l, nil
}

type fakeOpTypes struct{ store *fakeStore }

func (f fakeOpTypes) Get(_ context.Context, id int64) (operationtypes.OperationType, error) {
	ot, ok := f.store.opTypes[id]
	if !ok {
		return operationtypes.OperationType{}, httpx.ErrNotFound
	}
	return ot, nil
}

const (
	opOutgoing = int64(1)
	opInternal = int64(2)
	opIncoming = int64(3)

	locStock    = int64(10)
	locShelf    = int64(11)
	locCustomer = int64(12)
	locSupplier = int64(13)

	productWidget = int64(100)
	productGear   = int64(101)
)

func newFixture(t *testing.T) (*Service, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	store.nextID = 200

	store.opTypes[opOutgoing] = operationtypes.OperationType{ID: opOutgoing, Name: "Delivery Orders", Code: operationtypes.CodeOutgoing, SequencePrefix: "OUT"}
	store.opTypes[opInternal] = operationtypes.OperationType{ID: opInternal, Name: "Internal Transfers", Code: operationtypes.CodeInternal, SequencePrefix: "INT"}
	store.opTypes[opIncoming] = operationtypes.OperationType{ID: opIncoming, Name: "Receipts", Code: operationtypes.CodeIncoming, SequencePrefix: "IN"}

	store.locations[locStock] = locations.Location{ID: locStock, Name: "WH/Stock", UsageType: locations.UsageInternal}
	store.locations[locShelf] = locations.Location{ID: locShelf, Name: "WH/Shelf A", UsageType: locations.UsageInternal}
	store.locations[locCustomer] = locations.Location{ID: locCustomer, Name: "Customers", UsageType: locations.UsageCustomer}
	store.locations[locSupplier] = locations.Location{ID: locSupplier, Name: "Suppliers", UsageType: locations.UsageSupplier}

	store.products[productWidget] = products.Product{ID: productWidget, SKU: "WID-001", Name: "Widget", IsActive: true}
	store.products[productGear] = products.Product{ID: productGear, SKU: "GEAR-002", Name: "Gear", IsActive: true}

	logger := slog.New(slog.DiscardHandler)
	repo := &fakeRepo{store: store}
	svc := NewService(logger, repo, fakeProducts{store}, fakeLocations{store}, fakeOpTypes{store})
	return svc, store
}

func setQuant(store *fakeStore, productID, locationID int64, qty string) {
	store.quants[quantKey{productID, locationID}] = Quant{
		ProductID:  productID,
		LocationID: locationID,
		Quantity:   decimal.RequireFromString(qty),
	}
}

func quantOf(store *fakeStore, productID, locationID int64) decimal.Decimal {
	return store.quants[quantKey{productID, locationID}].Quantity
}

func createPicking(t *testing.T, svc *Service, opTypeID, src, dst int64, lines []LineReq) Picking {
	t.Helper()
	p, err := svc.Create(context.Background(), nil, CreateRequest{
		OperationTypeID:       opTypeID,
		SourceLocationID:      src,
		DestinationLocationID: dst,
		ScheduledDate:         time.Now().Add(time.Hour),
		Lines:                 lines,
	})
	require.NoError(t, err)
	return p
}

func line(productID int64, qty string) LineReq {
	return LineReq{ProductID: productID, Quantity: decimal.RequireFromString(qty)}
}

func TestValidateRejectsInsufficientStock(t *testing.T) {
	svc, store := newFixture(t)
	setQuant(store, productWidget, locStock, "30.00")

	p := createPicking(t, svc, opOutgoing, locStock, locCustomer, []LineReq{line(productWidget, "50.00")})

	_, err := svc.Validate(context.Background(), p.ID)
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, "WID-001", insufficient.ProductSKU)
	require.Equal(t, "50.00", insufficient.Required.StringFixed(2))
	require.Equal(t, "30.00", insufficient.Available.StringFixed(2))
	require.Equal(t, "WH/Stock", insufficient.LocationName)

	require.True(t, quantOf(store, productWidget, locStock).Equal(decimal.RequireFromString("30.00")))
	require.Equal(t, StatusDraft, store.pickings[p.ID].Status)
}

func TestValidateCommitsAndCreatesDestinationQuant(t *testing.T) {
	svc, store := newFixture(t)
	setQuant(store, productWidget, locStock, "100.00")

	p := createPicking(t, svc, opOutgoing, locStock, locCustomer, []LineReq{line(productWidget, "50.00")})

	done, err := svc.Validate(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, StatusDone, done.Status)
	require.NotNil(t, done.CompletionDate)

	require.True(t, quantOf(store, productWidget, locStock).Equal(decimal.RequireFromString("50.00")))
	require.True(t, quantOf(store, productWidget, locCustomer).Equal(decimal.RequireFromString("50.00")))
	for _, m := range done.Moves {
		require.Equal(t, StatusDone, m.Status)
	}

	var moveRows, statusRows int
	for _, e := range store.entries {
		switch e.Action {
		case history.ActionStockMove:
			moveRows++
		case history.ActionStatusChange:
			statusRows++
		}
	}
	require.Equal(t, 1, moveRows)
	require.Equal(t, 1, statusRows)
}

func TestValidateIsAllOrNothing(t *testing.T) {
	svc, store := newFixture(t)
	setQuant(store, productWidget, locStock, "100.00")
	setQuant(store, productGear, locStock, "5.00")

	p := createPicking(t, svc, opOutgoing, locStock, locCustomer, []LineReq{
		line(productWidget, "50.00"),
		line(productGear, "10.00"),
	})

	_, err := svc.Validate(context.Background(), p.ID)
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, "GEAR-002", insufficient.ProductSKU)

	// Neither quant moved and no line flipped.
	require.True(t, quantOf(store, productWidget, locStock).Equal(decimal.RequireFromString("100.00")))
	require.True(t, quantOf(store, productGear, locStock).Equal(decimal.RequireFromString("5.00")))
	_, created := store.quants[quantKey{productWidget, locCustomer}]
	require.False(t, created)
	for _, m := range store.movesOf(p.ID) {
		require.Equal(t, StatusDraft, m.Status)
	}
	require.Empty(t, store.entries)
}

func TestValidateMissingQuantReportsZeroAvailable(t *testing.T) {
	svc, _ := newFixture(t)

	p := createPicking(t, svc, opOutgoing, locStock, locCustomer, []LineReq{line(productWidget, "1.00")})

	_, err := svc.Validate(context.Background(), p.ID)
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, "0.00", insufficient.Available.StringFixed(2))
}

func TestValidateAlreadyDone(t *testing.T) {
	svc, store := newFixture(t)
	setQuant(store, productWidget, locStock, "10.00")

	p := createPicking(t, svc, opOutgoing, locStock, locCustomer, []LineReq{line(productWidget, "10.00")})
	_, err := svc.Validate(context.Background(), p.ID)
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), p.ID)
	require.ErrorIs(t, err, ErrAlreadyDone)
}

func TestInternalTransferSkipsAvailabilityAndConservesStock(t *testing.T) {
	svc, store := newFixture(t)
	setQuant(store, productWidget, locStock, "40.00")

	// No quant exists at the shelf; internal transfers never check
	// availability, so the source may go negative by design.
	p := createPicking(t, svc, opInternal, locShelf, locStock, []LineReq{line(productWidget, "15.00")})

	before := quantOf(store, productWidget, locStock).Add(quantOf(store, productWidget, locShelf))
	_, err := svc.Validate(context.Background(), p.ID)
	require.NoError(t, err)

	after := quantOf(store, productWidget, locStock).Add(quantOf(store, productWidget, locShelf))
	require.True(t, before.Equal(after), "internal moves must conserve total stock")
	require.True(t, quantOf(store, productWidget, locShelf).Equal(decimal.RequireFromString("-15.00")))
	require.True(t, quantOf(store, productWidget, locStock).Equal(decimal.RequireFromString("55.00")))
}

func TestSequentialAdjustmentsAccumulate(t *testing.T) {
	svc, store := newFixture(t)
	setQuant(store, productWidget, locStock, "50.00")

	in := createPicking(t, svc, opIncoming, locSupplier, locStock, []LineReq{line(productWidget, "20.00")})
	_, err := svc.Validate(context.Background(), in.ID)
	require.NoError(t, err)

	out := createPicking(t, svc, opOutgoing, locStock, locCustomer, []LineReq{line(productWidget, "10.00")})
	_, err = svc.Validate(context.Background(), out.ID)
	require.NoError(t, err)

	require.Equal(t, "60.00", quantOf(store, productWidget, locStock).StringFixed(2))
	require.Equal(t, StatusDone, store.pickings[in.ID].Status)
	require.Equal(t, StatusDone, store.pickings[out.ID].Status)
}

func TestCreateGeneratesSequentialReferences(t *testing.T) {
	svc, _ := newFixture(t)

	first := createPicking(t, svc, opOutgoing, locStock, locCustomer, []LineReq{line(productWidget, "1.00")})
	require.Equal(t, "OUT00001", first.Reference)

	second := createPicking(t, svc, opOutgoing, locStock, locCustomer, []LineReq{line(productWidget, "1.00")})
	require.Equal(t, "OUT00002", second.Reference)

	internal := createPicking(t, svc, opInternal, locStock, locShelf, []LineReq{line(productWidget, "1.00")})
	require.Equal(t, "INT00001", internal.Reference)
}

func TestCreateRejectsEmptyLinesAndUnknownProduct(t *testing.T) {
	svc, _ := newFixture(t)

	_, err := svc.Create(context.Background(), nil, CreateRequest{
		OperationTypeID:       opOutgoing,
		SourceLocationID:      locStock,
		DestinationLocationID: locCustomer,
		ScheduledDate:         time.Now(),
	})
	require.Error(t, err)

	_, err = svc.Create(context.Background(), nil, CreateRequest{
		OperationTypeID:       opOutgoing,
		SourceLocationID:      locStock,
		DestinationLocationID: locCustomer,
		ScheduledDate:         time.Now(),
		Lines:                 []LineReq{line(999, "5.00")},
	})
	require.Error(t, err)

	_, err = svc.Create(context.Background(), nil, CreateRequest{
		OperationTypeID:       opOutgoing,
		SourceLocationID:      locStock,
		DestinationLocationID: locCustomer,
		ScheduledDate:         time.Now(),
		Lines:                 []LineReq{line(productWidget, "0.00")},
	})
	require.Error(t, err)
}

func TestCreateProducesNoStatusHistory(t *testing.T) {
	svc, store := newFixture(t)

	p := createPicking(t, svc, opOutgoing, locStock, locCustomer, []LineReq{line(productWidget, "1.00")})
	require.Empty(t, store.entries)

	_, err := svc.Confirm(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, store.entries, 1)
	require.Equal(t, history.ActionStatusChange, store.entries[0].Action)
	require.Equal(t, "draft", store.entries[0].OldStatus)
	require.Equal(t, "confirmed", store.entries[0].NewStatus)
}

func TestUpdateReconcilesLines(t *testing.T) {
	svc, store := newFixture(t)

	p := createPicking(t, svc, opOutgoing, locStock, locCustomer, []LineReq{
		line(productWidget, "5.00"),
		line(productGear, "3.00"),
	})
	require.Len(t, p.Moves, 2)
	keep := p.Moves[0]

	updated, err := svc.Update(context.Background(), p.ID, UpdateRequest{
		Lines: []LineReq{
			{ID: keep.ID, ProductID: productWidget, Quantity: decimal.RequireFromString("8.00")},
			line(productGear, "2.00"),
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Moves, 2)

	var kept, added bool
	for _, m := range updated.Moves {
		switch m.ID {
		case keep.ID:
			kept = true
			require.Equal(t, "8.00", m.Quantity.StringFixed(2))
		case p.Moves[1].ID:
			t.Fatalf("line %d should have been deleted", m.ID)
		default:
			added = true
			require.Equal(t, productGear, m.ProductID)
		}
	}
	require.True(t, kept)
	require.True(t, added)
	_, stillThere := store.moves[p.Moves[1].ID]
	require.False(t, stillThere)
}

func TestUpdateRejectsForeignLine(t *testing.T) {
	svc, store := newFixture(t)

	first := createPicking(t, svc, opOutgoing, locStock, locCustomer, []LineReq{line(productWidget, "5.00")})
	second := createPicking(t, svc, opOutgoing, locStock, locCustomer, []LineReq{line(productGear, "4.00")})

	_, err := svc.Update(context.Background(), first.ID, UpdateRequest{
		Lines: []LineReq{
			{ID: second.Moves[0].ID, ProductID: productWidget, Quantity: decimal.RequireFromString("1.00")},
		},
	})
	require.Error(t, err)

	// Nothing changed on either picking.
	require.Equal(t, "5.00", store.moves[first.Moves[0].ID].Quantity.StringFixed(2))
	require.Equal(t, "4.00", store.moves[second.Moves[0].ID].Quantity.StringFixed(2))
}

func TestUpdateRejectedAfterValidation(t *testing.T) {
	svc, store := newFixture(t)
	setQuant(store, productWidget, locStock, "10.00")

	p := createPicking(t, svc, opOutgoing, locStock, locCustomer, []LineReq{line(productWidget, "10.00")})
	_, err := svc.Validate(context.Background(), p.ID)
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), p.ID, UpdateRequest{
		Lines: []LineReq{line(productWidget, "1.00")},
	})
	require.ErrorIs(t, err, ErrNotEditable)
}

func TestConfirmAndCancelGuards(t *testing.T) {
	svc, store := newFixture(t)
	setQuant(store, productWidget, locStock, "10.00")

	p := createPicking(t, svc, opOutgoing, locStock, locCustomer, []LineReq{line(productWidget, "5.00")})

	confirmed, err := svc.Confirm(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, StatusConfirmed, confirmed.Status)
	for _, m := range confirmed.Moves {
		require.Equal(t, StatusConfirmed, m.Status)
	}

	_, err = svc.Confirm(context.Background(), p.ID)
	require.ErrorIs(t, err, ErrNotConfirmable)

	cancelled, err := svc.Cancel(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, StatusCancelled, cancelled.Status)

	_, err = svc.Cancel(context.Background(), p.ID)
	require.ErrorIs(t, err, ErrNotCancellable)

	done := createPicking(t, svc, opOutgoing, locStock, locCustomer, []LineReq{line(productWidget, "5.00")})
	_, err = svc.Validate(context.Background(), done.ID)
	require.NoError(t, err)
	_, err = svc.Cancel(context.Background(), done.ID)
	require.ErrorIs(t, err, ErrNotCancellable)
}

func TestDeleteOnlyDraft(t *testing.T) {
	svc, store := newFixture(t)
	setQuant(store, productWidget, locStock, "10.00")

	p := createPicking(t, svc, opOutgoing, locStock, locCustomer, []LineReq{line(productWidget, "5.00")})
	moveID := p.Moves[0].ID

	_, err := svc.Confirm(context.Background(), p.ID)
	require.NoError(t, err)
	require.ErrorIs(t, svc.Delete(context.Background(), p.ID), ErrNotDraft)

	draft := createPicking(t, svc, opOutgoing, locStock, locCustomer, []LineReq{line(productWidget, "5.00")})
	require.NoError(t, svc.Delete(context.Background(), draft.ID))
	_, err = svc.Get(context.Background(), draft.ID)
	require.ErrorIs(t, err, httpx.ErrNotFound)

	// The confirmed picking's line is untouched.
	_, ok := store.moves[moveID]
	require.True(t, ok)
}
