package stock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/stockmaster-erp/stockmaster/internal/history"
	"github.com/stockmaster-erp/stockmaster/internal/masterdata/locations"
	"github.com/stockmaster-erp/stockmaster/internal/masterdata/operationtypes"
	"github.com/stockmaster-erp/stockmaster/internal/masterdata/products"
	"github.com/stockmaster-erp/stockmaster/internal/platform/httpx"
	"github.com/stockmaster-erp/stockmaster/internal/shared"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetPicking(ctx context.Context, id int64) (Picking, error)
	ListPickings(ctx context.Context, filters ListFilters) ([]Picking, int, error)
	ListMoves(ctx context.Context, pickingID, productID *int64, limit, offset int) ([]Move, int, error)
	GetMove(ctx context.Context, id int64) (Move, error)
}

// Lookup ports into master data. The master data services satisfy these
// directly.
type (
	ProductLookup interface {
		Get(ctx context.Context, id int64) (products.Product, error)
	}
	LocationLookup interface {
		Get(ctx context.Context, id int64) (locations.Location, error)
	}
	OperationTypeLookup interface {
		Get(ctx context.Context, id int64) (operationtypes.OperationType, error)
	}
)

// Service coordinates the picking lifecycle and the ledger commit.
type Service struct {
	logger    *slog.Logger
	repo      RepositoryPort
	products  ProductLookup
	locations LocationLookup
	opTypes   OperationTypeLookup
	recorder  history.Recorder
}

// NewService builds Service.
func NewService(logger *slog.Logger, repo RepositoryPort, products ProductLookup, locations LocationLookup, opTypes OperationTypeLookup) *Service {
	return &Service{
		logger:    logger,
		repo:      repo,
		products:  products,
		locations: locations,
		opTypes:   opTypes,
	}
}

func (s *Service) Get(ctx context.Context, id int64) (Picking, error) {
	return s.repo.GetPicking(ctx, id)
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Picking, int, error) {
	return s.repo.ListPickings(ctx, filters)
}

func (s *Service) ListMoves(ctx context.Context, pickingID, productID *int64, limit, offset int) ([]Move, int, error) {
	return s.repo.ListMoves(ctx, pickingID, productID, limit, offset)
}

func (s *Service) GetMove(ctx context.Context, id int64) (Move, error) {
	return s.repo.GetMove(ctx, id)
}

// Create inserts a picking header plus its lines in one transaction.
// Lines inherit source, destination and status from the header. When no
// reference is supplied one is generated from the operation type prefix;
// the generator is best-effort sequential, so a concurrent create for
// the same prefix can collide on the unique constraint and is retried.
func (s *Service) Create(ctx context.Context, actor *shared.Actor, req CreateRequest) (Picking, error) {
	if err := ValidateCreateRequest(req); err != nil {
		return Picking{}, err
	}
	opType, err := s.lookupOperationType(ctx, req.OperationTypeID)
	if err != nil {
		return Picking{}, err
	}
	if err := s.lookupLocations(ctx, req.SourceLocationID, req.DestinationLocationID); err != nil {
		return Picking{}, err
	}
	if err := s.lookupLineProducts(ctx, req.Lines); err != nil {
		return Picking{}, err
	}

	header := Picking{
		Reference:             req.Reference,
		Partner:               req.Partner,
		OperationTypeID:       req.OperationTypeID,
		SourceLocationID:      req.SourceLocationID,
		DestinationLocationID: req.DestinationLocationID,
		Status:                StatusDraft,
		ScheduledDate:         req.ScheduledDate,
		Notes:                 req.Notes,
	}
	if actor != nil {
		header.CreatedBy = &actor.ID
	}

	var pickingID int64
	for attempt := 0; attempt < referenceAttempts; attempt++ {
		err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
			p := header
			if p.Reference == "" {
				refs, err := tx.ReferencesByPrefix(ctx, opType.SequencePrefix)
				if err != nil {
					return err
				}
				p.Reference = NextReference(opType.SequencePrefix, refs)
			}
			id, err := tx.InsertPicking(ctx, p)
			if err != nil {
				return err
			}
			for _, line := range req.Lines {
				if _, err := tx.InsertMove(ctx, Move{
					PickingID:             id,
					ProductID:             line.ProductID,
					Quantity:              line.Quantity,
					SourceLocationID:      p.SourceLocationID,
					DestinationLocationID: p.DestinationLocationID,
					Status:                StatusDraft,
					Notes:                 line.Notes,
				}); err != nil {
					return err
				}
			}
			pickingID = id
			return nil
		})
		if err == nil {
			return s.repo.GetPicking(ctx, pickingID)
		}
		if !IsUniqueViolation(err) {
			return Picking{}, err
		}
		if header.Reference != "" {
			// Explicit reference clash is the caller's to resolve.
			return Picking{}, fmt.Errorf("%w: reference %s", httpx.ErrDuplicate, header.Reference)
		}
		s.logger.Warn("picking reference collision, retrying",
			slog.String("prefix", opType.SequencePrefix), slog.Int("attempt", attempt+1))
	}
	return Picking{}, ErrReferenceConflict
}

// Update reconciles the header and line set in one transaction: payload
// lines with an id update that line, lines without an id are inserted,
// and persisted lines missing from the payload are deleted. The
// reference is never recomputed.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (Picking, error) {
	if err := ValidateUpdateRequest(req); err != nil {
		return Picking{}, err
	}
	if err := s.lookupLineProducts(ctx, req.Lines); err != nil {
		return Picking{}, err
	}
	if req.SourceLocationID != nil {
		if _, err := s.locations.Get(ctx, *req.SourceLocationID); err != nil {
			return Picking{}, locationFieldError("source_location_id", err)
		}
	}
	if req.DestinationLocationID != nil {
		if _, err := s.locations.Get(ctx, *req.DestinationLocationID); err != nil {
			return Picking{}, locationFieldError("destination_location_id", err)
		}
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		p, err := tx.GetPickingForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !p.Status.CanEdit() {
			return ErrNotEditable
		}

		header := p
		if req.Partner != nil {
			header.Partner = *req.Partner
		}
		if req.SourceLocationID != nil {
			header.SourceLocationID = *req.SourceLocationID
		}
		if req.DestinationLocationID != nil {
			header.DestinationLocationID = *req.DestinationLocationID
		}
		if req.ScheduledDate != nil {
			header.ScheduledDate = *req.ScheduledDate
		}
		if req.Notes != nil {
			header.Notes = *req.Notes
		}
		if err := tx.UpdatePickingHeader(ctx, id, header); err != nil {
			return err
		}

		existing, err := tx.MovesByPicking(ctx, id)
		if err != nil {
			return err
		}
		byID := make(map[int64]Move, len(existing))
		for _, m := range existing {
			byID[m.ID] = m
		}

		seen := make(map[int64]struct{}, len(req.Lines))
		for i, line := range req.Lines {
			if line.ID == 0 {
				if _, err := tx.InsertMove(ctx, Move{
					PickingID:             id,
					ProductID:             line.ProductID,
					Quantity:              line.Quantity,
					SourceLocationID:      header.SourceLocationID,
					DestinationLocationID: header.DestinationLocationID,
					Status:                p.Status,
					Notes:                 line.Notes,
				}); err != nil {
					return err
				}
				continue
			}
			current, ok := byID[line.ID]
			if !ok {
				return shared.FieldErrors{
					"lines[" + strconv.Itoa(i) + "].id": "line does not belong to this picking",
				}
			}
			seen[line.ID] = struct{}{}
			current.ProductID = line.ProductID
			current.Quantity = line.Quantity
			current.Notes = line.Notes
			current.SourceLocationID = header.SourceLocationID
			current.DestinationLocationID = header.DestinationLocationID
			if err := tx.UpdateMove(ctx, current); err != nil {
				return err
			}
		}
		for _, m := range existing {
			if _, kept := seen[m.ID]; !kept {
				if err := tx.DeleteMove(ctx, m.ID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return Picking{}, err
	}
	return s.repo.GetPicking(ctx, id)
}

// Confirm moves a draft picking (and its lines) to confirmed.
func (s *Service) Confirm(ctx context.Context, id int64) (Picking, error) {
	return s.transition(ctx, id, StatusConfirmed, func(st Status) error {
		if !st.CanConfirm() {
			return ErrNotConfirmable
		}
		return nil
	})
}

// Cancel aborts any non-terminal picking. No ledger changes are undone;
// a done picking cannot be cancelled.
func (s *Service) Cancel(ctx context.Context, id int64) (Picking, error) {
	return s.transition(ctx, id, StatusCancelled, func(st Status) error {
		if !st.CanCancel() {
			return ErrNotCancellable
		}
		return nil
	})
}

func (s *Service) transition(ctx context.Context, id int64, target Status, guard func(Status) error) (Picking, error) {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		p, err := tx.GetPickingForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := guard(p.Status); err != nil {
			return err
		}
		if err := tx.SetPickingStatus(ctx, id, target, nil); err != nil {
			return err
		}
		moves, err := tx.MovesByPicking(ctx, id)
		if err != nil {
			return err
		}
		for _, m := range moves {
			if m.Status.Terminal() {
				continue
			}
			if err := tx.SetMoveStatus(ctx, m.ID, target); err != nil {
				return err
			}
		}
		return s.recorder.StatusChanged(ctx, tx, history.StatusEvent{
			PickingID: id,
			OldStatus: string(p.Status),
			NewStatus: string(target),
			ActorID:   p.CreatedBy,
		})
	})
	if err != nil {
		return Picking{}, err
	}
	return s.repo.GetPicking(ctx, id)
}

// Delete removes a draft picking together with its lines.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		p, err := tx.GetPickingForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p.Status != StatusDraft {
			return ErrNotDraft
		}
		return tx.DeletePicking(ctx, id)
	})
}

// Validate commits a picking: the availability check (outgoing only) and
// every ledger adjustment, line status flip, history row and the final
// header flip happen in one transaction. Either everything is persisted
// or nothing is.
func (s *Service) Validate(ctx context.Context, id int64) (Picking, error) {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		p, err := tx.GetPickingForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p.Status == StatusDone {
			return ErrAlreadyDone
		}
		moves, err := tx.MovesByPicking(ctx, id)
		if err != nil {
			return err
		}

		if p.OperationTypeCode == OperationCodeOutgoing {
			// Lock quants in line order; the first shortfall aborts with
			// no mutation.
			for _, m := range moves {
				quant, err := tx.GetQuantForUpdate(ctx, m.ProductID, m.SourceLocationID)
				if err != nil && !errors.Is(err, ErrQuantNotFound) {
					return err
				}
				if quant.Available().LessThan(m.Quantity) {
					return &InsufficientStockError{
						ProductSKU:   m.ProductSKU,
						Required:     m.Quantity,
						Available:    quant.Available(),
						LocationName: m.SourceLocationName,
					}
				}
			}
		}

		for _, m := range moves {
			if err := tx.AdjustQuant(ctx, m.ProductID, m.SourceLocationID, m.Quantity.Neg()); err != nil {
				return err
			}
			if err := tx.AdjustQuant(ctx, m.ProductID, m.DestinationLocationID, m.Quantity); err != nil {
				return err
			}
			if err := tx.SetMoveStatus(ctx, m.ID, StatusDone); err != nil {
				return err
			}
			if err := s.recorder.MoveDone(ctx, tx, history.MoveEvent{
				PickingID:             p.ID,
				ProductID:             m.ProductID,
				Quantity:              m.Quantity,
				SourceLocationID:      m.SourceLocationID,
				DestinationLocationID: m.DestinationLocationID,
				ActorID:               p.CreatedBy,
				Notes:                 m.Notes,
			}); err != nil {
				return err
			}
		}

		now := time.Now()
		if err := tx.SetPickingStatus(ctx, id, StatusDone, &now); err != nil {
			return err
		}
		return s.recorder.StatusChanged(ctx, tx, history.StatusEvent{
			PickingID: id,
			OldStatus: string(p.Status),
			NewStatus: string(StatusDone),
			ActorID:   p.CreatedBy,
		})
	})
	if err != nil {
		return Picking{}, err
	}
	return s.repo.GetPicking(ctx, id)
}

func (s *Service) lookupOperationType(ctx context.Context, id int64) (operationtypes.OperationType, error) {
	opType, err := s.opTypes.Get(ctx, id)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return operationtypes.OperationType{}, shared.FieldErrors{"operation_type_id": "operation type does not exist"}
		}
		return operationtypes.OperationType{}, err
	}
	return opType, nil
}

func (s *Service) lookupLocations(ctx context.Context, sourceID, destinationID int64) error {
	if _, err := s.locations.Get(ctx, sourceID); err != nil {
		return locationFieldError("source_location_id", err)
	}
	if _, err := s.locations.Get(ctx, destinationID); err != nil {
		return locationFieldError("destination_location_id", err)
	}
	return nil
}

func (s *Service) lookupLineProducts(ctx context.Context, lines []LineReq) error {
	for i, line := range lines {
		if _, err := s.products.Get(ctx, line.ProductID); err != nil {
			if errors.Is(err, httpx.ErrNotFound) {
				return shared.FieldErrors{
					"lines[" + strconv.Itoa(i) + "].product_id": "product does not exist",
				}
			}
			return err
		}
	}
	return nil
}

func locationFieldError(field string, err error) error {
	if errors.Is(err, httpx.ErrNotFound) {
		return shared.FieldErrors{field: "location does not exist"}
	}
	return err
}
