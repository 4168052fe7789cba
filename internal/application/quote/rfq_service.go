package quote

import (
	"context"
	"time"

	"github.com/beanport/backend/internal/domain/catalog"
	"github.com/beanport/backend/internal/domain/quote"
	"github.com/beanport/backend/internal/domain/shared"
	"github.com/beanport/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// intakeDedupTTL is how long an intake idempotency key stays reserved.
const intakeDedupTTL = 24 * time.Hour

// IdempotencyStore reserves intake keys so a resubmitted inquiry form does
// not create a second RFQ. Reserve returns false when the key is taken.
type IdempotencyStore interface {
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Notifier receives lifecycle events after a transition commits. Calls are
// fire-and-forget; the pipeline never waits on or fails with a notification.
type Notifier interface {
	RFQReceived(ctx context.Context, rfq quote.RFQ)
	RFQQuoted(ctx context.Context, rfq quote.RFQ)
	RFQClosed(ctx context.Context, rfq quote.RFQ)
}

// RFQService handles the quote intake pipeline
type RFQService struct {
	rfqRepo  quote.RFQRepository
	intake   IdempotencyStore
	notifier Notifier
	clock    shared.Clock
	idGen    shared.IDGenerator
}

// NewRFQService creates a new RFQService
func NewRFQService(rfqRepo quote.RFQRepository, intake IdempotencyStore, notifier Notifier, clock shared.Clock, idGen shared.IDGenerator) *RFQService {
	return &RFQService{
		rfqRepo:  rfqRepo,
		intake:   intake,
		notifier: notifier,
		clock:    clock,
		idGen:    idGen,
	}
}

// Submit takes an inbound inquiry into the pipeline. A supplied idempotency
// key is reserved first so network retries of the same submission collapse
// into one record.
func (s *RFQService) Submit(ctx context.Context, actor string, req SubmitRFQRequest) (*RFQResponse, error) {
	if req.IdempotencyKey != "" && s.intake != nil {
		reserved, err := s.intake.Reserve(ctx, req.IdempotencyKey, intakeDedupTTL)
		if err != nil {
			return nil, err
		}
		if !reserved {
			return nil, shared.NewDomainError("DUPLICATE_SUBMISSION", "This inquiry was already submitted")
		}
	}

	exists, err := s.rfqRepo.ExistsByNumber(ctx, req.Number)
	if err != nil {
		return nil, s.releaseOnError(ctx, req.IdempotencyKey, err)
	}
	if exists {
		return nil, s.releaseOnError(ctx, req.IdempotencyKey,
			shared.NewDomainError("ALREADY_EXISTS", "RFQ with this number already exists"))
	}

	priority := quote.PriorityMedium
	if req.Priority != "" {
		priority = quote.RFQPriority(req.Priority)
	}
	recurrence := quote.RecurrenceNone
	if req.Recurrence != "" {
		recurrence = quote.Recurrence(req.Recurrence)
	}

	stamp := shared.NewStamp(s.clock, actor)
	rfq, err := quote.NewRFQ(s.idGen, stamp, quote.RFQInput{
		Number:   req.Number,
		Priority: priority,
		Product: quote.ProductRequirement{
			CoffeeType:  catalog.CoffeeType(req.CoffeeType),
			Grade:       catalog.CoffeeGrade(req.Grade),
			Quantity:    req.Quantity,
			Unit:        valueobject.WeightUnit(req.Unit),
			TargetPrice: req.TargetPrice,
			Notes:       req.ProductNotes,
		},
		Delivery: quote.DeliveryRequirement{
			DestinationPort: req.DestinationPort,
			Country:         req.Country,
			Incoterm:        valueobject.Incoterm(req.Incoterm),
			RequiredBy:      req.RequiredBy,
		},
		Payment: quote.PaymentRequirement{
			Method:    req.PaymentMethod,
			TermsDays: req.PaymentTerms,
			BudgetMin: req.BudgetMin,
			BudgetMax: req.BudgetMax,
		},
		Company: quote.CompanySnapshot{
			CompanyID:    req.CompanyID,
			Name:         req.CompanyName,
			Country:      req.CompanyCountry,
			ContactName:  req.ContactName,
			ContactEmail: req.ContactEmail,
		},
		Recurrence: recurrence,
		ExpiresAt:  req.ExpiresAt,
	})
	if err != nil {
		return nil, s.releaseOnError(ctx, req.IdempotencyKey, err)
	}

	if err := s.rfqRepo.Save(ctx, &rfq); err != nil {
		return nil, s.releaseOnError(ctx, req.IdempotencyKey, err)
	}

	s.notify(ctx, func(nctx context.Context) { s.notifier.RFQReceived(nctx, rfq) })

	response := ToRFQResponse(rfq, s.clock.Now())
	return &response, nil
}

// GetByID retrieves an inquiry by ID
func (s *RFQService) GetByID(ctx context.Context, id uuid.UUID) (*RFQResponse, error) {
	rfq, err := s.rfqRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToRFQResponse(*rfq, s.clock.Now())
	return &response, nil
}

// List returns a page of inquiries matching the filter
func (s *RFQService) List(ctx context.Context, req RFQListFilter) (shared.Paginated[RFQResponse], error) {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	filter.Search = req.Search
	filter.OrderBy = req.OrderBy
	filter.OrderDir = req.OrderDir
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}
	if req.Priority != "" {
		filter.Filters["priority"] = req.Priority
	}
	if req.CoffeeType != "" {
		filter.Filters["coffee_type"] = req.CoffeeType
	}

	page, err := s.rfqRepo.Search(ctx, filter)
	if err != nil {
		return shared.Paginated[RFQResponse]{}, err
	}

	now := s.clock.Now()
	items := make([]RFQResponse, len(page.Items))
	for i, rfq := range page.Items {
		items[i] = ToRFQResponse(rfq, now)
	}

	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// UpdateStatus moves an inquiry to a new status. Entering QUOTED or a
// terminal state fans the event out to the notifier after the save commits.
func (s *RFQService) UpdateStatus(ctx context.Context, id uuid.UUID, actor string, req UpdateRFQStatusRequest) (*RFQResponse, error) {
	rfq, err := s.rfqRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	target := quote.RFQStatus(req.Status)
	updated, err := rfq.UpdateStatus(target, shared.NewStamp(s.clock, actor))
	if err != nil {
		return nil, err
	}

	if err := s.rfqRepo.SaveWithLock(ctx, &updated); err != nil {
		return nil, err
	}

	switch target {
	case quote.RFQStatusQuoted:
		s.notify(ctx, func(nctx context.Context) { s.notifier.RFQQuoted(nctx, updated) })
	case quote.RFQStatusAccepted, quote.RFQStatusRejected, quote.RFQStatusExpired:
		s.notify(ctx, func(nctx context.Context) { s.notifier.RFQClosed(nctx, updated) })
	}

	response := ToRFQResponse(updated, s.clock.Now())
	return &response, nil
}

// Assign hands an inquiry to a handler
func (s *RFQService) Assign(ctx context.Context, id uuid.UUID, actor string, req AssignRFQRequest) (*RFQResponse, error) {
	return s.mutate(ctx, id, actor, func(r quote.RFQ, stamp shared.Stamp) (quote.RFQ, error) {
		return r.AssignTo(req.AssignedTo, stamp)
	})
}

// SetEstimate pins an explicit desk estimate on an inquiry
func (s *RFQService) SetEstimate(ctx context.Context, id uuid.UUID, actor string, req SetEstimateRequest) (*RFQResponse, error) {
	return s.mutate(ctx, id, actor, func(r quote.RFQ, stamp shared.Stamp) (quote.RFQ, error) {
		return r.SetEstimatedValue(req.EstimatedValue, stamp)
	})
}

// AddCommunication logs a touchpoint on an inquiry
func (s *RFQService) AddCommunication(ctx context.Context, id uuid.UUID, actor string, req AddCommunicationRequest) (*RFQResponse, error) {
	return s.mutate(ctx, id, actor, func(r quote.RFQ, stamp shared.Stamp) (quote.RFQ, error) {
		return r.AddCommunication(quote.Communication{
			Channel: req.Channel,
			Summary: req.Summary,
			By:      actor,
		}, stamp)
	})
}

// SetFollowUp schedules or clears the follow-up reminder
func (s *RFQService) SetFollowUp(ctx context.Context, id uuid.UUID, actor string, req SetRFQFollowUpRequest) (*RFQResponse, error) {
	return s.mutate(ctx, id, actor, func(r quote.RFQ, stamp shared.Stamp) (quote.RFQ, error) {
		return r.SetFollowUpDate(req.FollowUpAt, stamp), nil
	})
}

// ExpireOverdue sweeps active inquiries whose deadline has passed and marks
// them expired. It returns how many inquiries were expired.
func (s *RFQService) ExpireOverdue(ctx context.Context, actor string) (int, error) {
	now := s.clock.Now()
	overdue, err := s.rfqRepo.FindExpiring(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, rfq := range overdue {
		if !rfq.IsActive() || !rfq.IsExpired(now) {
			continue
		}
		updated, err := rfq.Expire(shared.Stamp{At: now, By: actor})
		if err != nil {
			continue
		}
		if err := s.rfqRepo.SaveWithLock(ctx, &updated); err != nil {
			continue
		}
		s.notify(ctx, func(nctx context.Context) { s.notifier.RFQClosed(nctx, updated) })
		expired++
	}
	return expired, nil
}

// mutate loads an inquiry, applies a copy-on-write mutation, and saves the
// new value under the optimistic lock.
func (s *RFQService) mutate(ctx context.Context, id uuid.UUID, actor string, fn func(quote.RFQ, shared.Stamp) (quote.RFQ, error)) (*RFQResponse, error) {
	rfq, err := s.rfqRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := fn(*rfq, shared.NewStamp(s.clock, actor))
	if err != nil {
		return nil, err
	}

	if err := s.rfqRepo.SaveWithLock(ctx, &updated); err != nil {
		return nil, err
	}

	response := ToRFQResponse(updated, s.clock.Now())
	return &response, nil
}

// notify fans an event out without blocking the caller or inheriting its
// cancellation.
func (s *RFQService) notify(ctx context.Context, fn func(context.Context)) {
	if s.notifier == nil {
		return
	}
	go fn(context.WithoutCancel(ctx))
}

// releaseOnError frees the intake key after a failed submission so the buyer
// can retry, and passes the original error through.
func (s *RFQService) releaseOnError(ctx context.Context, key string, err error) error {
	if key != "" && s.intake != nil {
		_ = s.intake.Release(ctx, key)
	}
	return err
}
