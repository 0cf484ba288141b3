package domain

import (
	"time"

	"github.com/google/uuid"
)

type TargetParams struct {
	ID           string
	PortfolioID  string
	StockID      string
	PivotPrice   Money
	FailurePrice Money
	Status       string
	CreatedDate  time.Time
	Notes        string
}

// Target is a price plan for a stock: reaching the pivot is a hit, falling to the failure price a miss.
type Target struct {
	id           string
	portfolioID  string
	stockID      string
	pivotPrice   Money
	failurePrice Money
	status       TargetStatus
	createdDate  time.Time
	notes        Notes
}

// NewTarget defaults an empty status to active and an empty created date to today.
func NewTarget(p TargetParams) (*Target, error) {
	if p.PortfolioID == "" {
		return nil, invalid("portfolio id", "must not be empty")
	}
	if p.StockID == "" {
		return nil, invalid("stock id", "must not be empty")
	}
	if p.PivotPrice.IsNegative() || p.PivotPrice.IsZero() {
		return nil, invalid("pivot price", "must be positive, got %s", p.PivotPrice.Amount())
	}
	if p.FailurePrice.IsNegative() || p.FailurePrice.IsZero() {
		return nil, invalid("failure price", "must be positive, got %s", p.FailurePrice.Amount())
	}
	if p.PivotPrice.Currency() != p.FailurePrice.Currency() {
		return nil, invalid("failure price", "currency %s differs from pivot price currency %s",
			p.FailurePrice.Currency(), p.PivotPrice.Currency())
	}

	status := TargetStatusActive
	if p.Status != "" {
		s, err := NewTargetStatus(p.Status)
		if err != nil {
			return nil, err
		}
		status = s
	}
	notes, err := NewNotes(p.Notes)
	if err != nil {
		return nil, err
	}
	created := p.CreatedDate
	if created.IsZero() {
		created = Today()
	}

	id := p.ID
	if id == "" {
		id = uuid.New().String()
	}

	return &Target{
		id:           id,
		portfolioID:  p.PortfolioID,
		stockID:      p.StockID,
		pivotPrice:   p.PivotPrice,
		failurePrice: p.FailurePrice,
		status:       status,
		createdDate:  DateOf(created),
		notes:        notes,
	}, nil
}

func (t *Target) ID() string             { return t.id }
func (t *Target) PortfolioID() string    { return t.portfolioID }
func (t *Target) StockID() string        { return t.stockID }
func (t *Target) PivotPrice() Money      { return t.pivotPrice }
func (t *Target) FailurePrice() Money    { return t.failurePrice }
func (t *Target) Status() TargetStatus   { return t.status }
func (t *Target) CreatedDate() time.Time { return t.createdDate }
func (t *Target) Notes() Notes           { return t.notes }
func (t *Target) IsActive() bool         { return t.status == TargetStatusActive }

func (t *Target) Equal(other *Target) bool {
	return other != nil && t.id == other.id
}

// Status changes are unguarded: any status can move to any other.

func (t *Target) Activate()     { t.status = TargetStatusActive }
func (t *Target) MarkAsHit()    { t.status = TargetStatusHit }
func (t *Target) MarkAsFailed() { t.status = TargetStatusFailed }
func (t *Target) Cancel()       { t.status = TargetStatusCancelled }

// TransitionTo dispatches to the status method matching status.
func (t *Target) TransitionTo(status TargetStatus) error {
	switch status {
	case TargetStatusActive:
		t.Activate()
	case TargetStatusHit:
		t.MarkAsHit()
	case TargetStatusFailed:
		t.MarkAsFailed()
	case TargetStatusCancelled:
		t.Cancel()
	default:
		return invalid("target status", "unknown status %q", status)
	}
	return nil
}

// Evaluate reports the status price implies: hit at or above the pivot, failed at or
// below the failure price, otherwise the current status. It does not mutate t.
func (t *Target) Evaluate(price Money) (TargetStatus, error) {
	cmp, err := price.Cmp(t.pivotPrice)
	if err != nil {
		return t.status, err
	}
	if cmp >= 0 {
		return TargetStatusHit, nil
	}
	cmp, err = price.Cmp(t.failurePrice)
	if err != nil {
		return t.status, err
	}
	if cmp <= 0 {
		return TargetStatusFailed, nil
	}
	return t.status, nil
}

func (t *Target) UpdateNotes(notes string) error {
	v, err := NewNotes(notes)
	if err != nil {
		return err
	}
	t.notes = v
	return nil
}
