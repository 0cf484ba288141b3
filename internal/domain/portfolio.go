package domain

import (
	"time"

	"github.com/google/uuid"
)

type PortfolioParams struct {
	ID          string
	Name        string
	Description string
	CreatedDate time.Time
	IsActive    bool
}

type Portfolio struct {
	id          string
	name        PortfolioName
	description PortfolioDescription
	createdDate time.Time
	isActive    bool
}

func NewPortfolio(p PortfolioParams) (*Portfolio, error) {
	name, err := NewPortfolioName(p.Name)
	if err != nil {
		return nil, err
	}
	description, err := NewPortfolioDescription(p.Description)
	if err != nil {
		return nil, err
	}

	id := p.ID
	if id == "" {
		id = uuid.New().String()
	}

	portfolio := &Portfolio{
		id:          id,
		name:        name,
		description: description,
		isActive:    p.IsActive,
	}
	if !p.CreatedDate.IsZero() {
		portfolio.createdDate = DateOf(p.CreatedDate)
	}
	return portfolio, nil
}

func (p *Portfolio) ID() string                        { return p.id }
func (p *Portfolio) Name() PortfolioName               { return p.name }
func (p *Portfolio) Description() PortfolioDescription { return p.description }
func (p *Portfolio) CreatedDate() time.Time            { return p.createdDate }
func (p *Portfolio) IsActive() bool                    { return p.isActive }

func (p *Portfolio) Equal(other *Portfolio) bool {
	return other != nil && p.id == other.id
}

// SetCreatedDate may be called once, and only when no date was given at construction.
func (p *Portfolio) SetCreatedDate(d time.Time) error {
	if !p.createdDate.IsZero() {
		return ErrCreatedDateAlreadySet
	}
	if d.IsZero() {
		return invalid("created date", "must not be zero")
	}
	p.createdDate = DateOf(d)
	return nil
}

func (p *Portfolio) Activate()   { p.isActive = true }
func (p *Portfolio) Deactivate() { p.isActive = false }

func (p *Portfolio) Rename(name string) error {
	v, err := NewPortfolioName(name)
	if err != nil {
		return err
	}
	p.name = v
	return nil
}

func (p *Portfolio) UpdateDescription(description string) error {
	v, err := NewPortfolioDescription(description)
	if err != nil {
		return err
	}
	p.description = v
	return nil
}
