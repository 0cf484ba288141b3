package domain

import "github.com/google/uuid"

// StockParams carries the raw fields NewStock validates.
type StockParams struct {
	ID            string
	Symbol        string
	Name          string
	Sector        string
	IndustryGroup string
	Grade         string
	Notes         string
}

type Stock struct {
	id            string
	symbol        StockSymbol
	name          CompanyName
	sector        Sector
	industryGroup IndustryGroup
	grade         Grade
	notes         Notes
}

// NewStock validates p. A nil validator skips the sector/industry lookup, which is how
// repositories rehydrate rows that were validated when written.
func NewStock(p StockParams, validator SectorIndustryValidator) (*Stock, error) {
	symbol, err := NewStockSymbol(p.Symbol)
	if err != nil {
		return nil, err
	}
	name, err := NewCompanyName(p.Name)
	if err != nil {
		return nil, err
	}
	grade, err := NewGrade(p.Grade)
	if err != nil {
		return nil, err
	}
	notes, err := NewNotes(p.Notes)
	if err != nil {
		return nil, err
	}
	sector, industry, err := classify(p.Sector, p.IndustryGroup, validator)
	if err != nil {
		return nil, err
	}

	id := p.ID
	if id == "" {
		id = uuid.New().String()
	}

	return &Stock{
		id:            id,
		symbol:        symbol,
		name:          name,
		sector:        sector,
		industryGroup: industry,
		grade:         grade,
		notes:         notes,
	}, nil
}

func classify(rawSector, rawIndustry string, validator SectorIndustryValidator) (Sector, IndustryGroup, error) {
	sector, err := NewSector(rawSector)
	if err != nil {
		return "", "", err
	}
	industry, err := NewIndustryGroup(rawIndustry)
	if err != nil {
		return "", "", err
	}
	if industry != "" && sector == "" {
		return "", "", invalid("industry group", "requires a sector")
	}
	if validator == nil {
		return sector, industry, nil
	}
	if sector != "" && !validator.IsValidSector(string(sector)) {
		return "", "", invalid("sector", "unknown sector %q", sector)
	}
	if industry != "" && !validator.IsValidIndustryGroup(string(sector), string(industry)) {
		return "", "", invalid("industry group", "%q does not belong to sector %q", industry, sector)
	}
	return sector, industry, nil
}

func (s *Stock) ID() string                   { return s.id }
func (s *Stock) Symbol() StockSymbol          { return s.symbol }
func (s *Stock) Name() CompanyName            { return s.name }
func (s *Stock) Sector() Sector               { return s.sector }
func (s *Stock) IndustryGroup() IndustryGroup { return s.industryGroup }
func (s *Stock) Grade() Grade                 { return s.grade }
func (s *Stock) Notes() Notes                 { return s.notes }
func (s *Stock) HasGrade() bool               { return s.grade.IsSet() }

func (s *Stock) Equal(other *Stock) bool {
	return other != nil && s.id == other.id
}

// StockUpdate names the fields a caller may change; nil fields are left untouched.
type StockUpdate struct {
	Name          *string
	Sector        *string
	IndustryGroup *string
	Grade         *string
	Notes         *string
}

func (u StockUpdate) IsEmpty() bool {
	return u.Name == nil && u.Sector == nil && u.IndustryGroup == nil && u.Grade == nil && u.Notes == nil
}

// Apply validates every supplied field before changing any of them.
func (s *Stock) Apply(u StockUpdate, validator SectorIndustryValidator) error {
	name := s.name
	if u.Name != nil {
		v, err := NewCompanyName(*u.Name)
		if err != nil {
			return err
		}
		name = v
	}
	grade := s.grade
	if u.Grade != nil {
		v, err := NewGrade(*u.Grade)
		if err != nil {
			return err
		}
		grade = v
	}
	notes := s.notes
	if u.Notes != nil {
		v, err := NewNotes(*u.Notes)
		if err != nil {
			return err
		}
		notes = v
	}

	rawSector, rawIndustry := string(s.sector), string(s.industryGroup)
	if u.Sector != nil {
		rawSector = *u.Sector
		// a new sector invalidates the old industry group unless one is supplied too
		if u.IndustryGroup == nil {
			rawIndustry = ""
		}
	}
	if u.IndustryGroup != nil {
		rawIndustry = *u.IndustryGroup
	}
	sector, industry, err := classify(rawSector, rawIndustry, validator)
	if err != nil {
		return err
	}

	s.name = name
	s.grade = grade
	s.notes = notes
	s.sector = sector
	s.industryGroup = industry
	return nil
}
