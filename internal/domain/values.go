package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxSymbolLength        = 10
	maxCompanyNameLength   = 200
	maxSectorLength        = 100
	maxNotesLength         = 1000
	maxPortfolioNameLength = 100
	maxDescriptionLength   = 500
	maxJournalLength       = 10000
)

var symbolPattern = regexp.MustCompile(`^[A-Z][A-Z0-9.\-]*$`)

// Quantity is a non-negative number of shares.
type Quantity struct {
	value Decimal
}

func NewQuantity(v Decimal) (Quantity, error) {
	if v.IsNegative() {
		return Quantity{}, invalid("quantity", "must not be negative, got %s", v)
	}
	return Quantity{value: v}, nil
}

func QuantityFromString(s string) (Quantity, error) {
	d, err := NewDecimalFromString(s)
	if err != nil {
		return Quantity{}, invalid("quantity", "%v", err)
	}
	return NewQuantity(d)
}

func (q Quantity) Decimal() Decimal         { return q.value }
func (q Quantity) IsZero() bool             { return q.value.IsZero() }
func (q Quantity) Equal(other Quantity) bool { return q.value.Equal(other.value) }
func (q Quantity) String() string           { return q.value.String() }

// StockSymbol is a ticker, normalised to upper case.
type StockSymbol string

func NewStockSymbol(s string) (StockSymbol, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if v == "" {
		return "", invalid("symbol", "must not be empty")
	}
	if len(v) > maxSymbolLength {
		return "", invalid("symbol", "must be at most %d characters", maxSymbolLength)
	}
	if !symbolPattern.MatchString(v) {
		return "", invalid("symbol", "%q contains invalid characters", s)
	}
	return StockSymbol(v), nil
}

func (s StockSymbol) String() string { return string(s) }

type CompanyName string

func NewCompanyName(s string) (CompanyName, error) {
	v := strings.TrimSpace(s)
	if utf8.RuneCountInString(v) > maxCompanyNameLength {
		return "", invalid("company name", "must be at most %d characters", maxCompanyNameLength)
	}
	return CompanyName(v), nil
}

type Sector string

func NewSector(s string) (Sector, error) {
	v := strings.TrimSpace(s)
	if utf8.RuneCountInString(v) > maxSectorLength {
		return "", invalid("sector", "must be at most %d characters", maxSectorLength)
	}
	return Sector(v), nil
}

type IndustryGroup string

func NewIndustryGroup(s string) (IndustryGroup, error) {
	v := strings.TrimSpace(s)
	if utf8.RuneCountInString(v) > maxSectorLength {
		return "", invalid("industry group", "must be at most %d characters", maxSectorLength)
	}
	return IndustryGroup(v), nil
}

// Grade is A-F; the empty Grade means the stock has not been graded.
type Grade string

const NoGrade Grade = ""

func NewGrade(s string) (Grade, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	switch v {
	case "":
		return NoGrade, nil
	case "A", "B", "C", "D", "E", "F":
		return Grade(v), nil
	}
	return "", invalid("grade", "must be one of A-F, got %q", s)
}

func (g Grade) IsSet() bool { return g != NoGrade }

type Notes string

func NewNotes(s string) (Notes, error) {
	if utf8.RuneCountInString(s) > maxNotesLength {
		return "", invalid("notes", "must be at most %d characters", maxNotesLength)
	}
	return Notes(s), nil
}

type PortfolioName string

func NewPortfolioName(s string) (PortfolioName, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return "", invalid("portfolio name", "must not be empty")
	}
	if utf8.RuneCountInString(v) > maxPortfolioNameLength {
		return "", invalid("portfolio name", "must be at most %d characters", maxPortfolioNameLength)
	}
	return PortfolioName(v), nil
}

type PortfolioDescription string

func NewPortfolioDescription(s string) (PortfolioDescription, error) {
	if utf8.RuneCountInString(s) > maxDescriptionLength {
		return "", invalid("portfolio description", "must be at most %d characters", maxDescriptionLength)
	}
	return PortfolioDescription(s), nil
}

type TransactionType string

const (
	TransactionTypeBuy  TransactionType = "buy"
	TransactionTypeSell TransactionType = "sell"
)

func NewTransactionType(s string) (TransactionType, error) {
	switch v := TransactionType(strings.ToLower(strings.TrimSpace(s))); v {
	case TransactionTypeBuy, TransactionTypeSell:
		return v, nil
	}
	return "", invalid("transaction type", "must be buy or sell, got %q", s)
}

type TargetStatus string

const (
	TargetStatusActive    TargetStatus = "active"
	TargetStatusHit       TargetStatus = "hit"
	TargetStatusFailed    TargetStatus = "failed"
	TargetStatusCancelled TargetStatus = "cancelled"
)

func NewTargetStatus(s string) (TargetStatus, error) {
	switch v := TargetStatus(strings.ToLower(strings.TrimSpace(s))); v {
	case TargetStatusActive, TargetStatusHit, TargetStatusFailed, TargetStatusCancelled:
		return v, nil
	}
	return "", invalid("target status", "must be active, hit, failed or cancelled, got %q", s)
}

// IndexChange is a percentage move of the reference index, kept to two decimals.
type IndexChange struct {
	value Decimal
}

var (
	indexChangeMax = NewDecimalFromInt(100)
	indexChangeMin = NewDecimalFromInt(-100)
)

func NewIndexChange(v Decimal) (IndexChange, error) {
	if v.Cmp(indexChangeMax) > 0 || v.Cmp(indexChangeMin) < 0 {
		return IndexChange{}, invalid("index change", "must be between -100 and 100, got %s", v)
	}
	rounded, err := v.Round(2)
	if err != nil {
		return IndexChange{}, invalid("index change", "%v", err)
	}
	return IndexChange{value: rounded}, nil
}

func (c IndexChange) Decimal() Decimal { return c.value }
func (c IndexChange) String() string   { return c.value.String() }

type JournalContent string

func NewJournalContent(s string) (JournalContent, error) {
	if strings.TrimSpace(s) == "" {
		return "", invalid("journal content", "must not be empty")
	}
	if utf8.RuneCountInString(s) > maxJournalLength {
		return "", invalid("journal content", "must be at most %d characters", maxJournalLength)
	}
	return JournalContent(s), nil
}

// DateOf truncates t to its calendar date at UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is the current calendar date.
func Today() time.Time {
	return DateOf(time.Now())
}
