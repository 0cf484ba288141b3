package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmanzanog/stockbook/internal/domain"
)

type JournalService struct {
	newUnitOfWork domain.UnitOfWorkFactory
}

func NewJournalService(newUnitOfWork domain.UnitOfWorkFactory) *JournalService {
	return &JournalService{newUnitOfWork: newUnitOfWork}
}

// Create stores a journal entry. Any link that is set must point at an existing row.
func (s *JournalService) Create(ctx context.Context, params domain.JournalEntryParams) (*domain.JournalEntry, error) {
	entry, err := domain.NewJournalEntry(params)
	if err != nil {
		return nil, err
	}

	err = runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		if err := checkLinks(ctx, uow, entry); err != nil {
			return err
		}
		repo, err := uow.Journal()
		if err != nil {
			return err
		}
		_, err = repo.Create(ctx, entry)
		return err
	})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to create journal entry", "error", err)
		return nil, err
	}
	slog.InfoContext(ctx, "Journal entry created", "entry_id", entry.ID(), "date", entry.Date().Format(time.DateOnly))
	return entry, nil
}

func (s *JournalService) Get(ctx context.Context, id string) (*domain.JournalEntry, error) {
	var entry *domain.JournalEntry
	err := runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		var err error
		entry, err = requireEntry(ctx, uow, id)
		return err
	})
	return entry, err
}

// List returns every entry, newest first.
func (s *JournalService) List(ctx context.Context) ([]*domain.JournalEntry, error) {
	var entries []*domain.JournalEntry
	err := runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		repo, err := uow.Journal()
		if err != nil {
			return err
		}
		entries, err = repo.GetAll(ctx)
		return err
	})
	return entries, err
}

func (s *JournalService) ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.JournalEntry, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	var entries []*domain.JournalEntry
	err := runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		repo, err := uow.Journal()
		if err != nil {
			return err
		}
		entries, err = repo.GetByDateRange(ctx, domain.DateOf(from), domain.DateOf(to))
		return err
	})
	return entries, err
}

func (s *JournalService) ListByPortfolio(ctx context.Context, portfolioID string) ([]*domain.JournalEntry, error) {
	var entries []*domain.JournalEntry
	err := runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		repo, err := uow.Journal()
		if err != nil {
			return err
		}
		entries, err = repo.GetByPortfolio(ctx, portfolioID)
		return err
	})
	return entries, err
}

func (s *JournalService) UpdateContent(ctx context.Context, id, content string) (*domain.JournalEntry, error) {
	var entry *domain.JournalEntry
	err := runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		var err error
		entry, err = requireEntry(ctx, uow, id)
		if err != nil {
			return err
		}
		if err := entry.UpdateContent(content); err != nil {
			return err
		}
		repo, err := uow.Journal()
		if err != nil {
			return err
		}
		ok, err := repo.Update(ctx, id, entry)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NotFoundError("journal entry", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *JournalService) Delete(ctx context.Context, id string) error {
	return runInUnitOfWork(ctx, s.newUnitOfWork, func(uow domain.UnitOfWork) error {
		repo, err := uow.Journal()
		if err != nil {
			return err
		}
		ok, err := repo.Delete(ctx, id)
		return deleted(ok, err, "journal entry", id)
	})
}

func requireEntry(ctx context.Context, uow domain.UnitOfWork, id string) (*domain.JournalEntry, error) {
	repo, err := uow.Journal()
	if err != nil {
		return nil, err
	}
	e, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.NotFoundError("journal entry", id)
	}
	return e, nil
}

func checkLinks(ctx context.Context, uow domain.UnitOfWork, entry *domain.JournalEntry) error {
	if id := entry.PortfolioID(); id != "" {
		if _, err := requirePortfolio(ctx, uow, id); err != nil {
			return err
		}
	}
	if id := entry.StockID(); id != "" {
		if _, err := requireStock(ctx, uow, id); err != nil {
			return err
		}
	}
	if id := entry.TransactionID(); id != "" {
		repo, err := uow.Transactions()
		if err != nil {
			return err
		}
		tx, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if tx == nil {
			return domain.NotFoundError("transaction", id)
		}
	}
	return nil
}
