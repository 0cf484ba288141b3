package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmanzanog/stockbook/internal/domain"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// session is the connection and transaction shared by every repository of one UnitOfWork.
// A nil conn means the unit of work has been closed.
type session struct {
	dialect Dialect
	conn    *sql.Conn
	tx      *sql.Tx
}

// querier returns the open transaction, beginning a new one on the same connection
// after a commit or rollback.
func (s *session) querier(ctx context.Context) (querier, error) {
	if s.conn == nil {
		return nil, domain.ErrUnitOfWorkNotActive
	}
	if s.tx == nil {
		tx, err := s.conn.BeginTx(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("begin transaction: %w", err)
		}
		s.tx = tx
	}
	return s.tx, nil
}

// UnitOfWork is the database/sql implementation of domain.UnitOfWork.
type UnitOfWork struct {
	db      *DB
	session *session

	stocks       *stockRepository
	portfolios   *portfolioRepository
	transactions *transactionRepository
	targets      *targetRepository
	balances     *balanceRepository
	journal      *journalRepository
}

func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.session != nil {
		return domain.ErrUnitOfWorkActive
	}

	conn, err := u.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("begin transaction: %w", err)
	}

	u.session = &session{dialect: u.db.Dialect, conn: conn, tx: tx}
	return nil
}

func (u *UnitOfWork) Commit() error {
	if u.session == nil {
		return domain.ErrUnitOfWorkNotActive
	}
	tx := u.session.tx
	if tx == nil {
		return nil
	}
	u.session.tx = nil
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (u *UnitOfWork) Rollback() error {
	if u.session == nil {
		return domain.ErrUnitOfWorkNotActive
	}
	tx := u.session.tx
	if tx == nil {
		return nil
	}
	u.session.tx = nil
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}

// Close discards uncommitted work and releases the connection. The unit of work is
// inactive afterwards even when an error is returned.
func (u *UnitOfWork) Close() error {
	if u.session == nil {
		return nil
	}
	s := u.session
	u.session = nil
	u.stocks, u.portfolios, u.transactions = nil, nil, nil
	u.targets, u.balances, u.journal = nil, nil, nil

	var errs []error
	if s.tx != nil {
		if err := s.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			errs = append(errs, fmt.Errorf("rollback transaction: %w", err))
		}
		s.tx = nil
	}
	if err := s.conn.Close(); err != nil {
		errs = append(errs, fmt.Errorf("release connection: %w", err))
	}
	s.conn = nil
	return errors.Join(errs...)
}

func (u *UnitOfWork) Stocks() (domain.StockRepository, error) {
	if u.session == nil {
		return nil, domain.ErrUnitOfWorkNotActive
	}
	if u.stocks == nil {
		u.stocks = &stockRepository{s: u.session}
	}
	return u.stocks, nil
}

func (u *UnitOfWork) Portfolios() (domain.PortfolioRepository, error) {
	if u.session == nil {
		return nil, domain.ErrUnitOfWorkNotActive
	}
	if u.portfolios == nil {
		u.portfolios = &portfolioRepository{s: u.session}
	}
	return u.portfolios, nil
}

func (u *UnitOfWork) Transactions() (domain.TransactionRepository, error) {
	if u.session == nil {
		return nil, domain.ErrUnitOfWorkNotActive
	}
	if u.transactions == nil {
		u.transactions = &transactionRepository{s: u.session}
	}
	return u.transactions, nil
}

func (u *UnitOfWork) Targets() (domain.TargetRepository, error) {
	if u.session == nil {
		return nil, domain.ErrUnitOfWorkNotActive
	}
	if u.targets == nil {
		u.targets = &targetRepository{s: u.session}
	}
	return u.targets, nil
}

func (u *UnitOfWork) Balances() (domain.PortfolioBalanceRepository, error) {
	if u.session == nil {
		return nil, domain.ErrUnitOfWorkNotActive
	}
	if u.balances == nil {
		u.balances = &balanceRepository{s: u.session}
	}
	return u.balances, nil
}

func (u *UnitOfWork) Journal() (domain.JournalRepository, error) {
	if u.session == nil {
		return nil, domain.ErrUnitOfWorkNotActive
	}
	if u.journal == nil {
		u.journal = &journalRepository{s: u.session}
	}
	return u.journal, nil
}
