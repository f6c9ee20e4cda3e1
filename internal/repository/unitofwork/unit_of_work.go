package unitofwork

import (
	"context"

	"docdecode-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	HistoryRepository() contract.HistoryRepository
}
