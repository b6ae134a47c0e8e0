// Package usecase implements the business logic for symbol-related operations.
package usecase

import (
	"context"
	"errors"
	"strings"

	"finfetcher/internal/feature/symbollist/domain/entity"
)

// ErrSymbolNotFound is returned when a code is not registered.
var ErrSymbolNotFound = errors.New("symbol not registered")

// SymbolRepository abstracts the persistence layer for registered symbols.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SymbolRepository interface {
	ListActive(ctx context.Context) ([]entity.Symbol, error)
	ListActiveCodes(ctx context.Context) ([]string, error)
	FindByCode(ctx context.Context, code string) (entity.Symbol, error)
	Upsert(ctx context.Context, s entity.Symbol) error
}

// SymbolUsecase provides business logic for symbol operations.
type SymbolUsecase struct {
	repo SymbolRepository
}

// NewSymbolUsecase creates a new SymbolUsecase with the given repository.
func NewSymbolUsecase(r SymbolRepository) *SymbolUsecase {
	return &SymbolUsecase{repo: r}
}

// ListActiveSymbols returns all active symbols from the repository.
func (u *SymbolUsecase) ListActiveSymbols(ctx context.Context) ([]entity.Symbol, error) {
	return u.repo.ListActive(ctx)
}

// ListActiveCodes returns the codes the ingest job should fetch.
func (u *SymbolUsecase) ListActiveCodes(ctx context.Context) ([]string, error) {
	return u.repo.ListActiveCodes(ctx)
}

// Lookup returns the registered symbol for code. Symbols without an asset
// type carry no usable metadata and are reported as not found.
func (u *SymbolUsecase) Lookup(ctx context.Context, code string) (entity.Symbol, error) {
	s, err := u.repo.FindByCode(ctx, code)
	if err != nil {
		return entity.Symbol{}, err
	}
	if s.AssetType == "" {
		return entity.Symbol{}, ErrSymbolNotFound
	}
	return s, nil
}

// Register adds or updates a symbol. The code and asset type are upper-cased.
func (u *SymbolUsecase) Register(ctx context.Context, s entity.Symbol) error {
	s.Code = strings.ToUpper(strings.TrimSpace(s.Code))
	s.AssetType = strings.ToUpper(strings.TrimSpace(s.AssetType))
	if s.Code == "" {
		return errors.New("symbol code must not be empty")
	}
	return u.repo.Upsert(ctx, s)
}
