// Package handler serves the symbol registry over HTTP.
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"finfetcher/internal/feature/symbollist/domain/entity"
	"finfetcher/internal/feature/symbollist/transport/http/dto"
)

// SymbolUsecase is defined by the consumer (handler), not the provider (usecase).
type SymbolUsecase interface {
	ListActiveSymbols(ctx context.Context) ([]entity.Symbol, error)
}

// SymbolHandler serves registered symbols.
type SymbolHandler struct {
	uc SymbolUsecase
}

// NewSymbolHandler returns a SymbolHandler backed by uc.
func NewSymbolHandler(uc SymbolUsecase) *SymbolHandler {
	return &SymbolHandler{uc: uc}
}

// List returns the active symbols in display order.
//
//	GET /symbols
func (h *SymbolHandler) List(c *gin.Context) {
	symbols, err := h.uc.ListActiveSymbols(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]dto.SymbolItem, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, dto.SymbolItem{Code: s.Code, Name: s.Name, AssetType: s.AssetType})
	}
	c.JSON(http.StatusOK, out)
}
