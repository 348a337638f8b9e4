package handler

import (
	"bargainhub/backend/internal/bargain"
	"bargainhub/backend/internal/bargainhub"
	"bargainhub/backend/internal/catalog"
	"bargainhub/backend/internal/config"
	"bargainhub/backend/internal/storage"
)

// Handler holds the services the HTTP layer dispatches into.
type Handler struct {
	Hub     *bargainhub.Manager
	Bargain *bargain.Service
	Catalog *catalog.Service
	Storage storage.Storage
	Cfg     config.Config
}

func NewHandler(hub *bargainhub.Manager, b *bargain.Service, cat *catalog.Service, s storage.Storage, cfg config.Config) *Handler {
	return &Handler{Hub: hub, Bargain: b, Catalog: cat, Storage: s, Cfg: cfg}
}
