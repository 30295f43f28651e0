package api

import (
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/insureadmin/admin-console/internal/api/handler"
	"github.com/insureadmin/admin-console/internal/api/middleware"
	"github.com/insureadmin/admin-console/internal/core/service"
)

// Deps are the services the BFF routes call into.
type Deps struct {
	Log          zerolog.Logger
	Auth         *service.AuthService
	Session      *service.SessionManager
	Agents       *service.AgentService
	Transactions *service.TransactionService
	HealthChecks map[string]handler.Check
	// Location renders timestamps in CSV exports and detail views.
	Location *time.Location
	// RequiredRoles, when set, restricts resource routes to users holding
	// one of them.
	RequiredRoles []string
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(middleware.Metrics())

	// --- Session routes ---
	sessionHandler := handler.NewSessionHandler(d.Auth, d.Session)
	e.POST("/session/login", sessionHandler.Login)
	e.POST("/session/logout", sessionHandler.Logout)
	e.GET("/session", sessionHandler.Get)

	// --- Resource routes (auth gate) ---
	gate := []echo.MiddlewareFunc{middleware.RequireSession(d.Session)}
	if len(d.RequiredRoles) > 0 {
		gate = append(gate, middleware.RequireRole(d.Session, d.RequiredRoles...))
	}

	agentHandler := handler.NewAgentHandler(d.Agents, d.Location)
	agents := e.Group("/agents", gate...)
	agents.GET("", agentHandler.List)
	agents.GET("/search", agentHandler.Search)
	agents.DELETE("/search", agentHandler.ClearSearch)
	agents.GET("/export.csv", agentHandler.Export)
	agents.DELETE("/:id", agentHandler.Delete)
	agents.POST("/:id/activate", agentHandler.Activate)
	agents.PUT("/:id", agentHandler.Update)

	txHandler := handler.NewTransactionHandler(d.Transactions, d.Location)
	txs := e.Group("/transactions", gate...)
	txs.GET("", txHandler.List)
	txs.POST("/search", txHandler.Search)
	txs.DELETE("/search", txHandler.ClearSearch)
	txs.GET("/export.csv", txHandler.Export)
	txs.GET("/:id", txHandler.Detail)

	paginationHandler := handler.NewPaginationHandler(d.Agents.View(), d.Transactions.View())
	e.GET("/pagination/:resource", paginationHandler.Get, gate...)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler(d.HealthChecks)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
