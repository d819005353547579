package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/package-service/internal/catalog"
)

// Pinger checks a backing dependency.
type Pinger interface {
	Configured() bool
	Ping(ctx context.Context) error
}

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	catalog     catalog.Reader
	deps        map[string]Pinger
}

// NewHealthHandler returns a new handler instance. Dependencies that are not
// configured report "disabled" and do not affect readiness.
func NewHealthHandler(serviceName, version string, catalogReader catalog.Reader, deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, catalog: catalogReader, deps: deps}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness by checking dependencies.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	ready := true

	if _, err := h.catalog.Snapshot(ctx); err != nil {
		depStatus["catalog"] = err.Error()
		ready = false
	} else {
		depStatus["catalog"] = "ok"
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for name, dep := range h.deps {
		if dep == nil || !dep.Configured() {
			mu.Lock()
			depStatus[name] = "disabled"
			mu.Unlock()
			continue
		}
		name, dep := name, dep
		g.Go(func() error {
			err := dep.Ping(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				depStatus[name] = err.Error()
				return err
			}
			depStatus[name] = "ok"
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		ready = false
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": depStatus,
		},
	})
}
