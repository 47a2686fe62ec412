package metrics_test

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/metrics"
)

func TestObserveInventoryOp_CuentaPorResultado(t *testing.T) {
	m := metrics.New()
	m.ObserveInventoryOp("upsert", nil)
	m.ObserveInventoryOp("upsert", nil)
	m.ObserveInventoryOp("list", errors.New("boom"))
	m.ObserveInventoryOp("remove", domain.ErrNoIdentity)

	n, err := testutil.GatherAndCount(m.Registry(), "inventory_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestMiddleware_YHandlerExponenMetricas(t *testing.T) {
	m := metrics.New()
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	app.Get("/metrics", m.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `inventory_http_requests_total{method="GET",route="/ping",status="200"} 1`)
}
