package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GeorgeJbara/prod-comp-assistant/internal/intake"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/judgment"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/logger"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/memory"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/metrics"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/policy"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/service"
	"github.com/GeorgeJbara/prod-comp-assistant/tests/helpers"
)

func TestExternalServerRoutes(t *testing.T) {
	store := helpers.NewTestSQLiteStore(t)
	router, err := policy.NewDefaultRouter(context.Background())
	require.NoError(t, err)
	m := metrics.New()
	engine := intake.New(intake.Deps{Judge: judgment.NewRuleJudge(), Store: store, Router: router, Metrics: m}, intake.Config{})
	svc := service.New(engine, store, memory.New(memory.DefaultLimit), logger.Nop())

	e := NewExternalServer(svc, nil, m, logger.Nop())

	tests := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodPost, "/v1/complaints", `{"message":"hi there"}`, http.StatusOK},
		{http.MethodGet, "/v1/tickets", "", http.StatusOK},
		{http.MethodGet, "/v1/tickets/TCK-none", "", http.StatusNotFound},
		{http.MethodGet, "/v1/workflow", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodGet, "/ws", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), "intake_messages_total")
}
