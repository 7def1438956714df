package testutil

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/articles/component"
)

func TestComponent_Lifecycle(t *testing.T) {
	comp := NewComponent()
	ctx := context.Background()

	if comp.BaseURL() != "" {
		t.Error("BaseURL() should be empty before Install")
	}
	if comp.Health(ctx).Status != component.StatusUnhealthy {
		t.Error("expected unhealthy before Install")
	}

	if err := comp.Install(ctx); err != nil {
		t.Fatalf("Install() failed: %v", err)
	}
	if err := comp.Install(ctx); err == nil {
		t.Error("expected second Install to fail")
	}
	if comp.BaseURL() == "" {
		t.Error("BaseURL() should not be empty after Install")
	}
	if comp.Health(ctx).Status != component.StatusHealthy {
		t.Error("expected healthy after Install")
	}

	if err := comp.Stop(ctx); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if comp.BaseURL() != "" {
		t.Error("BaseURL() should be empty after Stop")
	}
}

func TestComponent_ServesErrorEnvelope(t *testing.T) {
	comp := NewComponent()
	ctx := context.Background()

	g := comp.Server().Group("/hello")
	g.GET("", func(c *gin.Context) { c.String(http.StatusOK, "world") })
	g.POST("", func(c *gin.Context) { _ = c.Error(io.ErrUnexpectedEOF) })

	if err := comp.Install(ctx); err != nil {
		t.Fatalf("Install() failed: %v", err)
	}
	defer comp.Stop(ctx)

	resp, err := http.Get(comp.BaseURL() + "/hello")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "world" {
		t.Errorf("expected 'world', got %q", body)
	}

	resp, err = http.Post(comp.BaseURL()+"/hello", "text/plain", http.NoBody)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError || string(body) != `{"success":false,"err":"unexpected EOF"}` {
		t.Errorf("unexpected error response: %d %s", resp.StatusCode, body)
	}
}
