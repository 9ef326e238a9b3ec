package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-wms-service/internal/auth"
	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "cli-secret")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"token", "--user-id", "u1", "--username", "ani", "--role", "admin"})
	require.NoError(t, root.Execute())

	claims, err := auth.NewTokenManager("cli-secret", 0).ParseToken(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
}

func TestTokenCommand_RequiresUserID(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"token"})
	assert.Error(t, root.Execute())
}

func TestRenderDrift(t *testing.T) {
	var buf bytes.Buffer
	renderDrift(&buf, nil)
	assert.Contains(t, buf.String(), "Ledger consistent")

	buf.Reset()
	renderDrift(&buf, []model.StockDrift{{ProductID: "p1", SKU: "SKU-1", Name: "Widget", Stock: 7, LedgerStock: 5}})
	assert.Contains(t, buf.String(), "SKU-1")
	assert.Contains(t, buf.String(), "Widget")
}

func TestListenAddr(t *testing.T) {
	assert.Equal(t, ":8080", listenAddr("8080"))
	assert.Equal(t, ":8080", listenAddr(":8080"))
	assert.Equal(t, "127.0.0.1:9000", listenAddr("127.0.0.1:9000"))
}
