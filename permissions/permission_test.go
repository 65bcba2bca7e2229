package permissions_test

import (
	"hotel/permissions"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	assert.False(t, data.Skip)
	assert.NotEmpty(t, data.Endpoints)
}

func TestFindPermissions(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	tests := []struct {
		name     string
		path     string
		method   string
		skip     bool
		expected []string
	}{
		{name: "login is public", path: "/v1/auth/login", method: http.MethodPost, skip: true, expected: []string{}},
		{name: "audit logs admin only", path: "/v1/audit-logs", method: http.MethodGet, expected: []string{"admin"}},
		{name: "booking list front desk", path: "/v1/bookings/", method: http.MethodGet, expected: []string{"admin", "manager", "receptionist", "staff"}},
		{name: "unknown endpoint", path: "/v1/unknown", method: http.MethodGet},
		{name: "method mismatch", path: "/v1/audit-logs", method: http.MethodPost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			permission := data.FindPermissions(tt.path, tt.method)

			assert.Equal(t, tt.skip, permission.Skip)
			assert.Equal(t, tt.expected, permission.Permissions)
		})
	}
}
