package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tokenDomain "github.com/allisson/reportgate/internal/token/domain"
)

func TestIssueSignedURLRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     IssueSignedURLRequest
		wantErr bool
	}{
		{
			name: "valid",
			req:  IssueSignedURLRequest{ClientID: "client_42", Filename: "report.pdf"},
		},
		{
			name:    "missing client id",
			req:     IssueSignedURLRequest{Filename: "report.pdf"},
			wantErr: true,
		},
		{
			name:    "blank client id",
			req:     IssueSignedURLRequest{ClientID: "   ", Filename: "report.pdf"},
			wantErr: true,
		},
		{
			name:    "missing filename",
			req:     IssueSignedURLRequest{ClientID: "client_42"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIssueSignedURLRequest_TTL(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    time.Duration
		wantErr bool
	}{
		{name: "absent selects default", body: `{}`, want: 0},
		{name: "numeric", body: `{"ttl_seconds": 600}`, want: 600 * time.Second},
		{name: "numeric string", body: `{"ttl_seconds": "600"}`, want: 600 * time.Second},
		{name: "fractional rejected", body: `{"ttl_seconds": 1.5}`, wantErr: true},
		{name: "explicit zero rejected", body: `{"ttl_seconds": 0}`, wantErr: true},
		{name: "negative rejected", body: `{"ttl_seconds": -60}`, wantErr: true},
		{name: "zero string rejected", body: `{"ttl_seconds": "0"}`, wantErr: true},
		{name: "non-numeric rejected", body: `{"ttl_seconds": "soon"}`, wantErr: true},
		{name: "object rejected", body: `{"ttl_seconds": {}}`, wantErr: true},
		{name: "null selects default", body: `{"ttl_seconds": null}`, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req IssueSignedURLRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))

			ttl, err := req.TTL()
			if tt.wantErr {
				assert.ErrorIs(t, err, tokenDomain.ErrInvalidTTL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ttl)
		})
	}
}
