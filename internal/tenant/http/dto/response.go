package dto

import (
	"time"

	tenantDomain "github.com/allisson/reportgate/internal/tenant/domain"
	tenantUseCase "github.com/allisson/reportgate/internal/tenant/usecase"
)

// TenantResponse represents a registered tenant.
type TenantResponse struct {
	Scope     string    `json:"scope"`
	CreatedAt time.Time `json:"created_at"`
}

// TenantListResponse wraps the tenant index.
type TenantListResponse struct {
	Tenants []string `json:"tenants"`
}

// ClientResponse represents a registered client.
type ClientResponse struct {
	Scope     string    `json:"scope"`
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ClientListResponse wraps a tenant's client list.
type ClientListResponse struct {
	Clients []ClientResponse `json:"clients"`
}

// DeletionReportResponse summarizes what a tenant deletion removed.
type DeletionReportResponse struct {
	Scope            string `json:"scope"`
	DeletionScope    string `json:"deletion_scope"`
	EntriesDeleted   int64  `json:"entries_deleted"`
	ArtifactsDeleted int64  `json:"artifacts_deleted"`
}

// MapTenantToResponse converts a domain tenant to a response DTO.
func MapTenantToResponse(tenant *tenantDomain.Tenant) TenantResponse {
	return TenantResponse{Scope: tenant.Scope, CreatedAt: tenant.CreatedAt}
}

// MapClientToResponse converts a domain client to a response DTO.
func MapClientToResponse(client tenantDomain.Client) ClientResponse {
	return ClientResponse{
		Scope:     client.Scope,
		ID:        client.ID,
		Name:      client.Name,
		CreatedAt: client.CreatedAt,
	}
}

// MapClientsToListResponse converts domain clients to a list response DTO.
func MapClientsToListResponse(clients []tenantDomain.Client) ClientListResponse {
	response := ClientListResponse{Clients: make([]ClientResponse, 0, len(clients))}
	for _, client := range clients {
		response.Clients = append(response.Clients, MapClientToResponse(client))
	}
	return response
}

// MapDeletionReportToResponse converts a deletion report to a response DTO.
func MapDeletionReportToResponse(report *tenantUseCase.DeletionReport) DeletionReportResponse {
	return DeletionReportResponse{
		Scope:            report.Scope,
		DeletionScope:    string(report.DeletionScope),
		EntriesDeleted:   report.EntriesDeleted,
		ArtifactsDeleted: report.ArtifactsDeleted,
	}
}
