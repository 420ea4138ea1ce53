package handler

import (
	"log/slog"
	"net/http"

	"orgvault/internal/domain/services"
	"orgvault/internal/httputil"
)

// DirectoryHandler handles organizational entity requests
type DirectoryHandler struct {
	directory services.DirectoryService
	logger    *slog.Logger
}

// NewDirectoryHandler creates a new directory handler
func NewDirectoryHandler(directory services.DirectoryService, logger *slog.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		directory: directory,
		logger:    logger,
	}
}

// --- holdings ---

// CreateHolding creates a holding
// POST /api/holdings
func (h *DirectoryHandler) CreateHolding(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req services.CreateHoldingRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	holding, err := h.directory.CreateHolding(r.Context(), &req, principal)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, holding)
}

// ListHoldings lists all holdings
// GET /api/holdings
func (h *DirectoryHandler) ListHoldings(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	holdings, err := h.directory.ListHoldings(r.Context(), principal)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, holdings)
}

// GetHolding retrieves a holding
// GET /api/holdings/{id}
func (h *DirectoryHandler) GetHolding(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	holding, err := h.directory.GetHolding(r.Context(), r.PathValue("id"), principal)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, holding)
}

// UpdateHolding renames a holding
// PATCH /api/holdings/{id}
func (h *DirectoryHandler) UpdateHolding(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req services.UpdateHoldingRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	holding, err := h.directory.UpdateHolding(r.Context(), r.PathValue("id"), &req, principal)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, holding)
}

// DeleteHolding deletes a holding and its subtree
// DELETE /api/holdings/{id}
func (h *DirectoryHandler) DeleteHolding(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	if err := h.directory.DeleteHolding(r.Context(), r.PathValue("id"), principal); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- companies ---

// CreateCompany creates a company under a holding
// POST /api/companies
func (h *DirectoryHandler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req services.CreateCompanyRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	company, err := h.directory.CreateCompany(r.Context(), &req, principal)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, company)
}

// ListCompanies lists the companies of a holding
// GET /api/holdings/{id}/companies
func (h *DirectoryHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	companies, err := h.directory.ListCompanies(r.Context(), r.PathValue("id"), principal)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, companies)
}

// GetCompany retrieves a company
// GET /api/companies/{id}
func (h *DirectoryHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	company, err := h.directory.GetCompany(r.Context(), r.PathValue("id"), principal)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, company)
}

// UpdateCompany renames a company
// PATCH /api/companies/{id}
func (h *DirectoryHandler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req services.UpdateCompanyRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	company, err := h.directory.UpdateCompany(r.Context(), r.PathValue("id"), &req, principal)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, company)
}

// DeleteCompany deletes a company and its departments
// DELETE /api/companies/{id}
func (h *DirectoryHandler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	if err := h.directory.DeleteCompany(r.Context(), r.PathValue("id"), principal); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- departments ---

// CreateDepartment creates a department under a company
// POST /api/departments
func (h *DirectoryHandler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req services.CreateDepartmentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dept, err := h.directory.CreateDepartment(r.Context(), &req, principal)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, dept)
}

// ListDepartments lists the departments of a company
// GET /api/companies/{id}/departments
func (h *DirectoryHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	depts, err := h.directory.ListDepartments(r.Context(), r.PathValue("id"), principal)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, depts)
}

// GetDepartment retrieves a department
// GET /api/departments/{id}
func (h *DirectoryHandler) GetDepartment(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	dept, err := h.directory.GetDepartment(r.Context(), r.PathValue("id"), principal)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, dept)
}

// UpdateDepartment renames a department or reassigns its manager
// PATCH /api/departments/{id}
func (h *DirectoryHandler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req services.UpdateDepartmentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dept, err := h.directory.UpdateDepartment(r.Context(), r.PathValue("id"), &req, principal)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, dept)
}

// DeleteDepartment deletes a department
// DELETE /api/departments/{id}
func (h *DirectoryHandler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	if err := h.directory.DeleteDepartment(r.Context(), r.PathValue("id"), principal); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
