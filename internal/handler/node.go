package handler

import (
	"log/slog"
	"net/http"

	"orgvault/internal/domain/services"
	"orgvault/internal/httputil"
)

// NodeHandler handles navigation read requests
type NodeHandler struct {
	nodeService services.NodeService
	logger      *slog.Logger
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(nodeService services.NodeService, logger *slog.Logger) *NodeHandler {
	return &NodeHandler{
		nodeService: nodeService,
		logger:      logger,
	}
}

// HealthCheck reports service liveness
// GET /health
func (h *NodeHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListRoots returns the nodes the caller sees at the top of the tree.
// GET /api/nodes/roots
//
// This literal route must be registered before the {id} routes so the word
// "roots" is never misread as a node identifier.
func (h *NodeHandler) ListRoots(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	nodes, err := h.nodeService.ListRoots(r.Context(), principal)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, nodes)
}

// GetNode resolves a single node, virtual or real
// GET /api/nodes/{id}
func (h *NodeHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "node ID is required")
		return
	}

	node, err := h.nodeService.GetNode(r.Context(), id, principal)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, node)
}

// ListChildren lists the children of a node, virtual or real
// GET /api/nodes/{id}/children
func (h *NodeHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "node ID is required")
		return
	}

	nodes, err := h.nodeService.ListChildren(r.Context(), id, principal)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, nodes)
}

// GetPath returns the full breadcrumb for a node, root-most first
// GET /api/nodes/{id}/path
func (h *NodeHandler) GetPath(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "node ID is required")
		return
	}

	path, err := h.nodeService.GetPath(r.Context(), id, principal)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, path)
}
