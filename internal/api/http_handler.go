package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/weldworks/workshop-api/internal/domain"
	"github.com/weldworks/workshop-api/internal/repository"
)

// Handler exposes the plain create/list endpoints for workshop records.
type Handler struct {
	machines   repository.MachineRepository
	templates  repository.TemplateRepository
	entries    repository.EntryRepository
	operations repository.OperationsRepository
}

// NewHTTPHandler wires the CRUD endpoints.
func NewHTTPHandler(
	machines repository.MachineRepository,
	templates repository.TemplateRepository,
	entries repository.EntryRepository,
	operations repository.OperationsRepository,
) *Handler {
	return &Handler{
		machines:   machines,
		templates:  templates,
		entries:    entries,
		operations: operations,
	}
}

// Register mounts the CRUD routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /machines", h.createMachine)
	mux.HandleFunc("GET /machines", h.listMachines)
	mux.HandleFunc("POST /templates", h.createTemplate)
	mux.HandleFunc("GET /templates", h.listTemplates)
	mux.HandleFunc("GET /templates/{templateId}/entries", h.listEntries)
	mux.HandleFunc("POST /workorders", h.createWorkOrder)
	mux.HandleFunc("GET /workorders", h.listWorkOrders)
	mux.HandleFunc("POST /equipment", h.createEquipment)
	mux.HandleFunc("GET /equipment", h.listEquipment)
	mux.HandleFunc("POST /inspections", h.createInspection)
	mux.HandleFunc("GET /inspections", h.listInspections)
	mux.HandleFunc("POST /employees", h.createEmployee)
	mux.HandleFunc("GET /employees", h.listEmployees)
	mux.HandleFunc("POST /items", h.createItem)
	mux.HandleFunc("GET /items", h.listItems)
}

type createMachineRequest struct {
	Name     string         `json:"name"`
	Code     string         `json:"code"`
	Type     *string        `json:"type"`
	Metadata map[string]any `json:"metadata"`
}

func (h *Handler) createMachine(w http.ResponseWriter, r *http.Request) {
	var req createMachineRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" || req.Code == "" {
		http.Error(w, "name and code are required", http.StatusBadRequest)
		return
	}

	machine, err := h.machines.Create(r.Context(), domain.NewMachine(req.Name, req.Code, req.Type, req.Metadata))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, machine)
}

func (h *Handler) listMachines(w http.ResponseWriter, r *http.Request) {
	machines, err := h.machines.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, machines)
}

type createTemplateRequest struct {
	Name        string            `json:"name"`
	Description *string           `json:"description"`
	MachineID   uuid.UUID         `json:"machineId"`
	Mapping     map[string]string `json:"mapping"`
}

func (h *Handler) createTemplate(w http.ResponseWriter, r *http.Request) {
	var req createTemplateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" || req.MachineID == uuid.Nil || len(req.Mapping) == 0 {
		http.Error(w, "name, machineId and mapping are required", http.StatusBadRequest)
		return
	}

	// Every template belongs to exactly one existing machine.
	if _, err := h.machines.GetByID(r.Context(), req.MachineID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	template, err := h.templates.Create(r.Context(), domain.NewTemplate(req.Name, req.Description, req.MachineID, req.Mapping))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, template)
}

func (h *Handler) listTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templates.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	templateID, err := uuid.Parse(r.PathValue("templateId"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid template id: %v", err), http.StatusBadRequest)
		return
	}

	limit := queryIntDefault(r, "limit", 200)
	offset := queryIntDefault(r, "offset", 0)

	entries, err := h.entries.ListByTemplate(r.Context(), templateID, limit, offset)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) createWorkOrder(w http.ResponseWriter, r *http.Request) {
	var order domain.WorkOrder
	if !decodeBody(w, r, &order) {
		return
	}
	if order.OrderID == "" || order.Client == "" {
		http.Error(w, "orderId and client are required", http.StatusBadRequest)
		return
	}

	created, err := h.operations.CreateWorkOrder(r.Context(), order)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) listWorkOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.operations.ListWorkOrders(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) createEquipment(w http.ResponseWriter, r *http.Request) {
	var equipment domain.Equipment
	if !decodeBody(w, r, &equipment) {
		return
	}
	if equipment.EquipmentID == "" || equipment.Name == "" {
		http.Error(w, "equipmentId and name are required", http.StatusBadRequest)
		return
	}

	created, err := h.operations.CreateEquipment(r.Context(), equipment)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) listEquipment(w http.ResponseWriter, r *http.Request) {
	equipment, err := h.operations.ListEquipment(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, equipment)
}

func (h *Handler) createInspection(w http.ResponseWriter, r *http.Request) {
	var inspection domain.Inspection
	if !decodeBody(w, r, &inspection) {
		return
	}
	if inspection.InspectionID == "" || inspection.OrderID == "" {
		http.Error(w, "inspectionId and orderId are required", http.StatusBadRequest)
		return
	}

	created, err := h.operations.CreateInspection(r.Context(), inspection)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) listInspections(w http.ResponseWriter, r *http.Request) {
	inspections, err := h.operations.ListInspections(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, inspections)
}

func (h *Handler) createEmployee(w http.ResponseWriter, r *http.Request) {
	var employee domain.Employee
	if !decodeBody(w, r, &employee) {
		return
	}
	if employee.EmployeeID == "" || employee.Name == "" {
		http.Error(w, "employeeId and name are required", http.StatusBadRequest)
		return
	}

	created, err := h.operations.CreateEmployee(r.Context(), employee)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) listEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.operations.ListEmployees(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	var item domain.Item
	if !decodeBody(w, r, &item) {
		return
	}
	if item.ItemID == "" || item.ItemName == "" {
		http.Error(w, "itemId and itemName are required", http.StatusBadRequest)
		return
	}

	created, err := h.operations.CreateItem(r.Context(), item)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.operations.ListItems(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return false
	}
	return true
}

func queryIntDefault(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
