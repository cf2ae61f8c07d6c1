package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/rl1809/stock-service/internal/core/domain"
	"github.com/rl1809/stock-service/internal/core/service"
)

const idempotencyHeader = "Idempotency-Key"

type HTTPHandler struct {
	inventory *service.InventoryService
	log       logrus.FieldLogger
}

type ItemHTTPRequest struct {
	Nome       *string `json:"nome"`
	Quantidade *int    `json:"quantidade"`
}

type ItemHTTPResponse struct {
	ID         int64  `json:"id"`
	Nome       string `json:"nome"`
	Quantidade int    `json:"quantidade"`
}

type MessageHTTPResponse struct {
	Mensagem string `json:"mensagem"`
	ID       int64  `json:"id,omitempty"`
}

type ErrorHTTPResponse struct {
	Message string `json:"message"`
}

type PriceHTTPResponse struct {
	Nome           string  `json:"nome"`
	PrecoOtimizado float64 `json:"preco_otimizado"`
}

func NewHTTPHandler(inventory *service.InventoryService, log logrus.FieldLogger) *HTTPHandler {
	return &HTTPHandler{inventory: inventory, log: log}
}

// NewRouter maps the item routes. Non-numeric ids fall through to 404.
func NewRouter(h *HTTPHandler) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(h.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(h.MethodNotAllowed)

	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	r.HandleFunc("/item", h.CreateItem).Methods(http.MethodPost)
	r.HandleFunc("/item", h.ListItems).Methods(http.MethodGet)
	r.HandleFunc("/item/{id:[0-9]+}", h.GetItem).Methods(http.MethodGet)
	r.HandleFunc("/item/{id:[0-9]+}", h.UpdateItem).Methods(http.MethodPut)
	r.HandleFunc("/item/{id:[0-9]+}", h.DeleteItem).Methods(http.MethodDelete)
	r.HandleFunc("/item/comprar/{id:[0-9]+}", h.Purchase).Methods(http.MethodPost)
	r.HandleFunc("/item/preco/{id:[0-9]+}", h.Price).Methods(http.MethodGet)

	return WithRequestID(WithLogging(h.log, r))
}

func (h *HTTPHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeItem(w, r)
	if !ok {
		return
	}

	item, err := h.inventory.CreateItem(r.Context(), *req.Nome, *req.Quantidade)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, MessageHTTPResponse{
		Mensagem: "Item adicionado ao estoque",
		ID:       item.ID,
	})
}

func (h *HTTPHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventory.ListItems(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := make([]ItemHTTPResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toItemResponse(item))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	item, err := h.inventory.GetItem(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (h *HTTPHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}
	req, ok := h.decodeItem(w, r)
	if !ok {
		return
	}

	if _, err := h.inventory.UpdateItem(r.Context(), id, *req.Nome, *req.Quantidade); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageHTTPResponse{Mensagem: "Item atualizado"})
}

func (h *HTTPHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	if err := h.inventory.DeleteItem(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageHTTPResponse{Mensagem: "Item removido do estoque"})
}

func (h *HTTPHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	requestID := strings.TrimSpace(r.Header.Get(idempotencyHeader))
	if _, err := h.inventory.Purchase(r.Context(), id, requestID); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageHTTPResponse{Mensagem: "Item comprado com sucesso"})
}

func (h *HTTPHandler) Price(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	quote, err := h.inventory.Quote(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PriceHTTPResponse{
		Nome:           quote.Item.Name,
		PrecoOtimizado: quote.Price.InexactFloat64(),
	})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.inventory.Ping(r.Context()); err != nil {
		h.log.WithError(err).Error("health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, ErrorHTTPResponse{Message: "not found"})
}

func (h *HTTPHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, ErrorHTTPResponse{Message: "method not allowed"})
}

func (h *HTTPHandler) itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.NotFound(w, r)
		return 0, false
	}
	return id, true
}

func (h *HTTPHandler) decodeItem(w http.ResponseWriter, r *http.Request) (ItemHTTPRequest, bool) {
	var req ItemHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Message: "invalid request body"})
		return req, false
	}

	if req.Nome == nil || req.Quantidade == nil {
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Message: "missing required fields"})
		return req, false
	}
	return req, true
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	var validation *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		status = http.StatusNotFound
		message = "not found"
	case errors.Is(err, domain.ErrInsufficientStock):
		status = http.StatusBadRequest
		message = "Não foi possivel comprar o item"
	case errors.Is(err, domain.ErrDuplicateRequest):
		status = http.StatusConflict
		message = "duplicate request"
	case errors.As(err, &validation):
		status = http.StatusBadRequest
		message = validation.Error()
	default:
		h.log.WithError(err).WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"request_id": RequestIDFromContext(r.Context()),
		}).Error("request failed")
	}

	writeJSON(w, status, ErrorHTTPResponse{Message: message})
}

func toItemResponse(item domain.Item) ItemHTTPResponse {
	return ItemHTTPResponse{
		ID:         item.ID,
		Nome:       item.Name,
		Quantidade: item.Quantity,
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
