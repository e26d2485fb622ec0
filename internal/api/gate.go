package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"authgate/internal/biz"

	"github.com/gorilla/mux"
)

// GateHandler 登录门禁接口处理器
type GateHandler struct {
	gateService GateService
	logger      *slog.Logger
}

// NewGateHandler 创建 GateHandler
func NewGateHandler(gateService GateService, logger *slog.Logger) *GateHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GateHandler{
		gateService: gateService,
		logger:      logger,
	}
}

// RegisterRoutes 注册路由到 mux.Router
func (h *GateHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/gate", h.state).Methods(http.MethodGet)
	r.HandleFunc("/gate/form", h.updateForm).Methods(http.MethodPut)
	r.HandleFunc("/gate/mode/{mode}", h.setMode).Methods(http.MethodPost)
	r.HandleFunc("/gate/submit", h.submit).Methods(http.MethodPost)
	r.HandleFunc("/gate/session", h.session).Methods(http.MethodGet)
}

// state 返回当前状态并取走通知
func (h *GateHandler) state(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.gateService.State(r.Context()))
}

// updateForm 更新表单
func (h *GateHandler) updateForm(w http.ResponseWriter, r *http.Request) {
	var req FormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: "invalid request body: " + err.Error()})
		return
	}
	if err := h.gateService.UpdateForm(r.Context(), &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// setMode 切换登录 / 注册
func (h *GateHandler) setMode(w http.ResponseWriter, r *http.Request) {
	if err := h.gateService.SetMode(r.Context(), mux.Vars(r)["mode"]); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_mode", Message: err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// submit 提交表单
func (h *GateHandler) submit(w http.ResponseWriter, r *http.Request) {
	resp, err := h.gateService.Submit(r.Context())
	if err != nil {
		writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// session 获取已提交的会话
func (h *GateHandler) session(w http.ResponseWriter, r *http.Request) {
	info, err := h.gateService.Session(r.Context())
	if errors.Is(err, biz.ErrSessionNotFound) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "no session"})
		return
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to read session", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal", Message: "failed to read session"})
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// writeAuthError maps an authentication failure to a status code.
func writeAuthError(w http.ResponseWriter, err error) {
	var ae *biz.AuthError
	if !errors.As(err, &ae) {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal", Message: err.Error()})
		return
	}

	status := http.StatusBadGateway
	switch {
	case ae.Kind.IsValidation():
		status = http.StatusUnprocessableEntity
	case ae.Kind == biz.KindSubmissionInFlight:
		status = http.StatusConflict
	case ae.Kind.IsRejected():
		status = http.StatusUnauthorized
	case ae.Kind == biz.KindSessionStoreFailed:
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, ErrorResponse{
		Error:   "auth_failed",
		Kind:    ae.Kind.String(),
		Message: biz.Message(ae.Kind, ae.Op),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
