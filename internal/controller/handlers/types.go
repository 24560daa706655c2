package handlers

import (
	"sync"

	"github.com/r-lysenko/excursion_bot/internal/config"
	"github.com/r-lysenko/excursion_bot/internal/controller/dialog"
	"github.com/r-lysenko/excursion_bot/internal/report"
	"github.com/r-lysenko/excursion_bot/internal/service"
	"go.uber.org/zap"
)

// pendingAction ожидаемый от админа ввод вне диалога бронирования
type pendingAction string

const (
	pendingNone        pendingAction = ""
	pendingBroadcast   pendingAction = "broadcast"
	pendingAdminAdd    pendingAction = "admin_add"
	pendingAdminRemove pendingAction = "admin_remove"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	cfg            *config.Config
	userService    *service.UserService
	bookingService *service.BookingService
	adminService   *service.AdminService
	flow           *dialog.Flow
	exporter       report.Exporter
	logger         *zap.Logger

	mu      sync.Mutex
	pending map[int64]pendingAction // telegram_id -> ожидаемый ввод
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	cfg *config.Config,
	userService *service.UserService,
	bookingService *service.BookingService,
	adminService *service.AdminService,
	flow *dialog.Flow,
	exporter report.Exporter,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		cfg:            cfg,
		userService:    userService,
		bookingService: bookingService,
		adminService:   adminService,
		flow:           flow,
		exporter:       exporter,
		logger:         logger,
		pending:        make(map[int64]pendingAction),
	}
}

func (h *Handlers) setPending(telegramID int64, action pendingAction) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if action == pendingNone {
		delete(h.pending, telegramID)
		return
	}
	h.pending[telegramID] = action
}

// takePending забирает ожидаемый ввод, одновременно сбрасывая его
func (h *Handlers) takePending(telegramID int64) pendingAction {
	h.mu.Lock()
	defer h.mu.Unlock()
	action, ok := h.pending[telegramID]
	if !ok {
		return pendingNone
	}
	delete(h.pending, telegramID)
	return action
}
