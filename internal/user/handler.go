package user

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/internal/envelope"
	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/pkg/database"
)

// Handler exposes HTTP endpoints for users.
type Handler struct {
	gw     *database.Gateway
	svc    *UserService
	logger *zap.SugaredLogger
}

func NewHandler(gw *database.Gateway, svc *UserService, logger *zap.SugaredLogger) *Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if svc == nil {
		svc = NewUserService(nil, logger)
	}
	return &Handler{gw: gw, svc: svc, logger: logger}
}

// List serves GET /users. Store failures answer 200 with an error envelope.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	conn, err := h.gw.Acquire(r.Context())
	if err != nil {
		h.logger.Warnw("acquire store connection", "err", err, "kind", database.KindOf(err))
		envelope.WriteJSON(w, http.StatusOK, envelope.Failure[entity.User](err.Error()))
		return
	}
	defer conn.Close()

	envelope.WriteJSON(w, http.StatusOK, h.svc.ListUsers(r.Context(), conn))
}
