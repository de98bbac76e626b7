package httpapi

import (
	"net/http"
	"strings"

	"bakesight-dashboard/internal/central"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// APIPrefix dashboard API 路由前缀
const APIPrefix = "/dashboard/api/v1"

// HeaderRequestID 请求 ID（透传到 central API）
const HeaderRequestID = central.HeaderRequestID

// Router 使用标准库 http.ServeMux（避免引入第三方路由依赖）
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

// HandleHandler 支持 http.Handler 接口（用于 promhttp 等）
func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

// ServeHTTP 为每个请求分配 request id 后分发
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	id := strings.TrimSpace(req.Header.Get(HeaderRequestID))
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(HeaderRequestID, id)
	r.mux.ServeHTTP(w, req.WithContext(central.WithRequestID(req.Context(), id)))
}

// RegisterAlertRoutes 报警 + review 确认
func (r *Router) RegisterAlertRoutes(h *AlertHandler) {
	r.Handle(APIPrefix+"/alerts", h.ServeHTTP)
	r.Handle(APIPrefix+"/alerts/", h.ServeHTTP)
	r.Handle(APIPrefix+"/reviews/", h.ServeHTTP)
}

// RegisterPaymentRoutes 交易列表
func (r *Router) RegisterPaymentRoutes(h *PaymentHandler) {
	r.Handle(APIPrefix+"/transactions", h.ServeHTTP)
	r.Handle(APIPrefix+"/transactions/", h.ServeHTTP)
}

// RegisterStoreRoutes 门店 / 设备 / 销量排行
func (r *Router) RegisterStoreRoutes(h *StoreHandler) {
	r.Handle(APIPrefix+"/stores", h.ServeHTTP)
	r.Handle(APIPrefix+"/stores/", h.ServeHTTP)
}

// RegisterOpsRoutes 健康检查与指标；metrics 为 nil 时不注册 /metrics
func (r *Router) RegisterOpsRoutes(metrics http.Handler) {
	r.Handle("/health", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]string{"status": "ok"}))
	})
	if metrics != nil {
		r.HandleHandler("/metrics", metrics)
	}
}
