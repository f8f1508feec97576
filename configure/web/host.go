package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gocrud/autowire/di"
	"github.com/gocrud/autowire/logging"
)

// Host Web 主机，实现 hosting.HostedService
type Host struct {
	port          int
	engine        *gin.Engine
	server        *http.Server
	logger        logging.Logger
	container     *di.Container
	controllerIDs []string
	mapOnce       sync.Once
	mapErr        error
	mu            sync.RWMutex
}

// Name 实现 hosting.Named
func (h *Host) Name() string {
	return "web"
}

// Address 获取监听地址，仅在 Start 后有效
func (h *Host) Address() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.server.Addr
}

// Handler 返回挂载了控制器路由的 http.Handler
func (h *Host) Handler() (http.Handler, error) {
	if err := h.mapControllers(); err != nil {
		return nil, err
	}
	return h.engine, nil
}

// Start 启动 Web 主机（阻塞），直到 Stop 被调用或发生错误
func (h *Host) Start(ctx context.Context) error {
	if err := h.mapControllers(); err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", h.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("web: failed to listen on %s: %w", addr, err)
	}

	h.mu.Lock()
	h.server.Addr = ln.Addr().String()
	h.mu.Unlock()

	h.logger.Info("Web host started", logging.Field{Key: "address", Value: ln.Addr().String()})

	if err := h.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		h.logger.Error("Web host error", logging.Field{Key: "error", Value: err.Error()})
		return err
	}
	return nil
}

// Stop 优雅关闭 Web 主机
func (h *Host) Stop(ctx context.Context) error {
	if err := h.server.Shutdown(ctx); err != nil {
		h.logger.Error("Failed to shutdown web host gracefully",
			logging.Field{Key: "error", Value: err.Error()})
		return err
	}

	h.logger.Info("Web host stopped")
	return nil
}

// mapControllers 从容器解析控制器并注册路由，只执行一次
func (h *Host) mapControllers() error {
	h.mapOnce.Do(func() {
		for _, id := range h.controllerIDs {
			instance, err := h.container.Resolve(id)
			if err != nil {
				h.mapErr = fmt.Errorf("web: failed to resolve controller: %w", err)
				return
			}

			ctrl, ok := instance.(Controller)
			if !ok {
				h.mapErr = fmt.Errorf("web: %s does not implement web.Controller", id)
				return
			}

			ctrl.MountRoutes(h.engine)
			h.logger.Debug("Mapped controller routes", logging.Field{Key: "controller", Value: id})
		}
	})
	return h.mapErr
}
