package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocrud/autowire/di"
)

// Action 返回按请求解析 T 的处理函数。
// 每个请求都会从容器重新构造 T 及其依赖，解析失败时按 StatusOf 返回 JSON 错误。
//
//	r.POST("/invoices", web.Action(c, (*InvoiceController).Create))
func Action[T any](c *di.Container, handle func(T, *gin.Context)) gin.HandlerFunc {
	id := di.KeyOf[T]()
	return func(ctx *gin.Context) {
		target, err := di.ResolveAs[T](c, id)
		if err != nil {
			AbortWithError(ctx, err)
			return
		}
		handle(target, ctx)
	}
}

// StatusOf 把容器错误映射为 HTTP 状态码：
// KindNotFound -> 404，其余 -> 500
func StatusOf(err error) int {
	if di.IsNotFound(err) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// AbortWithError 以 {"error": "..."} 结束请求
func AbortWithError(ctx *gin.Context, err error) {
	ctx.AbortWithStatusJSON(StatusOf(err), gin.H{"error": err.Error()})
}
