package debug

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/typeioc/di"
	"github.com/kbukum/typeioc/errors"
	"github.com/kbukum/typeioc/validation"
	"github.com/kbukum/typeioc/version"
)

// Register mounts the inspection routes of c on r.
func Register(r gin.IRoutes, c *di.Container) {
	r.GET("/bindings", Bindings(c))
	r.GET("/bindings/:id", Binding(c))
	r.GET("/version", Version())
}

// Bindings returns a handler listing every binding of c.
func Bindings(c *di.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		infos := c.Registrations()
		RespondOKWithMeta(ctx, infos, &Meta{Total: len(infos)})
	}
}

// Binding returns a handler reporting the binding whose ID is the :id path
// parameter.
func Binding(c *di.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, err := validation.ParseUUID("id", ctx.Param("id"))
		if err != nil {
			RespondWithError(ctx, err)
			return
		}
		info, ok := c.Registration(id)
		if !ok {
			RespondWithError(ctx, errors.New(errors.ErrCodeNotRegistered, "no binding with id "+id.String()))
			return
		}
		RespondOK(ctx, info)
	}
}

// Version returns a handler reporting build version information.
func Version() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		RespondOK(ctx, version.Get())
	}
}
