package router

import "github.com/gin-gonic/gin"

// Module describes a feature module that can register its routes on a RouterGroup
type Module interface {
	Register(rg *gin.RouterGroup)
}

// RootModule is implemented by modules that also own routes outside /api,
// such as the browser-facing OAuth redirects.
type RootModule interface {
	RegisterRoot(r gin.IRouter)
}
