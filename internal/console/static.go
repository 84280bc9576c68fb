package console

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static/*
var embeddedStatic embed.FS

// RegisterStatic mounts the embedded dashboard. Paths that match no API
// route fall through to the static file server, so the dashboard owns "/".
func RegisterStatic(r *gin.Engine) {
	staticFS, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		panic("static assets missing: " + err.Error())
	}
	r.NoRoute(gin.WrapH(http.FileServer(http.FS(staticFS))))
}
