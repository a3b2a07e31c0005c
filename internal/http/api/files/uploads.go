package files

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/lobby/internal/http/api"
)

// Blobs are content addressed, so a path never changes meaning.
const uploadCacheControl = "public, max-age=604800"

// Resolver maps a blob path to a file on disk.
type Resolver interface {
	Resolve(rel string) (string, error)
}

// ServeUploads serves stored blobs from GET /uploads/*path.
func ServeUploads(blobs Resolver) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		notFound := func() {
			ctx.AbortWithStatusJSON(http.StatusNotFound, api.ErrorResponse{Msg: "file not found"})
		}

		name, err := blobs.Resolve(ctx.Param("path"))
		if err != nil {
			notFound()
			return
		}

		file, err := os.Open(name)
		if err != nil {
			if !os.IsNotExist(err) {
				log.Error().Err(err).Str("path", name).Msg("[uploads] failed to open blob")
			}
			notFound()
			return
		}
		defer file.Close()

		info, err := file.Stat()
		if err != nil || !info.Mode().IsRegular() {
			notFound()
			return
		}

		base := filepath.Base(name)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		ctx.Header("ETag", `"`+stem+`"`)
		ctx.Header("Cache-Control", uploadCacheControl)
		http.ServeContent(ctx.Writer, ctx.Request, base, info.ModTime(), file)
	}
}
