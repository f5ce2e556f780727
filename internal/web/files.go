package web

import (
	"errors"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eliteclass/ediary/internal/storage"
)

// signedFile отдаёт файл закрытой корзины по подписанной ссылке.
func (h *handlers) signedFile(c *gin.Context) {
	bucket := c.Param("bucket")
	key := strings.TrimPrefix(c.Param("key"), "/")
	if err := h.Store.Verify(bucket, key, c.Query("expires"), c.Query("sig")); err != nil {
		c.String(http.StatusForbidden, "link expired or invalid")
		return
	}
	h.serveObject(c, bucket, key)
}

func (h *handlers) publicAvatar(c *gin.Context) {
	h.serveObject(c, storage.BucketAvatars, strings.TrimPrefix(c.Param("key"), "/"))
}

func (h *handlers) serveObject(c *gin.Context, bucket, key string) {
	f, err := h.Store.Open(bucket, key)
	switch {
	case errors.Is(err, os.ErrNotExist), errors.Is(err, storage.ErrBadKey):
		c.Status(http.StatusNotFound)
		return
	case err != nil:
		c.Status(http.StatusInternalServerError)
		return
	}
	defer func() { _ = f.Close() }()
	st, err := f.Stat()
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	http.ServeContent(c.Writer, c.Request, path.Base(key), st.ModTime(), f)
}
