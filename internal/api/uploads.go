package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"pipelinetracker/internal/blob"
)

// ServeUploadHandler returns a stored detail file. Backends that can sign
// URLs answer with a redirect; others are streamed through the server.
//
//	@Summary	Download an uploaded file
//	@Tags		uploads
//	@Produce	octet-stream
//	@Param		name	path	string	true	"stored file name"
//	@Success	200
//	@Success	307
//	@Failure	404	{object}	ErrorMessage
//	@Router		/uploads/{name} [get]
func ServeUploadHandler(files Files, expiry time.Duration) echo.HandlerFunc {
	return func(c echo.Context) error {
		name := c.Param("name")
		if c.Request().URL.RawPath != "" {
			unescaped, err := url.PathUnescape(name)
			if err != nil {
				return NewErrorMessage(http.StatusNotFound, "stored file not found", err)
			}
			name = unescaped
		}
		ctx := c.Request().Context()

		signed, err := files.SignedURL(ctx, name, expiry)
		switch {
		case err == nil:
			return c.Redirect(http.StatusTemporaryRedirect, signed)
		case !errors.Is(err, blob.ErrUnsupported):
			return err
		}

		info, body, err := files.Open(ctx, name)
		if err != nil {
			return err
		}
		defer body.Close()
		h := c.Response().Header()
		if info.Size > 0 {
			h.Set(echo.HeaderContentLength, strconv.FormatInt(info.Size, 10))
		}
		if info.ETag != "" {
			h.Set("ETag", strconv.Quote(info.ETag))
		}
		return c.Stream(http.StatusOK, info.ContentType, body)
	}
}
