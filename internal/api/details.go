package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"pipelinetracker/internal/core"
	"pipelinetracker/internal/intake"
	"pipelinetracker/pkg/domain"
)

// detailResponse is a detail with the public URL of its stored file.
type detailResponse struct {
	domain.Detail
	FileURL *string `json:"file_url"`
}

// baseFunc returns the URL prefix for stored files of the current request.
type baseFunc func(c echo.Context) string

// baseURL prefers the configured public base and otherwise derives one from
// the request scheme and Host header.
func baseURL(public string) baseFunc {
	public = strings.TrimRight(public, "/")
	return func(c echo.Context) string {
		if public != "" {
			return public
		}
		return c.Scheme() + "://" + c.Request().Host
	}
}

func withFileURL(c echo.Context, base baseFunc, d core.Detail) detailResponse {
	resp := detailResponse{Detail: d}
	if d.FilePath != nil && *d.FilePath != "" {
		u := intake.URL(base(c), *d.FilePath)
		resp.FileURL = &u
	}
	return resp
}

// CreateDetailHandler records a detail from a multipart form, storing the
// optional file first.
//
//	@Summary	Create a pipeline detail
//	@Tags		pipeline_details
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		method_id	formData	string	true	"owning method"
//	@Param		name		formData	string	true	"detail name"
//	@Param		value		formData	string	true	"detail value"
//	@Param		description	formData	string	false	"description"
//	@Param		file		formData	file	false	"attached file"
//	@Success	201			{object}	detailResponse
//	@Failure	422			{object}	ErrorMessage
//	@Failure	500			{object}	ErrorMessage
//	@Router		/pipeline_details/ [post]
func CreateDetailHandler(details DetailService, base baseFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		form, err := c.FormParams()
		if err != nil {
			return unprocessable("request body is not a valid form", err, WithAdvice("send multipart/form-data"))
		}
		in := core.DetailInput{
			MethodID: form.Get("method_id"),
			Name:     form.Get("name"),
			Value:    form.Get("value"),
		}
		if vs, ok := form["description"]; ok && len(vs) > 0 {
			desc := vs[0]
			in.Description = &desc
		}

		fh, err := c.FormFile("file")
		switch {
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		case err != nil:
			return unprocessable("file part could not be read", err)
		default:
			f, err := fh.Open()
			if err != nil {
				return unprocessable("file part could not be read", err)
			}
			defer f.Close()
			in.File = &core.Upload{Filename: fh.Filename, Body: f}
		}

		detail, err := details.CreateDetail(c.Request().Context(), in)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, withFileURL(c, base, detail))
	}
}

// ListDetailsHandler lists every detail.
//
//	@Summary	List pipeline details
//	@Tags		pipeline_details
//	@Produce	json
//	@Success	200	{array}	detailResponse
//	@Router		/pipeline_details/ [get]
func ListDetailsHandler(details DetailService, base baseFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := details.ListDetails(c.Request().Context())
		if err != nil {
			return err
		}
		out := make([]detailResponse, 0, len(list))
		for _, d := range list {
			out = append(out, withFileURL(c, base, d))
		}
		return c.JSON(http.StatusOK, out)
	}
}

// GetDetailHandler returns one detail.
//
//	@Summary	Get a pipeline detail
//	@Tags		pipeline_details
//	@Produce	json
//	@Param		id	path		string	true	"detail id"
//	@Success	200	{object}	detailResponse
//	@Failure	404	{object}	ErrorMessage
//	@Router		/pipeline_details/{id} [get]
func GetDetailHandler(details DetailService, base baseFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		detail, err := details.GetDetail(c.Request().Context(), c.Param("id"))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, withFileURL(c, base, detail))
	}
}

// UpdateDetailHandler applies a partial update. The stored file is kept.
//
//	@Summary	Update a pipeline detail
//	@Tags		pipeline_details
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"detail id"
//	@Param		patch	body		domain.DetailPatch	true	"fields to change"
//	@Success	200		{object}	detailResponse
//	@Failure	404		{object}	ErrorMessage
//	@Failure	422		{object}	ErrorMessage
//	@Router		/pipeline_details/{id} [put]
func UpdateDetailHandler(details DetailService, base baseFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		var patch domain.DetailPatch
		if err := decodeJSON(c, &patch); err != nil {
			return err
		}
		detail, err := details.UpdateDetail(c.Request().Context(), c.Param("id"), patch)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, withFileURL(c, base, detail))
	}
}

// DeleteDetailHandler deletes a detail and its stored file.
//
//	@Summary	Delete a pipeline detail
//	@Tags		pipeline_details
//	@Param		id	path	string	true	"detail id"
//	@Success	204
//	@Failure	404	{object}	ErrorMessage
//	@Router		/pipeline_details/{id} [delete]
func DeleteDetailHandler(details DetailService) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := details.DeleteDetail(c.Request().Context(), c.Param("id")); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}
}
