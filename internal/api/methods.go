package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"pipelinetracker/internal/core"
	"pipelinetracker/pkg/domain"
)

// CreateMethodHandler creates a method and links its actors. actor_ids is
// required; send [] for a method without actors.
//
//	@Summary	Create a pipeline method
//	@Tags		pipeline_methods
//	@Accept		json
//	@Produce	json
//	@Param		method	body		core.MethodInput	true	"method"
//	@Success	200		{object}	domain.Method
//	@Failure	422		{object}	ErrorMessage
//	@Router		/pipeline_methods/ [post]
func CreateMethodHandler(methods MethodService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var in core.MethodInput
		if err := decodeJSON(c, &in); err != nil {
			return err
		}
		if in.ActorIDs == nil {
			return unprocessable("actor_ids is required", nil, WithAdvice("send [] for a method without actors"))
		}
		method, err := methods.CreateMethod(c.Request().Context(), in)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, method)
	}
}

// ListMethodsHandler lists every method with its actors.
//
//	@Summary	List pipeline methods
//	@Tags		pipeline_methods
//	@Produce	json
//	@Success	200	{array}	domain.Method
//	@Router		/pipeline_methods/ [get]
func ListMethodsHandler(methods MethodService) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := methods.ListMethods(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, orEmpty(list))
	}
}

// GetMethodHandler returns one method with its actors.
//
//	@Summary	Get a pipeline method
//	@Tags		pipeline_methods
//	@Produce	json
//	@Param		id	path		string	true	"method id"
//	@Success	200	{object}	domain.Method
//	@Failure	404	{object}	ErrorMessage
//	@Router		/pipeline_methods/{id} [get]
func GetMethodHandler(methods MethodService) echo.HandlerFunc {
	return func(c echo.Context) error {
		method, err := methods.GetMethod(c.Request().Context(), c.Param("id"))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, method)
	}
}

// UpdateMethodHandler applies a partial update. A present actor_ids list
// replaces the linked actors.
//
//	@Summary	Update a pipeline method
//	@Tags		pipeline_methods
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"method id"
//	@Param		patch	body		domain.MethodPatch	true	"fields to change"
//	@Success	200		{object}	domain.Method
//	@Failure	404		{object}	ErrorMessage
//	@Failure	422		{object}	ErrorMessage
//	@Router		/pipeline_methods/{id} [put]
func UpdateMethodHandler(methods MethodService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var patch domain.MethodPatch
		if err := decodeJSON(c, &patch); err != nil {
			return err
		}
		method, err := methods.UpdateMethod(c.Request().Context(), c.Param("id"), patch)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, method)
	}
}

// DeleteMethodHandler deletes a method with its details.
//
//	@Summary	Delete a pipeline method
//	@Tags		pipeline_methods
//	@Param		id	path	string	true	"method id"
//	@Success	204
//	@Failure	404	{object}	ErrorMessage
//	@Router		/pipeline_methods/{id} [delete]
func DeleteMethodHandler(methods MethodService) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := methods.DeleteMethod(c.Request().Context(), c.Param("id")); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}
}
