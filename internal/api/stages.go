package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"pipelinetracker/internal/core"
	"pipelinetracker/pkg/domain"
)

type stageInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// CreateStageHandler creates a pipeline stage.
//
//	@Summary	Create a pipeline stage
//	@Tags		pipeline_stages
//	@Accept		json
//	@Produce	json
//	@Param		stage	body		stageInput	true	"stage"
//	@Success	201		{object}	domain.Stage
//	@Failure	409		{object}	ErrorMessage
//	@Failure	422		{object}	ErrorMessage
//	@Router		/pipeline_stages/ [post]
func CreateStageHandler(stages StageService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var in stageInput
		if err := decodeJSON(c, &in); err != nil {
			return err
		}
		stage, err := stages.CreateStage(c.Request().Context(), core.Stage{Name: in.Name, Description: in.Description})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, stage)
	}
}

// ListStagesHandler lists every stage.
//
//	@Summary	List pipeline stages
//	@Tags		pipeline_stages
//	@Produce	json
//	@Success	200	{array}	domain.Stage
//	@Router		/pipeline_stages/ [get]
func ListStagesHandler(stages StageService) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := stages.ListStages(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, orEmpty(list))
	}
}

// GetStageHandler returns one stage.
//
//	@Summary	Get a pipeline stage
//	@Tags		pipeline_stages
//	@Produce	json
//	@Param		id	path		string	true	"stage id"
//	@Success	200	{object}	domain.Stage
//	@Failure	404	{object}	ErrorMessage
//	@Router		/pipeline_stages/{id} [get]
func GetStageHandler(stages StageService) echo.HandlerFunc {
	return func(c echo.Context) error {
		stage, err := stages.GetStage(c.Request().Context(), c.Param("id"))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, stage)
	}
}

// UpdateStageHandler applies a partial update.
//
//	@Summary	Update a pipeline stage
//	@Tags		pipeline_stages
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"stage id"
//	@Param		patch	body		domain.StagePatch	true	"fields to change"
//	@Success	200		{object}	domain.Stage
//	@Failure	404		{object}	ErrorMessage
//	@Failure	409		{object}	ErrorMessage
//	@Failure	422		{object}	ErrorMessage
//	@Router		/pipeline_stages/{id} [put]
func UpdateStageHandler(stages StageService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var patch domain.StagePatch
		if err := decodeJSON(c, &patch); err != nil {
			return err
		}
		stage, err := stages.UpdateStage(c.Request().Context(), c.Param("id"), patch)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, stage)
	}
}

// DeleteStageHandler deletes a stage with its methods and their details.
//
//	@Summary	Delete a pipeline stage
//	@Tags		pipeline_stages
//	@Param		id	path	string	true	"stage id"
//	@Success	204
//	@Failure	404	{object}	ErrorMessage
//	@Router		/pipeline_stages/{id} [delete]
func DeleteStageHandler(stages StageService) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := stages.DeleteStage(c.Request().Context(), c.Param("id")); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}
}
