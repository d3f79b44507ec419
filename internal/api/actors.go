package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"pipelinetracker/internal/core"
	"pipelinetracker/pkg/domain"
)

type actorInput struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Role          *string    `json:"role"`
	Contributions *string    `json:"contributions"`
	Decisions     *string    `json:"decisions"`
	Reasons       *string    `json:"reasons"`
	Timestamp     *time.Time `json:"timestamp"`
}

func (in actorInput) actor() core.Actor {
	a := core.Actor{
		ID:            in.ID,
		Name:          in.Name,
		Contributions: in.Contributions,
		Decisions:     in.Decisions,
		Reasons:       in.Reasons,
	}
	if in.Role != nil {
		a.Role = *in.Role
	}
	if in.Timestamp != nil {
		a.Timestamp = *in.Timestamp
	}
	return a
}

// CreateActorHandler registers a responsible actor. id and timestamp are
// generated when omitted.
//
//	@Summary	Create a responsible actor
//	@Tags		responsible_actors
//	@Accept		json
//	@Produce	json
//	@Param		actor	body		actorInput	true	"actor"
//	@Success	200		{object}	domain.Actor
//	@Failure	409		{object}	ErrorMessage
//	@Failure	422		{object}	ErrorMessage
//	@Router		/responsible_actors/ [post]
func CreateActorHandler(actors ActorService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var in actorInput
		if err := decodeJSON(c, &in); err != nil {
			return err
		}
		actor, err := actors.CreateActor(c.Request().Context(), in.actor())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, actor)
	}
}

// ListActorsHandler lists every actor.
//
//	@Summary	List responsible actors
//	@Tags		responsible_actors
//	@Produce	json
//	@Success	200	{array}	domain.Actor
//	@Router		/responsible_actors/ [get]
func ListActorsHandler(actors ActorService) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := actors.ListActors(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, orEmpty(list))
	}
}

// GetActorHandler returns one actor.
//
//	@Summary	Get a responsible actor
//	@Tags		responsible_actors
//	@Produce	json
//	@Param		id	path		string	true	"actor id"
//	@Success	200	{object}	domain.Actor
//	@Failure	404	{object}	ErrorMessage
//	@Router		/responsible_actors/{id} [get]
func GetActorHandler(actors ActorService) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, err := actors.GetActor(c.Request().Context(), c.Param("id"))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, actor)
	}
}

// UpdateActorHandler applies a partial update; the id cannot change.
//
//	@Summary	Update a responsible actor
//	@Tags		responsible_actors
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"actor id"
//	@Param		patch	body		domain.ActorPatch	true	"fields to change"
//	@Success	200		{object}	domain.Actor
//	@Failure	404		{object}	ErrorMessage
//	@Failure	422		{object}	ErrorMessage
//	@Router		/responsible_actors/{id} [put]
func UpdateActorHandler(actors ActorService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var patch domain.ActorPatch
		if err := decodeJSON(c, &patch); err != nil {
			return err
		}
		actor, err := actors.UpdateActor(c.Request().Context(), c.Param("id"), patch)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, actor)
	}
}

// DeleteActorHandler removes an actor and unlinks it from its methods.
//
//	@Summary	Delete a responsible actor
//	@Tags		responsible_actors
//	@Param		id	path	string	true	"actor id"
//	@Success	204
//	@Failure	404	{object}	ErrorMessage
//	@Router		/responsible_actors/{id} [delete]
func DeleteActorHandler(actors ActorService) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := actors.DeleteActor(c.Request().Context(), c.Param("id")); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}
}
