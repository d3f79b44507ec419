package api

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/labstack/echo/v4"
)

// decodeJSON reads the request body into dst. A missing or malformed body is
// a 422, matching the response for invalid fields.
func decodeJSON(c echo.Context, dst any) error {
	if err := json.NewDecoder(c.Request().Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return unprocessable("request body is required", err, WithAdvice("send a JSON object"))
		}
		return unprocessable("request body is not valid JSON", err, WithAdvice(err.Error()))
	}
	return nil
}

// orEmpty keeps empty collections rendering as [] rather than null.
func orEmpty[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
