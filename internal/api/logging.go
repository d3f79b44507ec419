package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"pipelinetracker/internal/core"
)

// ParseLevel maps a configured level name onto a gommon level. Unknown names
// fall back to WARN and report ok=false.
func ParseLevel(level string) (lvl log.Lvl, ok bool) {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG, true
	case "info":
		return log.INFO, true
	case "warn", "":
		return log.WARN, true
	case "error":
		return log.ERROR, true
	case "off":
		return log.OFF, true
	default:
		return log.WARN, false
	}
}

// SetLevel applies a configured level name to the echo logger.
func SetLevel(e *echo.Echo, level string) {
	lvl, ok := ParseLevel(level)
	e.Logger.SetLevel(lvl)
	if !ok {
		e.Logger.Warnf("unknown loglevel: %s . fall-backed to warn", level)
	}
}

// LogRequests logs every request and its outcome at INFO.
func LogRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		begin := time.Now()
		c.Logger().Infof("< request %s %s", req.Method, req.URL)

		err := next(c)

		status := c.Response().Status
		if err != nil {
			status = toHTTPError(err).Code
		}
		c.Logger().Infof(
			"> response status = %d (for %s %s) in %v / error = %v",
			status, req.Method, req.URL, time.Since(begin), err,
		)
		return err
	}
}

func logFields(c echo.Context, kv ...any) log.JSON {
	fields := log.JSON{
		"method": c.Request().Method,
		"uri":    c.Request().RequestURI,
	}
	addFields(fields, kv)
	return fields
}

func addFields(fields log.JSON, kv []any) {
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		if i+1 >= len(kv) {
			fields[key] = nil
			break
		}
		switch v := kv[i+1].(type) {
		case error:
			fields[key] = v.Error()
		case time.Duration:
			fields[key] = v.String()
		default:
			fields[key] = v
		}
	}
}

// ServiceLogger adapts an echo logger to the key/value logger used by the
// record services.
func ServiceLogger(l echo.Logger) core.Logger {
	return serviceLogger{l: l}
}

type serviceLogger struct{ l echo.Logger }

func (s serviceLogger) fields(msg string, kv []any) log.JSON {
	fields := log.JSON{"message": msg}
	addFields(fields, kv)
	return fields
}

func (s serviceLogger) Debug(msg string, kv ...any) { s.l.Debugj(s.fields(msg, kv)) }
func (s serviceLogger) Info(msg string, kv ...any)  { s.l.Infoj(s.fields(msg, kv)) }
func (s serviceLogger) Warn(msg string, kv ...any)  { s.l.Warnj(s.fields(msg, kv)) }
func (s serviceLogger) Error(msg string, kv ...any) { s.l.Errorj(s.fields(msg, kv)) }
