package webutil

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AppHandler represents a handler function that returns an error.
type AppHandler func(w http.ResponseWriter, r *http.Request) error

// MakeHandler adapts an AppHandler to the standard http.HandlerFunc signature.
// A returned error is logged and turned into the {"success": false, "message"}
// envelope. Client errors log at warn, everything else at error.
func MakeHandler(handler AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ww, ok := w.(middleware.WrapResponseWriter)
		if !ok {
			ww = middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		}

		err := handler(ww, r)
		if err == nil {
			return
		}

		var httpErr *HTTPError
		var publicMessage string
		var statusCode int

		err = FromDomainError(err)
		fields := []zap.Field{
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		}

		if errors.As(err, &httpErr) {
			statusCode = httpErr.Code
			publicMessage = httpErr.Message
			level := zapcore.WarnLevel
			if statusCode >= http.StatusInternalServerError {
				level = zapcore.ErrorLevel
			}
			fields = append(fields, zap.Int("code", statusCode), zap.String("msg", publicMessage))
			if cause := errors.Unwrap(httpErr); cause != nil && cause.Error() != publicMessage {
				fields = append(fields, zap.NamedError("cause", cause))
			}
			zap.L().Log(level, "Client error response", fields...)
		} else {
			statusCode = http.StatusInternalServerError
			publicMessage = msgInternalServer
			zap.L().Error("Unhandled internal error", append(fields, zap.Error(err))...)
		}

		if ww.Status() != 0 {
			zap.L().Warn("Handler returned error after writing response header", fields...)
			return
		}

		RespondWithError(ww, statusCode, publicMessage)
	}
}
