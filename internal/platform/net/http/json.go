package http

import (
	"net/http"

	"leadscore/internal/platform/net/http/bind"
)

// JSONHandler binds and validates T, calls fn and wraps the result in a 200 envelope
func JSONHandler[T any](fn func(*http.Request, T) (any, error)) Handler {
	return jsonHandler(OK, fn)
}

// JSONCreateHandler is JSONHandler answering 201 on success
func JSONCreateHandler[T any](fn func(*http.Request, T) (any, error)) Handler {
	return jsonHandler(Created, fn)
}

func jsonHandler[T any](ok func(any) Response, fn func(*http.Request, T) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return Error(err)
		}
		out, err := fn(r, in)
		if err != nil {
			return Error(err)
		}
		return ok(out)
	})
}

// JSONHandlerNoBody calls fn without parsing a request body and wraps the result
// a nil result with a nil error answers 204
func JSONHandlerNoBody(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		out, err := fn(r)
		if err != nil {
			return Error(err)
		}
		if out == nil {
			return NoContent()
		}
		return OK(out)
	})
}
