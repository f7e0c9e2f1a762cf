package httpkit

import (
	"net/http"

	phttp "leadscore/internal/platform/net/http"
)

// GetJSON mounts a body-less JSON handler under GET
func GetJSON(r Router, path string, h func(*http.Request) (any, error)) {
	phttp.GetJSON(r, path, h)
}

// DeleteJSON mounts a body-less JSON handler under DELETE, a nil result answers 204
func DeleteJSON(r Router, path string, h func(*http.Request) (any, error)) {
	phttp.DeleteJSON(r, path, h)
}

// PostJSON mounts a validated JSON handler under POST
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, JSON(h))
}

// CreateJSON mounts a validated JSON handler under POST answering 201
func CreateJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.CreateJSON(r, path, h)
}

// PutJSON mounts a validated JSON handler under PUT
func PutJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Put(path, JSON(h))
}
