package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// uuidParam binds a required UUID path parameter the same way generated
// oapi-codegen routers do. ok is false when a 400 has already been written.
func uuidParam(w http.ResponseWriter, r *http.Request, name string) (id openapi_types.UUID, ok bool) {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil {
		badRequest(w, "invalid format for parameter "+name+": must be a UUID")
		return id, false
	}
	return id, true
}
