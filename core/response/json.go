package response

import (
	"encoding/json"
	"net/http"

	"github.com/tahamansoor/clawdia/core/handler"
)

// JSON creates an application/json response with 200 OK status. Encoding
// goes directly to the response writer so large payloads are not buffered.
func JSON(v any) handler.Response {
	return JSONWithStatus(v, http.StatusOK)
}

// JSONWithStatus creates an application/json response with a custom status
// code. A zero status resolves to 200, or 204 when v is nil; 204 and 304
// responses carry no body per the HTTP spec.
func JSONWithStatus(v any, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if status == 0 {
			if v == nil {
				status = http.StatusNoContent
			} else {
				status = http.StatusOK
			}
		}
		w.WriteHeader(status)

		switch status {
		case http.StatusNoContent, http.StatusNotModified:
			return nil
		}
		return json.NewEncoder(w).Encode(v)
	}
}
