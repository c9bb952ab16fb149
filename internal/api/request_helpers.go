package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// DecodeJSON decodes the request body into v. Unknown fields are not
// rejected; the API is lenient about extra keys.
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("empty request body")
	}
	return json.NewDecoder(r.Body).Decode(v)
}
