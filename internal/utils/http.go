package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxRequestBodyBytes bounds a decoded request body.
const MaxRequestBodyBytes = 8 << 20

// WriteJSON writes data as an application/json body with statusCode. A
// value that cannot be marshaled is answered with 500 and the error returned.
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return w.Write(jsonData)
}

// DecodeJSON decodes the request body into v. An empty body leaves v
// untouched when allowEmpty is set; otherwise it is an error. Bodies larger
// than [MaxRequestBodyBytes] and trailing data are rejected.
func DecodeJSON(r *http.Request, v any, allowEmpty bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxRequestBodyBytes+1))

	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return nil
		}
		return fmt.Errorf("error decoding request body: %w", err)
	}
	if dec.More() {
		return errors.New("error decoding request body: unexpected trailing data")
	}

	return nil
}
