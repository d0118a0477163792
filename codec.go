package attestation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// Media types understood by the server.
const (
	ContentTypeJSON = "application/json"
	ContentTypeCBOR = "application/cbor"
)

// maxBodyBytes bounds request bodies well above the largest valid request.
const maxBodyBytes = 64 << 10

// decodeBody decodes the request body into dst according to Content-Type.
// Bodies without a recognised CBOR content type are decoded as JSON. The body
// must hold exactly one value, and keys naming a field of dst must match its
// wire name exactly.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: body exceeds %d bytes", ErrMalformedBody, maxErr.Limit)
		}
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	if isCBOR(r.Header.Get("Content-Type")) {
		err = decodeCBOR(data, dst)
	} else {
		err = decodeJSON(data, dst)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return nil
}

// decodeJSON decodes a single JSON object. json.Unmarshal rejects trailing data.
func decodeJSON(data []byte, dst any) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if err := checkFieldNames(fields, dst); err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

// decodeCBOR decodes a single CBOR map. cbor.Unmarshal rejects extraneous data.
func decodeCBOR(data []byte, dst any) error {
	var fields map[string]cbor.RawMessage
	if err := cbor.Unmarshal(data, &fields); err != nil {
		return err
	}
	if err := checkFieldNames(fields, dst); err != nil {
		return err
	}
	return cbor.Unmarshal(data, dst)
}

// wireNamer is implemented by bodies whose keys are matched exactly.
type wireNamer interface {
	wireNames() []string
}

// checkFieldNames rejects keys that differ from one of dst's wire names only
// by case. Both decoders would otherwise bind them to the field.
func checkFieldNames[V any](fields map[string]V, dst any) error {
	wn, ok := dst.(wireNamer)
	if !ok {
		return nil
	}
	names := wn.wireNames()
	for key := range fields {
		for _, name := range names {
			if key != name && strings.EqualFold(key, name) {
				return fmt.Errorf("unknown field %q (did you mean %q?)", key, name)
			}
		}
	}
	return nil
}

// encodeBody writes v with the given status, as CBOR when the client accepts
// it and JSON otherwise.
func encodeBody(w http.ResponseWriter, r *http.Request, status int, v any) error {
	if strings.Contains(r.Header.Get("Accept"), ContentTypeCBOR) {
		data, err := cbor.Marshal(v)
		if err != nil {
			return err
		}
		w.Header().Set("Content-Type", ContentTypeCBOR)
		w.WriteHeader(status)
		_, err = w.Write(data)
		return err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	_, err = w.Write(data)
	return err
}

func isCBOR(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == ContentTypeCBOR
}
