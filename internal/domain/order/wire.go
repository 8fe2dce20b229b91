package order

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotArray is returned when an order payload is valid JSON but not a list.
var ErrNotArray = errors.New("order payload is not a JSON array")

// Flex holds a scalar JSON value as text regardless of its JSON type.
// Strings are kept verbatim, numbers and booleans keep their literal form,
// null and nested values collapse to "".
type Flex string

// UnmarshalJSON implements json.Unmarshaler and never fails.
func (f *Flex) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*f = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*f = ""
			return nil
		}
		*f = Flex(s)
	case '{', '[', 'n':
		*f = ""
	default:
		*f = Flex(data)
	}
	return nil
}

func (f Flex) String() string { return string(f) }

// RawLineItem is one entry of the "compras" array.
type RawLineItem struct {
	Name      Flex `json:"name"`
	Quantity  Flex `json:"quantity"`
	UnitPrice Flex `json:"unitPrice"`
	Discount  Flex `json:"discount"`
}

// RawLineItems decodes the "compras" field. Anything other than an array
// decodes to an empty list, and entries that are not objects are dropped.
type RawLineItems []RawLineItem

// UnmarshalJSON implements json.Unmarshaler and never fails.
func (items *RawLineItems) UnmarshalJSON(data []byte) error {
	*items = nil

	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil
	}

	out := make(RawLineItems, 0, len(elems))
	for _, elem := range elems {
		elem = bytes.TrimSpace(elem)
		if len(elem) == 0 || elem[0] != '{' {
			continue
		}
		var item RawLineItem
		if err := json.Unmarshal(elem, &item); err != nil {
			continue
		}
		out = append(out, item)
	}
	*items = out
	return nil
}

// RawOrder is one record of the order export exactly as it appears on the
// wire. The JSON keys are a fixed contract with the upstream exporter.
type RawOrder struct {
	CustomerName  Flex         `json:"nombre_comprador"`
	CustomerEmail Flex         `json:"correo_comprador"`
	CustomerPhone Flex         `json:"telefono_comprador"`
	Country       Flex         `json:"pais"`
	CustomerType  Flex         `json:"tipo_usuario"`
	PurchasedAt   Flex         `json:"fecha_hora_entrada"`
	Total         Flex         `json:"precio_compra_total"`
	Items         RawLineItems `json:"compras"`
	Browser       Flex         `json:"navegador"`
	OS            Flex         `json:"sistema_operativo"`
	Origin        Flex         `json:"origen"`
	TrafficSource Flex         `json:"fuente_trafico"`
	Affiliate     Flex         `json:"afiliado"`
}

// DecodePayload parses a raw order export. The payload must be a JSON array;
// elements that are not objects decode to an empty RawOrder so that their
// position (and therefore order IDs) is preserved.
func DecodePayload(data []byte) ([]RawOrder, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("decode payload: %w", ErrNotArray)
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("decode payload: %w", ErrNotArray)
		}
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if elems == nil {
		// literal null
		return nil, fmt.Errorf("decode payload: %w", ErrNotArray)
	}

	raws := make([]RawOrder, len(elems))
	for i, elem := range elems {
		elem = bytes.TrimSpace(elem)
		if len(elem) == 0 || elem[0] != '{' {
			continue
		}
		// Field decoders never fail, so an error here means the element
		// itself is unusable; keep the zero record.
		_ = json.Unmarshal(elem, &raws[i])
	}
	return raws, nil
}
