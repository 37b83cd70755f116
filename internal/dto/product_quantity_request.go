package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ProductQuantityRequest is the body of an update call. NewQuantity is a
// pointer so an absent or null value can be told apart from zero.
type ProductQuantityRequest struct {
	ProductID   string `json:"productId"`
	NewQuantity *int64 `json:"newQuantity"`
}

func (r ProductQuantityRequest) IsValid() bool {
	return r.ProductID != "" && r.NewQuantity != nil
}

// UnmarshalJSON only enforces the shape of the two fields it needs. A
// numeric productId is kept as its string form; newQuantity may be a whole
// number, a whole float such as 5.0, or a numeric string.
func (r *ProductQuantityRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		ProductID   json.RawMessage `json:"productId"`
		NewQuantity json.RawMessage `json:"newQuantity"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	productID, err := looseString(raw.ProductID)
	if err != nil {
		return fmt.Errorf("productId: %w", err)
	}

	newQuantity, err := looseInt64(raw.NewQuantity)
	if err != nil {
		return fmt.Errorf("newQuantity: %w", err)
	}

	*r = ProductQuantityRequest{ProductID: productID, NewQuantity: newQuantity}
	return nil
}

func decodeLoose(raw json.RawMessage) (interface{}, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func looseString(raw json.RawMessage) (string, error) {
	v, err := decodeLoose(raw)
	if err != nil {
		return "", err
	}

	switch value := v.(type) {
	case nil:
		return "", nil
	case string:
		return value, nil
	case json.Number:
		return value.String(), nil
	}
	return "", fmt.Errorf("unsupported value %s", raw)
}

func looseInt64(raw json.RawMessage) (*int64, error) {
	v, err := decodeLoose(raw)
	if err != nil {
		return nil, err
	}

	var n int64
	switch value := v.(type) {
	case nil:
		return nil, nil
	case json.Number:
		if n, err = value.Int64(); err == nil {
			break
		}
		f, ferr := value.Float64()
		if ferr != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return nil, fmt.Errorf("not a whole number: %s", raw)
		}
		n = int64(f)
	case string:
		if n, err = strconv.ParseInt(strings.TrimSpace(value), 10, 64); err != nil {
			return nil, fmt.Errorf("not an integer: %s", raw)
		}
	default:
		return nil, fmt.Errorf("unsupported value %s", raw)
	}

	return &n, nil
}
