package domain

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	FieldID        = "id"
	FieldProductID = "productId"
	FieldQuantity  = "quantity"
	FieldETag      = "_etag"
)

// Product is a product document as stored in the products collection.
// Fields this service does not know about are kept in Extra, in their
// original order and encoding, and written back untouched.
type Product struct {
	ID        string
	ProductID string
	Quantity  int64
	ETag      string
	Extra     bson.D

	// key order of the decoded document
	order []string
}

func (p *Product) UnmarshalBSON(data []byte) error {
	// raw extras point into data, which the decoder may reuse
	data = append([]byte(nil), data...)

	elements, err := bson.Raw(data).Elements()
	if err != nil {
		return fmt.Errorf("decoding product document: %w", err)
	}

	*p = Product{order: make([]string, 0, len(elements))}
	for _, element := range elements {
		key, value := element.Key(), element.Value()
		p.order = append(p.order, key)

		switch key {
		case FieldID:
			if id, ok := value.StringValueOK(); ok {
				p.ID = id
				continue
			}
		case FieldProductID:
			if productID, ok := value.StringValueOK(); ok {
				p.ProductID = productID
				continue
			}
		case FieldQuantity:
			if quantity, ok := decodeQuantity(value); ok {
				p.Quantity = quantity
				continue
			}
		case FieldETag:
			if etag, ok := value.StringValueOK(); ok {
				p.ETag = etag
				continue
			}
		}

		// unknown field, or a known one with a type we don't own
		p.Extra = append(p.Extra, bson.E{Key: key, Value: value})
		p.order[len(p.order)-1] = ""
	}

	return nil
}

func (p Product) MarshalBSON() ([]byte, error) {
	doc := make(bson.D, 0, len(p.Extra)+4)
	written := make(map[string]bool, 4)
	extra := 0

	for _, key := range p.order {
		if key == "" {
			if extra < len(p.Extra) {
				doc = p.appendExtra(doc, p.Extra[extra], written)
				extra++
			}
			continue
		}

		if e, ok := p.knownField(key); ok {
			doc = append(doc, e)
			written[key] = true
		}
	}
	for _, e := range p.Extra[extra:] {
		doc = p.appendExtra(doc, e, written)
	}

	for _, key := range []string{FieldID, FieldProductID, FieldQuantity, FieldETag} {
		if written[key] {
			continue
		}
		if e, ok := p.knownField(key); ok {
			doc = append(doc, e)
		}
	}

	return bson.Marshal(doc)
}

// appendExtra keeps a raw field unless it shadows a typed field that now
// holds a value, in which case the typed value takes its place.
func (p Product) appendExtra(doc bson.D, e bson.E, written map[string]bool) bson.D {
	if known, ok := p.knownField(e.Key); ok {
		if written[e.Key] {
			return doc
		}
		written[e.Key] = true
		return append(doc, known)
	}
	return append(doc, e)
}

// knownField returns the current value of a typed field. Empty strings are
// omitted so a missing field is not turned into an empty one.
func (p Product) knownField(key string) (bson.E, bool) {
	switch key {
	case FieldID:
		return bson.E{Key: key, Value: p.ID}, p.ID != ""
	case FieldProductID:
		return bson.E{Key: key, Value: p.ProductID}, p.ProductID != ""
	case FieldQuantity:
		return bson.E{Key: key, Value: p.Quantity}, true
	case FieldETag:
		return bson.E{Key: key, Value: p.ETag}, p.ETag != ""
	}
	return bson.E{}, false
}

func decodeQuantity(value bson.RawValue) (int64, bool) {
	if v, ok := value.Int32OK(); ok {
		return int64(v), true
	}
	if v, ok := value.Int64OK(); ok {
		return v, true
	}
	if v, ok := value.DoubleOK(); ok && v == float64(int64(v)) {
		return int64(v), true
	}
	return 0, false
}
