package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Text is a free-text field. Legacy documents and clients may carry numbers
// where a string is expected; those are kept in their decimal form.
type Text string

// UnmarshalJSON accepts a JSON string, number or null
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected a string or number, got %s", data)
	}
	*t = Text(n.String())
	return nil
}

// UnmarshalBSONValue accepts string and numeric BSON values
func (t *Text) UnmarshalBSONValue(typ bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: typ, Value: data}

	switch typ {
	case bsontype.String:
		*t = Text(raw.StringValue())
	case bsontype.Int32:
		*t = Text(strconv.FormatInt(int64(raw.Int32()), 10))
	case bsontype.Int64:
		*t = Text(strconv.FormatInt(raw.Int64(), 10))
	case bsontype.Double:
		*t = Text(strconv.FormatFloat(raw.Double(), 'f', -1, 64))
	case bsontype.Decimal128:
		*t = Text(raw.Decimal128().String())
	case bsontype.Null, bsontype.Undefined:
		*t = ""
	default:
		return fmt.Errorf("cannot decode %s into a text field", typ)
	}
	return nil
}
