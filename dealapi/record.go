package dealapi

import (
	"github.com/buger/jsonparser"
)

// DealDetail is the opaque deal record returned by the remote API. Field
// access goes through jsonparser so the comparator does not bind to the full
// response schema, which the API vendor extends freely.
type DealDetail struct {
	raw []byte
}

func NewDealDetail(raw []byte) *DealDetail {
	return &DealDetail{raw: raw}
}

// Field returns the stringified value at path, or "" when absent or null.
// Numbers come back in their JSON source form.
func (d *DealDetail) Field(path ...string) string {
	value, dataType, _, err := jsonparser.Get(d.raw, path...)
	if err != nil || dataType == jsonparser.NotExist || dataType == jsonparser.Null {
		return ""
	}
	if dataType == jsonparser.String {
		if s, err := jsonparser.ParseString(value); err == nil {
			return s
		}
	}
	return string(value)
}
