package models

import "encoding/json"

// ToNative projects v onto plain Go values: JSONObject, JSONArray, string,
// json.Number, bool and nil. Map key order is lost.
func (v Value) ToNative() JSONValue {
	switch v.kind {
	case KindScalar:
		switch v.scalar {
		case ScalarNumber:
			return json.Number(v.text)
		case ScalarBool:
			return v.text == "true"
		default:
			return v.text
		}
	case KindList:
		arr := make(JSONArray, len(v.items))
		for i, item := range v.items {
			arr[i] = item.ToNative()
		}
		return arr
	case KindMap:
		obj := make(JSONObject, v.fields.Len())
		for k, item := range v.fields.All() {
			obj[k] = item.ToNative()
		}
		return obj
	default:
		return nil
	}
}
