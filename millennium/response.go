package millennium

import (
	"iter"

	"github.com/tidwall/gjson"

	"github.com/s0up4200/millennium/codec"
)

// Response is the decoded result of a call. It holds its own copy of the
// body and never refers back to the client.
type Response struct {
	verb       Verb
	statusCode int
	raw        []byte
	body       gjson.Result
}

func newResponse(verb Verb, statusCode int, body []byte) *Response {
	return &Response{
		verb:       verb,
		statusCode: statusCode,
		raw:        body,
		body:       gjson.ParseBytes(body),
	}
}

// Verb returns the verb of the call that produced the response.
func (r *Response) Verb() Verb {
	return r.verb
}

// StatusCode returns the HTTP status of the response.
func (r *Response) StatusCode() int {
	return r.statusCode
}

// Raw returns the undecoded body.
func (r *Response) Raw() []byte {
	return r.raw
}

// Count returns the server reported total of matching records (odata.count).
// The boolean is false when the server did not send one.
func (r *Response) Count() (int64, bool) {
	count := r.body.Get(`odata\.count`)
	if !count.Exists() {
		return 0, false
	}
	return count.Int(), true
}

// Records iterates the objects of the body's value array in server order.
// Each element is decoded when the iterator reaches it. The sequence may be
// iterated any number of times; every pass decodes fresh records.
// Elements that are not JSON objects are skipped.
func (r *Response) Records() iter.Seq[*Record] {
	return func(yield func(*Record) bool) {
		values := r.body.Get("value")
		if !values.IsArray() {
			return
		}
		values.ForEach(func(_, item gjson.Result) bool {
			if !item.IsObject() {
				return true
			}
			return yield(codec.RecordFromJSON(item))
		})
	}
}

// Collect decodes every record of the value array.
func (r *Response) Collect() []*Record {
	records := make([]*Record, 0, r.Len())
	for rec := range r.Records() {
		records = append(records, rec)
	}
	return records
}

// Len returns the number of elements in the value array.
func (r *Response) Len() int {
	values := r.body.Get("value")
	if !values.IsArray() {
		return 0
	}
	return len(values.Array())
}

// Record decodes the body itself; its fields are the top-level keys of the
// JSON object. This is the result shape of POST calls.
func (r *Response) Record() *Record {
	return codec.RecordFromJSON(r.body)
}

// Value decodes the whole body.
func (r *Response) Value() any {
	return codec.FromJSON(r.body)
}
