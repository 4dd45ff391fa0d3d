// Package codec converts between Millennium wire values and Go values.
//
// The Millennium API serializes date-time values as millisecond precision
// ISO-8601 UTC strings ("2024-03-01T10:20:30.000Z") and expects them back as
// "2024-03-01 10:20:30". Decoding walks maps and sequences at any depth and
// replaces every string that matches the wire pattern with a time.Time.
// Sub-second precision is never carried: the millisecond group is always
// "000" on the wire and is dropped when parsing.
//
// JSON objects decoded through FromJSON become *Record values, which keep
// their fields in server order.
package codec
