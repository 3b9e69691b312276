// Package builtin provides the functions fixture bodies can call.
//
// Available functions:
//   - uuid(): a random UUID v4
//   - now(): the current time in RFC 3339
//   - timestamp(), timestampMs(): the current Unix time
//   - date(layout): the current date, "2006-01-02" by default
//   - random(min, max): a random integer in range
//   - randomString(length): a random alphanumeric string
//   - base64(value), base64Decode(value)
//   - md5(value), sha256(value)
//   - urlEncode(value), urlDecode(value)
//   - upper(value), lower(value)
//
// Functions are invoked using the {{$name(args)}} syntax.
package builtin
