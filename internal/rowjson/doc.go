// Package rowjson renders projected rows as deterministic JSON.
//
// Output is stable across runs so it can be diffed and stored as golden
// files:
//   - object keys NFC-normalized, then sorted by UTF-16 code units
//   - string values written as stored (not normalized), no HTML escaping
//   - []byte written as a string when valid UTF-8, otherwise as standard
//     base64 so binary blobs survive the round trip
//   - one row object per line
//
// Unlike strict canonical JSON, null and floats are allowed: database rows
// carry both.
package rowjson
