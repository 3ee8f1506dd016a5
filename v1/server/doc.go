// Package server is an HTTP facade over the Vectorize client.
//
// Routes map one to one onto client calls and reply with the same
// {success, errors, messages, result} envelope the remote API uses:
//
//	GET    /indexes
//	POST   /indexes
//	GET    /indexes/{index}
//	GET    /indexes/{index}/info
//	DELETE /indexes/{index}
//	POST   /indexes/{index}/vectors?namespace=...
//	POST   /indexes/{index}/vectors/upsert?namespace=...
//	POST   /indexes/{index}/vectors/query
//	GET    /indexes/{index}/vectors?ids=a&ids=b
//	DELETE /indexes/{index}/vectors?ids=a&ids=b
//	GET    /indexes/{index}/vectors/list?count=100&cursor=...
//	POST   /indexes/{index}/metadata-indexes
//	GET    /indexes/{index}/metadata-indexes
//	DELETE /indexes/{index}/metadata-indexes/{property}
//	GET    /healthz
//	GET    /metrics
//
// Vector writes accept a JSON array, or NDJSON when sent with
// Content-Type: application/x-ndjson.
//
// Failures are rendered as {"success": false, "error": "...", "details": [...]}
// with status 400 for rejected input, the remote status for API errors and
// 502 when the remote API could not be reached.
package server
