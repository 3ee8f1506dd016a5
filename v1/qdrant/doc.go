// Package qdrant provides read-only access to a Qdrant collection for
// migrating its points into Cloudflare Vectorize.
//
// The client performs a health check on construction, reports collection
// dimensions and distance, and scrolls points page by page with payload
// and dense vectors:
//
//	client, err := qdrant.NewQdrantClient(qdrant.FromEndpoint("localhost"))
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	offset := ""
//	for {
//	    page, err := client.Scroll(ctx, "documents", offset, 256)
//	    if err != nil {
//	        return err
//	    }
//	    // use page.Points ...
//	    if page.NextOffset == "" {
//	        break
//	    }
//	    offset = page.NextOffset
//	}
//
// Point ids are rendered as strings: numeric ids in decimal, UUIDs verbatim.
// Payload values are converted to plain Go values (string, int64, float64,
// bool, nested maps and slices).
//
// Set Config.VectorName to read a named vector instead of the default one.
package qdrant
