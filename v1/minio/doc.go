// Package minio provides read-only access to NDJSON vector exports stored
// in a MinIO or S3-compatible bucket.
//
// The client lists objects under a prefix, keeping only keys with an NDJSON
// extension, and streams them one at a time. It is used by the ingest
// package's MinIO source.
//
//	client, err := minio.NewClient(minio.Config{
//	    Connection: minio.ConnectionConfig{
//	        Endpoint:        "localhost:9000",
//	        AccessKeyID:     "minioadmin",
//	        SecretAccessKey: "minioadmin",
//	        BucketName:      "exports",
//	    },
//	})
//	objects, err := client.ListObjects(ctx, "embeddings/2024-06/")
//	rc, err := client.Open(ctx, objects[0].Key)
//	defer rc.Close()
//
// Errors from the SDK are mapped to ErrBucketNotFound, ErrObjectNotFound and
// ErrAccessDenied by TranslateError; the original error stays in the chain.
package minio
