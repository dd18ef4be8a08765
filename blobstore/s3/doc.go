// Package s3 provides S3 implementations of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("tables/"),
//	    s3.WithRegion("us-east-1"),
//	)
//	if err != nil {
//	    return err
//	}
//	version, err := snapshot.Commit(ctx, store, "prices", table)
//
// For concurrent writers, wrap the store in a DDBCommitStore so CURRENT
// pointers are updated with DynamoDB conditional writes:
//
//	commits := s3.NewDDBCommitStore(store, dynamodb.NewFromConfig(cfg), "colsort-commits", "s3://my-bucket/tables")
//
// # Features
//
//   - Range reads for partial fetches
//   - Streaming multipart uploads with CRC32C checksums
//   - Automatic pagination for listing
//   - Conditional create on S3 Express One Zone directory buckets
package s3
