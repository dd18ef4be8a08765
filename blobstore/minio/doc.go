// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works with MinIO and other S3-compatible servers (Ceph, SeaweedFS, Garage)
// without pulling in the AWS SDK.
//
//	store, err := minioblob.New("localhost:9000", "my-bucket",
//	    minioblob.WithCredentials("minioadmin", "minioadmin"),
//	    minioblob.WithPrefix("tables/"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := store.EnsureBucket(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	version, err := snapshot.Commit(ctx, store, "prices", table)
//
// An existing *minio.Client can be wrapped with NewStore.
package minio
