// Package s3 provides a BlobStore backed by Amazon S3.
//
// Reads are ranged GETs, streaming writes go through the multipart upload
// manager, and Put is a single PutObject.
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	store := s3.NewStore(s3sdk.NewFromConfig(cfg), "photos", "inbox/")
package s3
