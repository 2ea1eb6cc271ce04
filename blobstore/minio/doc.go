// Package minio provides a BlobStore backed by MinIO or any other
// S3-compatible object store, so source images can be ingested straight
// from a bucket and exports written back to it.
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "photos", "inbox/")
//	loader := imageio.NewLoader[uint8](store)
package minio
