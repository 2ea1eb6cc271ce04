// Package picset keeps a deduplicated, in-memory collection of photos.
//
// Every photo added to a Collection is reduced to a 64-bit average-hash
// digest (package ahash) and filed in the bucket for that digest. A digest
// is only a hint: photos that collide are compared pixel by pixel, so two
// different photos are never merged and the same photo is never stored
// twice.
//
// # Quick Start
//
//	store := blobstore.NewCompressedStore(blobstore.NewLocalStore("./images"))
//	c, _ := picset.New[uint8](
//	    picset.WithLoader[uint8](imageio.NewLoader[uint8](store)),
//	    picset.WithWriter[uint8](imageio.NewWriter[uint8](store)),
//	)
//
//	added, _ := c.Add(ctx, "xmas.ppm")   // true
//	added, _ = c.Add(ctx, "xmas.ppm")    // false, already present
//	p, _ := c.Get(0)
//	_ = c.Save(ctx, 0, "copy.ppm.zst")
//
// # Batches
//
// AddBatch loads and fingerprints in parallel, bounded by the configured
// resource.Controller, and then inserts in input order so the resulting
// indices do not depend on scheduling:
//
//	results, err := c.AddBatch(ctx, []string{"a.ppm", "b.ppm", "a.ppm"})
//	// results[2].Added == false, results[2].Index == results[0].Index
//
// # Ownership
//
// The collection owns every stored photo. Photos are never removed, and a
// *photo.Photo returned by Get stays valid as long as the collection does,
// regardless of later additions.
//
// # Concurrency
//
// A Collection is safe for concurrent use. Loading and fingerprinting run
// outside the lock; the duplicate check and the insert are one critical
// section, so concurrent adds of the same photo store it exactly once.
package picset
