// Package feed turns warehouse rows into the Symplectic Elements XML feeds.
//
// A Feed pulls Records from a Source, builds one Element per record with
// the kind's Layout and streams the elements through a Writer:
//
//	f, err := feed.New(feed.People, feed.NewWarehouseSource(db, log))
//	stats, err := f.Run(ctx, w)
//
// The writer flushes after every record, so a slow reader on the other
// side of w sees the document grow while the query is still running.
package feed
