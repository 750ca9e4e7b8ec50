// Package marvel provides a lazily loaded object graph over the Marvel
// Comics gateway.
//
// Gateway payloads reference each other by URI and inline only partial
// representations. A Resource fills missing fields on first access with a
// single request, and a Collection fetches its remaining items by unrolling
// offset pagination the first time an index past the inlined items is read.
//
// Basic usage:
//
//	fetcher, err := marvel.NewFetcher(&marvel.Config{
//		PublicKey:  "public",
//		PrivateKey: "private",
//	}, marvel.WithTransport(transport))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	story, err := fetcher.GetStory(ctx, 7)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	characters, err := story.Characters(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	first, err := characters.At(ctx, 0)
//
// Every request goes through Fetcher.RequestURL, which only sends credentials
// to the configured host and counts each dispatch.
//
// Most callers should build a fetcher with the marvelclient package, which
// wires the HTTP transport and the process-wide request counter.
package marvel
