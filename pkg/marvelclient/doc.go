// Package marvelclient is the entry point for building a marvel.Fetcher
// wired to the HTTP transport.
//
// It normalizes configuration, builds the retryable HTTP transport and shares
// the process-wide request counter between every fetcher it creates. Most
// applications should import marvelclient to build a fetcher and then use the
// marvel package types it returns.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/marvel-client/pkg/marvelclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  fetcher, err := marvelclient.NewWithKeys("public-key", "private-key")
//	  if err != nil { log.Fatal(err) }
//
//	  spiderMan, err := fetcher.GetCharacter(ctx, 1009610)
//	  if err != nil { log.Fatal(err) }
//
//	  comics, err := spiderMan.Comics(ctx)
//	  if err != nil { log.Fatal(err) }
//
//	  // Reading past the inlined items fetches the whole collection once.
//	  last, err := comics.At(ctx, comics.Count()-1)
//	  if err != nil { log.Fatal(err) }
//	  _ = last
//	}
//
// Gateway payloads embed http:// resource URIs. When the endpoint uses https
// those URIs are upgraded before dispatch, and credentials are never sent to
// any other host.
package marvelclient
