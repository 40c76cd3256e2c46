// Package dev provides the development loop of pagewire serve.
//
// A ManifestWatcher polls the bundle manifest written by the front-end
// build. When its content changes the watcher swaps the new entries into
// the live manifest, so the asset version the server enforces moves with
// the build, and tells the Reloader, which pushes the new version to every
// open browser over a WebSocket at ReloadPath:
//
//	loop := dev.New(dev.Config{ManifestPath: "public/build/manifest.json"})
//	go loop.Run(ctx)
//
//	r.Handle(dev.ReloadPath, loop.Reloader)
//	pages, _ := server.New(server.Config{
//	    Version:   loop.Watcher,
//	    Dev:       true,
//	    Extenders: []render.Extender{loop.Reloader.Extender()},
//	})
//
// Browsers that miss the push still recover on their next visit, because
// the server answers a stale version with a hard navigation.
package dev
