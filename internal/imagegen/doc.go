// Package imagegen talks to the OpenAI images API.
//
// # Entry Points
//
// Client.RequestGeneration: one POST to /images/generations, returns the URL
// of the generated image.
// Downloader.Materialize: one GET of that URL, written atomically to a local
// path that becomes a slideshow item.
//
// # Failure Behaviour
//
// Neither call retries and neither sets a timeout. Errors are classified as
// GenerationFailed or DownloadFailed; the acquirer treats either as the end
// of its run.
package imagegen
