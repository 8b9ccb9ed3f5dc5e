// Package pdfbridge renders HTML to PDF through an out-of-process
// headless-browser renderer.
//
// # Quick Start
//
//	bridge := pdfbridge.New(pdfbridge.WithTimeout(time.Minute))
//
//	res, err := bridge.Render(ctx, pdfbridge.RenderRequest{
//	    Content: "<h1>Invoice</h1>",
//	    Options: pdfbridge.PageOptions{
//	        PageFormat:  "A4",
//	        Orientation: pdfbridge.Landscape,
//	    },
//	    Sink: pdfbridge.ToFile("invoice.pdf"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Bytes, "bytes written")
//
// # Renderer Contract
//
// Each render writes the markup to a temporary file and runs
//
//	<entrypoint> <input-path> -
//
// with the renderer options as a JSON object in PDF_OPTIONS_JSON. Exit code
// 0 with non-empty stdout is the PDF; anything else is a failure and stderr
// carries the diagnostics. cmd/pdfbridge-render implements this contract
// with headless Chrome.
//
// The entry point is looked up next to the running executable (or at the
// path given with WithRendererPath), then under WithDeploymentRoot.
//
// # Options
//
// PageOptions is translated by MapOptions. Unset fields never reach the
// renderer: no orientation means no "landscape" key, a single margin means a
// single-key "margin" object, and printBackground is only sent when true.
// Hosts holding a string map use ParseOptions or Bridge.RenderMap.
//
// # Errors
//
// Every failure is a *RenderError with a Kind. Match with errors.Is:
//
//	switch {
//	case errors.Is(err, pdfbridge.ErrRendererNotInstalled):
//	    // run "pdfbridge setup"
//	case errors.Is(err, pdfbridge.ErrTimeout):
//	    // retry with a longer WithTimeout
//	case errors.Is(err, pdfbridge.ErrRenderFailed):
//	    // inspect err.(*pdfbridge.RenderError).Stderr
//	}
//
// The temporary input file is removed before Render returns, on every path.
// On timeout or cancellation the renderer's whole process group is killed.
package pdfbridge
