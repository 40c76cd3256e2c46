// Package pagewiretest provides helpers for testing pagewire handlers.
//
// Build protocol requests fluently and decode the responses:
//
//	req := pagewiretest.NewRequest("GET", "/dashboard").
//	    Visit().
//	    Version("v1").
//	    Partial("dashboard", "user").
//	    Build()
//	rec := httptest.NewRecorder()
//	handler.ServeHTTP(rec, req)
//	p := pagewiretest.DecodePage(t, rec)
//
// For bare requests, ExtractPage reads the page object embedded in the HTML
// shell:
//
//	doc := pagewiretest.ParseShell(t, rec.Body.String())
//	doc.Page.Component() // "landing"
package pagewiretest
