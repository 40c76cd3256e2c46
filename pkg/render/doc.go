// Package render writes pagewire responses.
//
// A bare first load gets an HTML shell: a minimal document whose mount
// element embeds the serialized page object for the client runtime to read
// on boot. The active adapter extends the shell with its bootstrap scripts:
//
//	r := render.New(render.Config{Title: "Acme"})
//	err := r.WriteShell(w, p, desc.ExtendResponse)
//
// produces
//
//	<div id="app" data-page="{&quot;component&quot;:&quot;landing&quot;,...}"></div>
//	<script type="module" src="/build/react.4f1c.js"></script>
//
// A protocol visit gets the page object alone:
//
//	err := render.WriteJSON(w, p)
//	// 200, X-Pagewire: true, {"component":"landing","props":{...},"url":"/","version":"4f1c"}
//
// # Redirects
//
// WriteRedirect uses 303 See Other for every method except GET and HEAD, so
// the client always follows a mutation's redirect with a GET.
// WriteHardNavigate answers with 303 and X-Pagewire-Location, which the
// client runtime turns into a full browser navigation; it is used for asset
// version mismatches and for redirects to non-pagewire URLs.
package render
