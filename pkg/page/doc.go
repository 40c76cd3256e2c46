// Package page defines the page object exchanged between pagewire servers
// and client runtimes, together with the prop mapping it carries.
//
// A Page names the client component to render and the props to render it
// with. It is built once per request by the server, serialized exactly once,
// and never persisted:
//
//	p := page.New("users/show", page.Props{"user": u}, r.URL.RequestURI(), version)
//	data, _ := json.Marshal(p)
//	// {"component":"users/show","props":{"user":{...}},"url":"/users/1","version":"a1b2c3"}
//
// # Partial Reloads
//
// Props.Filter narrows a prop mapping to the keys requested by a partial
// reload. Keys listed as always-include survive every filter:
//
//	props.Filter(&page.Selection{Only: []string{"user"}}, []string{"flash"})
//
// # Deferred Props
//
// Func props are evaluated only after filtering, so a prop that a partial
// reload did not ask for is never computed. Lazy props go further: they are
// left out of full visits and only evaluated when a partial reload names
// them explicitly.
package page
