// Package view is a small server-driven rendering layer: a request collects
// shared props, handlers return a Page naming a client component, and the
// page object is serialized either as JSON (for requests sent by the client
// runtime with the X-Hybrid header) or embedded into an HTML shell rendered
// with templ.
//
// # Shared props
//
// Every request carries its own *Props, attached by Middleware (or lazily by
// Ensure). Anything shared there is merged into every page rendered for that
// request:
//
//	props, _ := view.FromContext(r.Context())
//	props.Share("app_name", "Acme")
//	_ = props.Append(r.Context(), "toasts", "Saved")
//
// # Render hooks
//
// Integrations that need to push their values right before the response is
// produced register a hook with Props.OnRender. Hooks run exactly once per
// request, the first time a Page renders, in registration order. A hook
// error aborts rendering and is returned from Render.
//
// # Lazy values
//
// Prop values implementing Resolvable are resolved at render time, so
// expensive computations only run for pages that are actually rendered.
package view
