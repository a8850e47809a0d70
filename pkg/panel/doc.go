// Package panel owns the editor surface. A Controller holds at most one live
// Panel, drives its load and render cycle, and routes the surface's messages
// through a per-panel dispatcher.
//
// Collaborators are narrow interfaces so the whole lifecycle can run against
// in-memory fakes:
//
//	ctrl, err := panel.New(host,
//		panel.WithResources(resource.NewService()),
//		panel.WithRenderer(renderer),
//		panel.WithNotifier(notifier),
//		panel.WithCommandBus(app),
//	)
//	p, err := ctrl.CreateOrShow(ctx, root, editor.Config{SchemaPath: "schema.json"})
package panel
