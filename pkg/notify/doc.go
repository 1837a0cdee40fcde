// Package notify defines the platform-neutral notification contract.
//
// A Manager posts notifications described by Content, tracks the ones the
// operating system still shows, and forwards user interactions to a single
// registered ResponseHandler as Response values. Platform adapters live under
// internal/platform; the usernotify package picks the right one for the
// running operating system.
//
// # Platform Support
//
//   - macOS: user notification center with a singleton delegate (main thread only)
//   - Windows: toast notifications with protocol activation
//   - Linux: freedesktop notification service on the session bus
//   - everything else: every operation fails with ErrNotSupported
//
// # Usage
//
//	manager, err := usernotify.New(usernotify.Options{AppID: "com.example.app"})
//	if err != nil {
//		return err
//	}
//	err = manager.Register(func(r notify.Response) {
//		fmt.Println(r.NotificationID, r.Action)
//	}, []notify.Category{
//		notify.NewCategory("cat.a", notify.NewAction("cat.a.ok", "OK")),
//	})
//	handle, err := manager.Send(ctx, notify.NewBuilder().
//		Title("Hi").
//		Body("Test").
//		CategoryID("cat.a").
//		Build())
package notify
