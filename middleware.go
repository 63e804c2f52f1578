package hybridshare

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/hybridshare/pkg/logger"
	"github.com/dmitrymomot/hybridshare/pkg/view"
)

// Middleware attaches a lazily booted Share to every request and registers a
// render hook syncing it into the request's view props. The Share boots on
// the first FromContext call or at render time, so requests that neither
// touch it nor render leave stored state in place for the next request.
// Ignored paths never boot a Share from the hook.
//
// It must run after the session middleware when the session driver, or the
// default identity of the cache driver, is used.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, props := view.Ensure(r.Context())

		slot := &shareSlot{}
		ctx = withShareSlot(ctx, slot)
		r = r.WithContext(ctx)
		slot.build = func(ctx context.Context) (*Share, error) {
			return m.New(ctx, r)
		}

		props.OnRender(func(ctx context.Context, p *view.Props) error {
			if m.ShouldIgnore(r) {
				return nil
			}
			s, err := slot.get(ctx)
			if err != nil {
				m.logger.ErrorContext(ctx, "share boot failed", logger.Path(r.URL.Path), logger.Error(err))
				return err
			}
			if err := s.Sync(ctx, p, true); err != nil {
				m.logger.ErrorContext(ctx, "share sync failed", logger.Path(r.URL.Path), logger.Error(err))
				return err
			}
			return nil
		})

		next.ServeHTTP(w, r)
	})
}
