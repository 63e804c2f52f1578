package hybridshare

import (
	"context"
	"maps"
	"slices"

	"github.com/dmitrymomot/hybridshare/pkg/view"
)

// Flash stages values on the request Share in key order. With appendMode
// each value is appended instead of replacing the staged one.
func Flash(ctx context.Context, values map[string]any, appendMode bool) error {
	s, err := FromContext(ctx)
	if err != nil {
		return err
	}
	for _, key := range slices.Sorted(maps.Keys(values)) {
		if appendMode {
			err = s.Append(ctx, key, values[key])
		} else {
			err = s.Share(ctx, key, values[key])
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// RedirectWith stages values and returns a redirect to url. The values are
// rendered by the page the client lands on.
func RedirectWith(ctx context.Context, url string, values map[string]any) (view.Response, error) {
	if err := Flash(ctx, values, false); err != nil {
		return nil, err
	}
	return view.Redirect(url), nil
}
