package cli

import "context"

// ToggleTheme switches between light and dark and persists the choice.
func (a *App) ToggleTheme(ctx context.Context) error {
	th, err := a.themes.Toggle(ctx)
	if err != nil {
		return a.fail(ctx, err)
	}
	a.toast.SetTheme(th)
	a.toast.Info("Theme: %s.", th)
	return nil
}
