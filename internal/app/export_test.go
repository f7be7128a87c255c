package app

// SetIDGenerator replaces the session id source.
func (a *App) SetIDGenerator(f func() string) {
	a.newID = f
}
