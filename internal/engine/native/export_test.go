package native

// SetLookPath replaces the PATH lookup used for tools outside the catalog.
func SetLookPath(i *Installer, fn func(string) (string, error)) {
	i.lookPath = fn
}
