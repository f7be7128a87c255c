package shell

// ResolveEnvironment exposes resolveEnvironment for tests.
func ResolveEnvironment(sysEnv, cmdEnv []string) []string {
	return resolveEnvironment(sysEnv, cmdEnv)
}
