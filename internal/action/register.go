package action

// NewDefaultRegistry builds a registry with the full closed verb set bound
// to the given environment.
func NewDefaultRegistry(env Env) *Registry {
	r := NewRegistry()
	r.MustRegister(InstallPackageAction(env))
	r.MustRegister(UninstallPackageAction(env))
	r.MustRegister(CreateFileAction(env))
	r.MustRegister(DeleteFileAction(env))
	r.MustRegister(UpdateFileAction(env))
	r.MustRegister(ReadFileAction(env))
	r.MustRegister(ExecuteFileAction(env))
	r.MustRegister(ListExecutorTreeAction(env))
	return r
}
