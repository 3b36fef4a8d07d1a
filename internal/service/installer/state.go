package installer

type InstallState struct {
	EnvVars map[string]string
}

func NewInstallState() *InstallState {
	return &InstallState{
		EnvVars: make(map[string]string),
	}
}

// Provider is the lower-case LLM provider picked so far.
func (s *InstallState) Provider() string {
	return s.EnvVars["LLM_PROVIDER"]
}
