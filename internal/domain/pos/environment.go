package pos

// Environment selects which POS target a run operates against. Mappings and
// credentials are scoped per environment and never mixed within one run.
type Environment string

const (
	// EnvironmentSandbox is the test POS target
	EnvironmentSandbox Environment = "sandbox"
	// EnvironmentProduction is the live POS target
	EnvironmentProduction Environment = "production"
)

// IsValid returns true if the environment is valid
func (e Environment) IsValid() bool {
	return e == EnvironmentSandbox || e == EnvironmentProduction
}

// String returns the string representation of Environment
func (e Environment) String() string {
	return string(e)
}

// ResolveEnvironment selects the POS environment from runtime configuration.
// Production is chosen only when the POS target is explicitly configured as
// production, or when the deployment itself runs in production mode. Anything
// else, including unknown values, resolves to sandbox: an unconfigured or
// misconfigured deployment must never silently write to the live POS catalog.
func ResolveEnvironment(posEnv, deployEnv string) Environment {
	if posEnv == string(EnvironmentProduction) {
		return EnvironmentProduction
	}
	if posEnv == "" && deployEnv == "production" {
		return EnvironmentProduction
	}
	return EnvironmentSandbox
}
